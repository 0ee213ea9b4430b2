package domain

type TaskType string

const (
	TaskTypeTask      TaskType = "task"
	TaskTypeSummary   TaskType = "summary"
	TaskTypeMilestone TaskType = "milestone"
)

// ValidTaskTypes is the canonical set of accepted task type strings.
var ValidTaskTypes = map[string]bool{
	"task": true, "summary": true, "milestone": true,
}

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "NotStarted"
	StatusInProgress TaskStatus = "InProgress"
	StatusBlocked    TaskStatus = "Blocked"
	StatusDone       TaskStatus = "Done"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[string]bool{
	"NotStarted": true, "InProgress": true, "Blocked": true, "Done": true,
}

type DependencyType string

// DependencyFS is finish-to-start, the only dependency semantics supported.
const DependencyFS DependencyType = "FS"

type ScheduleWarning string

const (
	WarningMissingDates ScheduleWarning = "SCHEDULE_MISSING_DATES"
	WarningViolation    ScheduleWarning = "SCHEDULE_VIOLATION"
)

// Entity types recorded in the change log.
const (
	EntityTask        = "Task"
	EntityDependency  = "Dependency"
	EntityProject     = "Project"
	EntityBaseline    = "Baseline"
	EntityDeliverable = "Deliverable"
)
