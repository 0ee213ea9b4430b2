package domain

import "time"

type Baseline struct {
	ID        string
	ProjectID string
	Name      string
	CreatedAt time.Time
}

// BaselineTask is the frozen state of one task at baseline creation.
type BaselineTask struct {
	BaselineID string
	TaskID     string
	StartDate  *time.Time
	EndDate    *time.Time
	EstimatePd *float64
	Progress   int
	Status     TaskStatus
}

// SnapshotTask freezes a task's schedule fields into a BaselineTask.
func SnapshotTask(baselineID string, t *Task) BaselineTask {
	return BaselineTask{
		BaselineID: baselineID,
		TaskID:     t.ID,
		StartDate:  t.StartDate,
		EndDate:    t.EndDate,
		EstimatePd: t.EstimatePd,
		Progress:   t.Progress,
		Status:     t.Status,
	}
}
