package domain

import "time"

// Dependency is a finish-to-start edge: the successor may start only after
// the predecessor ends plus LagDays.
type Dependency struct {
	ID                string
	ProjectID         string
	PredecessorTaskID string
	SuccessorTaskID   string
	Type              DependencyType
	LagDays           int
	CreatedAt         time.Time
}

// MinSuccessorStart returns the earliest date a successor may start given
// the predecessor's end date: end + lag + 1 day.
func MinSuccessorStart(predecessorEnd time.Time, lagDays int) time.Time {
	return AddDays(predecessorEnd, lagDays+1)
}
