package model

// JobStatus represents the lifecycle state of a download job
type JobStatus string

const (
	// JobStatusQueued means the job was accepted and is still running. A
	// transfer in flight shows up as Progress > 0, not as a separate status.
	JobStatusQueued JobStatus = "queued"

	// JobStatusCompleted means the artifact was resolved on disk
	JobStatusCompleted JobStatus = "completed"

	// JobStatusError means the job failed; Error carries the cause
	JobStatusError JobStatus = "error"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// IsActive returns true if the job still has work to do
func (js JobStatus) IsActive() bool {
	return js == JobStatusQueued
}

// IsFinished returns true if the job reached a terminal state (completed or error)
func (js JobStatus) IsFinished() bool {
	return js == JobStatusCompleted || js == JobStatusError
}
