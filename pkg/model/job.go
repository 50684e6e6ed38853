package model

import (
	"github.com/google/uuid"
)

// AsyncJobHandle identifies a long-running remote operation.
//
// ImportJobID is the correlation id generated by the client when submitting the request.
type AsyncJobHandle struct {
	JobID       uuid.UUID
	ImportJobID uuid.UUID
}

func (h AsyncJobHandle) String() string {
	return h.JobID.String()
}

// JobState is the terminal state of a polled job
type JobState int

const (
	// JobSucceeded means the remote job completed successfully
	JobSucceeded JobState = iota + 1

	// JobFailed means the remote job reached a failure state
	JobFailed

	// JobTimedOut means the job never reached a terminal state before the deadline
	JobTimedOut
)

func (s JobState) String() string {
	switch s {
	case JobSucceeded:
		return "succeeded"
	case JobFailed:
		return "failed"
	case JobTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// AsyncJobOutcome is the terminal result of polling an async job
type AsyncJobOutcome struct {
	State   JobState
	Message string
}

// Succeeded outcome
func Succeeded() AsyncJobOutcome {
	return AsyncJobOutcome{State: JobSucceeded}
}

// Failed outcome, with a diagnostic message
func Failed(msg string) AsyncJobOutcome {
	return AsyncJobOutcome{State: JobFailed, Message: msg}
}

// TimedOut outcome
func TimedOut() AsyncJobOutcome {
	return AsyncJobOutcome{State: JobTimedOut}
}
