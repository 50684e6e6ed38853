package remote

import "strings"

// Status codes of asynchronous operations, as defined by the remote service
const (
	StatusCodeSucceeded = 30
	StatusCodeFailed    = 31
)

// JobStatus is the state of an asynchronous operation
type JobStatus struct {
	Code            int    `json:"statuscode"`
	Message         string `json:"message"`
	FriendlyMessage string `json:"friendlymessage"`
}

// Succeeded job
func (s JobStatus) Succeeded() bool {
	return s.Code == StatusCodeSucceeded
}

// Failed job
func (s JobStatus) Failed() bool {
	return s.Code == StatusCodeFailed
}

// Terminal tells if the job is done. Any other status means it is still queued or running.
func (s JobStatus) Terminal() bool {
	return s.Succeeded() || s.Failed()
}

// FailureMessage combines the technical and user-facing messages
func (s JobStatus) FailureMessage() string {
	return strings.Join([]string{s.Message, s.FriendlyMessage}, "\n")
}
