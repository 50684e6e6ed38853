// Package fake provides an in-memory remote service
package fake

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/oneconcern/solsync/pkg/model"
	"github.com/oneconcern/solsync/pkg/remote"
	"github.com/oneconcern/solsync/pkg/remote/status"
)

// Operations which may be set to fail
const (
	OpQuery     = "query"
	OpExport    = "ExportSolution"
	OpImport    = "ImportSolution"
	OpPublish   = "PublishAllXml"
	OpJobStatus = "status"
)

// JobStep is the answer to a job status query
type JobStep struct {
	Status remote.JobStatus
	Err    error
}

// Running job step
func Running() JobStep {
	return JobStep{Status: remote.JobStatus{Code: 20}}
}

// Done job step
func Done() JobStep {
	return JobStep{Status: remote.JobStatus{Code: remote.StatusCodeSucceeded}}
}

// Failing job step
func Failing(message, friendly string) JobStep {
	return JobStep{Status: remote.JobStatus{Code: remote.StatusCodeFailed, Message: message, FriendlyMessage: friendly}}
}

// Unavailable job step: the status query fails
func Unavailable(err error) JobStep {
	return JobStep{Err: err}
}

var _ remote.Service = &Service{}

// Service is an in-memory remote service
type Service struct {
	mu        sync.Mutex
	bundles   map[string]model.BundleIdentity
	archives  map[string][]byte
	failures  map[string]error
	script    []JobStep
	polls     int
	commands  []remote.Command
	imported  [][]byte
	published int
}

// New empty service
func New() *Service {
	return &Service{
		bundles:  make(map[string]model.BundleIdentity),
		archives: make(map[string][]byte),
		failures: make(map[string]error),
	}
}

// AddBundle registers a bundle and the archive returned when exporting it
func (s *Service) AddBundle(uniqueName, version string, archive []byte) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundles[uniqueName] = model.BundleIdentity{UniqueName: uniqueName, Version: version}
	s.archives[uniqueName] = archive
	return s
}

// FailOn makes an operation fail
func (s *Service) FailOn(op string, err error) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
	return s
}

// ScriptJobs sets the answers to successive job status queries.
//
// The last step repeats. Without any script, jobs succeed on the first query.
func (s *Service) ScriptJobs(steps ...JobStep) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = steps
	s.polls = 0
	return s
}

// QueryBundles by exact unique name. Names are compared case-insensitively, as the remote service does.
func (s *Service) QueryBundles(_ context.Context, uniqueName string) ([]model.BundleIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures[OpQuery]; err != nil {
		return nil, err
	}
	var found []model.BundleIdentity
	for name, identity := range s.bundles {
		if strings.EqualFold(name, uniqueName) {
			found = append(found, identity)
		}
	}
	return found, nil
}

// Execute a command
func (s *Service) Execute(_ context.Context, cmd remote.Command) (remote.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, cmd)
	if err := s.failures[cmd.Name()]; err != nil {
		return nil, err
	}

	switch c := cmd.(type) {
	case remote.ExportCommand:
		archive, ok := s.archives[c.SolutionName]
		if !ok {
			return nil, status.ErrNotFound.WrapMessage("%s", c.SolutionName)
		}
		return remote.ExportResponse{File: archive}, nil
	case remote.PublishAllCommand:
		s.published++
		return remote.EmptyResponse{}, nil
	default:
		return nil, status.ErrUnsupportedCommand.WrapMessage("%s cannot run synchronously", cmd.Name())
	}
}

// ExecuteAsync starts a job
func (s *Service) ExecuteAsync(_ context.Context, cmd remote.Command) (remote.AsyncResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, cmd)
	if err := s.failures[cmd.Name()]; err != nil {
		return remote.AsyncResponse{}, err
	}

	c, ok := cmd.(remote.ImportCommand)
	if !ok {
		return remote.AsyncResponse{}, status.ErrUnsupportedCommand.WrapMessage("%s cannot run asynchronously", cmd.Name())
	}
	s.imported = append(s.imported, c.CustomizationFile)
	return remote.AsyncResponse{JobID: uuid.New()}, nil
}

// JobStatus replays the job script
func (s *Service) JobStatus(_ context.Context, _ uuid.UUID) (remote.JobStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.polls
	s.polls++
	if err := s.failures[OpJobStatus]; err != nil {
		return remote.JobStatus{}, err
	}
	if len(s.script) == 0 {
		return Done().Status, nil
	}
	if idx >= len(s.script) {
		idx = len(s.script) - 1
	}
	step := s.script[idx]
	return step.Status, step.Err
}

// Commands executed so far
func (s *Service) Commands() []remote.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]remote.Command(nil), s.commands...)
}

// Imported archives so far
func (s *Service) Imported() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.imported...)
}

// Published counts publish requests
func (s *Service) Published() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published
}

// Polls counts job status queries
func (s *Service) Polls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polls
}
