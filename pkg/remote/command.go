package remote

import (
	"github.com/google/uuid"
)

// Command is a request executed by the remote service.
//
// The set of commands is closed: ExportCommand, ImportCommand and PublishAllCommand.
type Command interface {
	// Name of the remote action
	Name() string
	isCommand()
}

// ExportSettings tells which optional settings are exported along with a bundle
type ExportSettings struct {
	AutoNumbering          bool `json:"ExportAutoNumberingSettings"`
	Calendar               bool `json:"ExportCalendarSettings"`
	Customization          bool `json:"ExportCustomizationSettings"`
	EmailTracking          bool `json:"ExportEmailTrackingSettings"`
	ExternalApplications   bool `json:"ExportExternalApplications"`
	General                bool `json:"ExportGeneralSettings"`
	IsvConfig              bool `json:"ExportIsvConfig"`
	Marketing              bool `json:"ExportMarketingSettings"`
	OutlookSynchronization bool `json:"ExportOutlookSynchronizationSettings"`
	RelationshipRoles      bool `json:"ExportRelationshipRoles"`
	Sales                  bool `json:"ExportSales"`
}

// ExportCommand exports a bundle as an archive
type ExportCommand struct {
	SolutionName string
	Settings     ExportSettings
	Managed      bool
}

// ImportCommand imports an archive
type ImportCommand struct {
	CustomizationFile  []byte
	OverwriteUnmanaged bool
	PublishWorkflows   bool
	ImportJobID        uuid.UUID
}

// PublishAllCommand publishes all customizations
type PublishAllCommand struct{}

// Name of the remote action
func (ExportCommand) Name() string { return "ExportSolution" }

// Name of the remote action
func (ImportCommand) Name() string { return "ImportSolution" }

// Name of the remote action
func (PublishAllCommand) Name() string { return "PublishAllXml" }

func (ExportCommand) isCommand()     {}
func (ImportCommand) isCommand()     {}
func (PublishAllCommand) isCommand() {}

// Response to a command
type Response interface {
	isResponse()
}

// ExportResponse carries the exported archive
type ExportResponse struct {
	File []byte
}

// AsyncResponse carries the identifier of the job started to execute a command
type AsyncResponse struct {
	JobID uuid.UUID
}

// EmptyResponse acknowledges a command
type EmptyResponse struct{}

func (ExportResponse) isResponse() {}
func (AsyncResponse) isResponse()  {}
func (EmptyResponse) isResponse()  {}
