package metadata

import (
	"errors"

	"github.com/hotgigs/automation/model"
)

var ErrNotFound = errors.New("workflow not found")

// WorkflowStorage keeps snapshots of workflow definitions and their bookkeeping so that a
// restarted engine can restore its registry.
type WorkflowStorage interface {
	SaveWorkflow(wf model.Workflow) error
	DeleteWorkflow(id string) error
	GetWorkflow(id string) (*model.Workflow, error)
	ListWorkflows() ([]model.Workflow, error)
}
