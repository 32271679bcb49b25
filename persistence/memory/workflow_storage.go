package memory

import (
	"sort"

	"github.com/hotgigs/automation/metadata"
	"github.com/hotgigs/automation/model"
	c "github.com/patrickmn/go-cache"
)

var _ metadata.WorkflowStorage = new(memoryWorkflowStorage)

type memoryWorkflowStorage struct {
	cache *c.Cache
}

func NewWorkflowStorage() *memoryWorkflowStorage {
	return &memoryWorkflowStorage{
		cache: c.New(c.NoExpiration, 0),
	}
}

func (s *memoryWorkflowStorage) SaveWorkflow(wf model.Workflow) error {
	s.cache.Set(wf.Id, wf, c.NoExpiration)
	return nil
}

func (s *memoryWorkflowStorage) DeleteWorkflow(id string) error {
	s.cache.Delete(id)
	return nil
}

func (s *memoryWorkflowStorage) GetWorkflow(id string) (*model.Workflow, error) {
	v, found := s.cache.Get(id)
	if !found {
		return nil, metadata.ErrNotFound
	}
	wf := v.(model.Workflow)
	return &wf, nil
}

func (s *memoryWorkflowStorage) ListWorkflows() ([]model.Workflow, error) {
	items := s.cache.Items()
	out := make([]model.Workflow, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(model.Workflow))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
