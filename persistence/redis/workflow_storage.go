package redis

import (
	"context"
	"errors"
	"sort"

	rd "github.com/go-redis/redis/v9"
	"github.com/hotgigs/automation/logger"
	"github.com/hotgigs/automation/metadata"
	"github.com/hotgigs/automation/model"
	"github.com/hotgigs/automation/persistence"
	"github.com/hotgigs/automation/util"
	"go.uber.org/zap"
)

var _ metadata.WorkflowStorage = new(redisWorkflowStorage)

// redisWorkflowStorage keeps every workflow as one field of a namespaced hash.
type redisWorkflowStorage struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.Workflow]
}

func NewWorkflowStorage(conf Config) *redisWorkflowStorage {
	return &redisWorkflowStorage{
		baseDao:        newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.Workflow](),
	}
}

func (r *redisWorkflowStorage) key() string {
	return r.getNamespaceKey(persistence.WORKFLOW_KEY)
}

func (r *redisWorkflowStorage) SaveWorkflow(wf model.Workflow) error {
	ctx := context.Background()
	data, err := r.encoderDecoder.Encode(wf)
	if err != nil {
		return err
	}
	if err := r.redisClient.HSet(ctx, r.key(), wf.Id, string(data)).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisWorkflowStorage) DeleteWorkflow(id string) error {
	ctx := context.Background()
	if err := r.redisClient.HDel(ctx, r.key(), id).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisWorkflowStorage) GetWorkflow(id string) (*model.Workflow, error) {
	ctx := context.Background()
	val, err := r.redisClient.HGet(ctx, r.key(), id).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, metadata.ErrNotFound
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return r.encoderDecoder.Decode([]byte(val))
}

func (r *redisWorkflowStorage) ListWorkflows() ([]model.Workflow, error) {
	ctx := context.Background()
	vals, err := r.redisClient.HGetAll(ctx, r.key()).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	out := make([]model.Workflow, 0, len(vals))
	for id, val := range vals {
		wf, err := r.encoderDecoder.Decode([]byte(val))
		if err != nil {
			logger.Error("error decoding stored workflow, skipping", zap.String("workflow", id), zap.Error(err))
			continue
		}
		out = append(out, *wf)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
