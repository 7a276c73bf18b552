package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"social-calendar-api/core/constants"
	"social-calendar-api/core/logger"
	"social-calendar-api/modules/availability/dto"
	"social-calendar-api/modules/availability/service"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	warmUpMaxRetry = 3
	warmUpTimeout  = 2 * time.Minute
)

// WarmUpPayload is the JSON body of a TaskAvailabilityWarmUp task.
type WarmUpPayload struct {
	RequesterID uuid.UUID           `json:"requester_id"`
	Request     dto.ScheduleRequest `json:"request"`
}

func NewWarmUpTask(requesterID uuid.UUID, req *dto.ScheduleRequest) (*asynq.Task, error) {
	b, err := json.Marshal(WarmUpPayload{RequesterID: requesterID, Request: *req})
	if err != nil {
		return nil, fmt.Errorf("marshal warm-up payload: %w", err)
	}
	return asynq.NewTask(constants.TaskAvailabilityWarmUp, b,
		asynq.MaxRetry(warmUpMaxRetry),
		asynq.Timeout(warmUpTimeout),
	), nil
}

// TaskClient is the part of *asynq.Client the enqueuer needs.
type TaskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer schedules warm-up computations on the background queue.
type Enqueuer struct {
	client TaskClient
	queue  string
}

func NewEnqueuer(client TaskClient) *Enqueuer {
	return &Enqueuer{client: client, queue: constants.QueueDefault}
}

func (e *Enqueuer) EnqueueWarmUp(ctx context.Context, requesterID uuid.UUID, req *dto.ScheduleRequest) (*dto.WarmUpResponse, error) {
	t, err := NewWarmUpTask(requesterID, req)
	if err != nil {
		return nil, err
	}
	info, err := e.client.EnqueueContext(ctx, t, asynq.Queue(e.queue))
	if err != nil {
		logger.Error("WarmUpEnqueuer:EnqueueWarmUp", "requester_id", requesterID, "error", err)
		return nil, err
	}
	logger.Info("WarmUpEnqueuer:EnqueueWarmUp:Enqueued", "requester_id", requesterID, "task_id", info.ID, "queue", info.Queue)
	return &dto.WarmUpResponse{TaskID: info.ID, Queue: info.Queue}, nil
}

// Handler runs warm-up tasks in the worker.
type Handler struct {
	svc service.AvailabilityService
}

func NewHandler(svc service.AvailabilityService) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the handler on the worker's mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.Handle(constants.TaskAvailabilityWarmUp, h)
}

// ProcessTask computes the group schedule; the service publishes the snapshot
// when the run is still the requester's latest.
func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p WarmUpPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode warm-up payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.RequesterID == uuid.Nil {
		return fmt.Errorf("warm-up payload without requester: %w", asynq.SkipRetry)
	}

	resp, appErr := h.svc.ComputeGroupSchedule(ctx, p.RequesterID, &p.Request)
	if appErr != nil {
		logger.Error("WarmUpHandler:ProcessTask", "requester_id", p.RequesterID, "error", appErr)
		return appErr
	}
	logger.Info("WarmUpHandler:ProcessTask:Done",
		"requester_id", p.RequesterID,
		"seq", resp.RequestSeq,
		"slots", resp.TotalSlots,
		"superseded", resp.Superseded,
	)
	return nil
}

var _ service.WarmUpEnqueuer = (*Enqueuer)(nil)
