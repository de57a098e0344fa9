package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/irn-edu/timetable-api/internal/dto"
	"github.com/irn-edu/timetable-api/internal/models"
	appErrors "github.com/irn-edu/timetable-api/pkg/errors"
	"github.com/irn-edu/timetable-api/pkg/jobs"
)

// RunRepository persists and lists scheduling run summaries.
type RunRepository interface {
	Insert(ctx context.Context, run *models.ScheduleRun) error
	List(ctx context.Context, page, size int) ([]models.ScheduleRun, int, error)
}

// RunRecorder writes run summaries off the request path through a worker
// queue so a slow database never delays the scheduling response.
type RunRecorder struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewRunRecorder wires the recorder and its queue.
func NewRunRecorder(repo RunRepository, logger *zap.Logger) *RunRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	recorder := &RunRecorder{logger: logger}
	recorder.queue = jobs.NewQueue("run-history", func(ctx context.Context, job jobs.Job) error {
		run, ok := job.Payload.(*models.ScheduleRun)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", job.Payload)
		}
		return repo.Insert(ctx, run)
	}, jobs.QueueConfig{Workers: 1, Logger: logger})
	return recorder
}

// Start launches the queue workers.
func (r *RunRecorder) Start(ctx context.Context) {
	r.queue.Start(ctx)
}

// Stop drains the queue workers.
func (r *RunRecorder) Stop() {
	r.queue.Stop()
}

// Record enqueues one run summary for persistence.
func (r *RunRecorder) Record(run *models.ScheduleRun) {
	if r == nil {
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: "schedule_run", Payload: run}
	if err := r.queue.Enqueue(job); err != nil {
		r.logger.Warn("failed to enqueue run history record", zap.Error(err))
	}
}

// RunHistoryService lists persisted run summaries.
type RunHistoryService struct {
	repo RunRepository
}

// NewRunHistoryService constructs the history service.
func NewRunHistoryService(repo RunRepository) *RunHistoryService {
	return &RunHistoryService{repo: repo}
}

// List pages through run summaries, newest first.
func (s *RunHistoryService) List(ctx context.Context, query dto.RunHistoryQuery) (*dto.RunHistoryResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.PageSize
	if size < 1 || size > 100 {
		size = 20
	}
	runs, total, err := s.repo.List(ctx, page, size)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list run history")
	}
	return &dto.RunHistoryResponse{
		Runs: runs,
		Pagination: models.Pagination{
			Page:       page,
			PageSize:   size,
			TotalCount: total,
		},
	}, nil
}
