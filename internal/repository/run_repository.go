package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/irn-edu/timetable-api/internal/models"
)

// RunRepository persists summary rows for completed scheduling runs.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository constructs the repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Insert writes one run summary row, generating defaults where absent.
func (r *RunRepository) Insert(ctx context.Context, run *models.ScheduleRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO schedule_runs (id, soft_score, sessions, unplaced, soft_violations, duration_ms, created_at)
VALUES (:id, :soft_score, :sessions, :unplaced, :soft_violations, :duration_ms, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("insert schedule run: %w", err)
	}
	return nil
}

// List returns run summaries newest first with total count for pagination.
func (r *RunRepository) List(ctx context.Context, page, size int) ([]models.ScheduleRun, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, soft_score, sessions, unplaced, soft_violations, duration_ms, created_at
FROM schedule_runs ORDER BY created_at DESC LIMIT %d OFFSET %d`, size, offset)
	runs := []models.ScheduleRun{}
	if err := r.db.SelectContext(ctx, &runs, query); err != nil {
		return nil, 0, fmt.Errorf("list schedule runs: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM schedule_runs"); err != nil {
		return nil, 0, fmt.Errorf("count schedule runs: %w", err)
	}
	return runs, total, nil
}
