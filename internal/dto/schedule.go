package dto

import (
	"time"

	"github.com/irn-edu/timetable-api/internal/models"
)

// ScheduleRunResponse is returned after a successful scheduling run. The
// token retrieves the stored result and its downloadable renderings.
type ScheduleRunResponse struct {
	Token     string                `json:"token"`
	SoftScore float64               `json:"soft_score"`
	Counts    models.ScheduleCounts `json:"counts"`
	Preview   []models.PreviewRow   `json:"preview"`
	CreatedAt time.Time             `json:"created_at"`
}

// RunHistoryQuery filters the persisted run history listing.
type RunHistoryQuery struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"pageSize" json:"pageSize"`
}

// RunHistoryResponse pages through persisted scheduling runs.
type RunHistoryResponse struct {
	Runs       []models.ScheduleRun `json:"runs"`
	Pagination models.Pagination    `json:"pagination"`
}
