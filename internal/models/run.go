package models

import "time"

// ScheduleRun is the persisted summary of one completed scheduling run.
type ScheduleRun struct {
	ID             string    `json:"id" db:"id"`
	SoftScore      float64   `json:"softScore" db:"soft_score"`
	Sessions       int       `json:"sessions" db:"sessions"`
	Unplaced       int       `json:"unplaced" db:"unplaced"`
	SoftViolations int       `json:"softViolations" db:"soft_violations"`
	DurationMs     int64     `json:"durationMs" db:"duration_ms"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
