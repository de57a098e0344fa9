package engine

import (
	"strings"

	"github.com/irn-edu/timetable-api/internal/models"
)

const (
	// softScorePerPlaced is a placeholder quality weight, not a calibrated
	// objective.
	softScorePerPlaced = 0.1
	previewLimit       = 20
)

// summarize computes the soft score, the bounded preview and the outcome
// counts for the final assignment set. Counts are derived from the actual
// outcomes; soft violations tally placed sessions that landed outside the
// instructor's preferred days or window.
func summarize(assignments []models.Assignment, instructors map[string]models.Instructor, cfg Config) *models.ScheduleResult {
	placed := 0
	unplaced := 0
	softViolations := 0
	for _, a := range assignments {
		if !a.Placed() {
			unplaced++
			continue
		}
		placed++
		if violatesPreferences(a, instructors[a.InstructorID], cfg) {
			softViolations++
		}
	}

	preview := make([]models.PreviewRow, 0, min(len(assignments), previewLimit))
	for _, a := range assignments[:min(len(assignments), previewLimit)] {
		preview = append(preview, previewRow(a))
	}

	return &models.ScheduleResult{
		Assignments: assignments,
		SoftScore:   float64(placed) * softScorePerPlaced,
		Preview:     preview,
		Counts: models.ScheduleCounts{
			Sessions:       len(assignments),
			Unplaced:       unplaced,
			HardErrors:     0,
			SoftViolations: softViolations,
		},
	}
}

func violatesPreferences(a models.Assignment, instructor models.Instructor, cfg Config) bool {
	if len(instructor.PreferredDays) > 0 {
		onPreferredDay := false
		for _, day := range instructor.PreferredDays {
			if day == *a.Day {
				onPreferredDay = true
				break
			}
		}
		if !onPreferredDay {
			return true
		}
	}
	prefStart := cfg.DayStart
	if instructor.PreferredStart != nil {
		prefStart = *instructor.PreferredStart
	}
	prefEnd := cfg.DayEnd
	if instructor.PreferredEnd != nil {
		prefEnd = *instructor.PreferredEnd
	}
	return *a.Start < prefStart || *a.End > prefEnd
}

func previewRow(a models.Assignment) models.PreviewRow {
	row := models.PreviewRow{
		CourseID:     a.CourseID,
		SessionIndex: a.SessionIndex,
		InstructorID: a.InstructorID,
		SlotIDs:      strings.Join(a.SlotIDs, ","),
	}
	if !a.Placed() {
		return row
	}
	row.RoomID = *a.RoomID
	row.Building = *a.Building
	row.Day = *a.Day
	row.Start = a.Start.String()
	row.End = a.End.String()
	return row
}
