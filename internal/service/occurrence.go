package service

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/irn-edu/timetable-api/internal/models"
)

var weekdayByLabel = map[string]rrule.Weekday{
	"Sat": rrule.SA,
	"Sun": rrule.SU,
	"Mon": rrule.MO,
	"Tue": rrule.TU,
	"Wed": rrule.WE,
	"Thu": rrule.TH,
	"Fri": rrule.FR,
}

// ExpandOccurrences projects placed weekly assignments onto calendar dates for
// a term of the given length. Unplaced assignments and assignments on day
// labels with no weekday mapping contribute nothing.
func ExpandOccurrences(assignments []models.Assignment, termStart time.Time, weeks int) ([]models.Occurrence, error) {
	if weeks <= 0 {
		return nil, fmt.Errorf("term weeks must be positive, got %d", weeks)
	}

	occurrences := make([]models.Occurrence, 0, len(assignments)*weeks)
	for _, a := range assignments {
		if !a.Placed() {
			continue
		}
		weekday, ok := weekdayByLabel[*a.Day]
		if !ok {
			continue
		}

		h, m := a.Start.HourMinute()
		dtstart := time.Date(termStart.Year(), termStart.Month(), termStart.Day(), h, m, 0, 0, time.UTC)
		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Count:     weeks,
			Dtstart:   dtstart,
			Byweekday: []rrule.Weekday{weekday},
		})
		if err != nil {
			return nil, fmt.Errorf("build recurrence for course %q session %d: %w", a.CourseID, a.SessionIndex, err)
		}

		for _, date := range rule.All() {
			occurrences = append(occurrences, models.Occurrence{
				CourseID:     a.CourseID,
				SessionIndex: a.SessionIndex,
				InstructorID: a.InstructorID,
				RoomID:       *a.RoomID,
				Building:     *a.Building,
				Day:          *a.Day,
				Date:         date.Format("2006-01-02"),
				Start:        *a.Start,
				End:          *a.End,
			})
		}
	}
	return occurrences, nil
}
