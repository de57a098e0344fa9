package engine

import "github.com/irn-edu/timetable-api/internal/models"

// CourseSession is one weekly occurrence of a course awaiting placement.
// Sessions are rebuilt fresh on every run and never persisted.
type CourseSession struct {
	CourseID     string
	Index        int
	DurationMin  int
	InstructorID string
}

// ExpandSessions turns each course into its weekly session instances. The
// output order is the order placements are attempted, so it preserves course
// input order exactly.
func ExpandSessions(courses []models.Course) []CourseSession {
	var sessions []CourseSession
	for _, course := range courses {
		for k := 1; k <= course.SessionsPerWeek; k++ {
			sessions = append(sessions, CourseSession{
				CourseID:     course.ID,
				Index:        k,
				DurationMin:  course.DurationMinutes,
				InstructorID: course.InstructorID,
			})
		}
	}
	return sessions
}
