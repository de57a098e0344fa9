// Package tabular decodes the uploaded CSV tables into typed records and
// run settings. It owns no scheduling logic; the engine consumes its output.
package tabular

import (
	"time"

	"github.com/irn-edu/timetable-api/internal/engine"
	"github.com/irn-edu/timetable-api/internal/models"
)

// Table names accepted in an upload. Students and building_travel are
// optional; everything else must be present.
const (
	TableCourses      = "courses"
	TableInstructors  = "instructors"
	TableAvailability = "availability"
	TableRooms        = "rooms"
	TableEnrollments  = "enrollments"
	TableSettings     = "settings"
	TableStudents     = "students"
	TableTravel       = "building_travel"
)

// RequiredTables lists the tables an upload must contain.
var RequiredTables = []string{
	TableCourses,
	TableInstructors,
	TableAvailability,
	TableRooms,
	TableEnrollments,
	TableSettings,
}

// OptionalTables lists tables that may be omitted.
var OptionalTables = []string{TableStudents, TableTravel}

// Settings holds the typed run configuration decoded from the settings table.
type Settings struct {
	Days         []string
	DayStart     models.Clock
	DayEnd       models.Clock
	BlockMinutes int

	// Term anchoring is optional; when both are set the service expands the
	// weekly schedule into dated occurrences.
	TermStart *time.Time
	TermWeeks int
}

// EngineConfig converts the settings into the engine's run configuration.
func (s Settings) EngineConfig() engine.Config {
	return engine.Config{
		Days:         s.Days,
		DayStart:     s.DayStart,
		DayEnd:       s.DayEnd,
		BlockMinutes: s.BlockMinutes,
	}
}

// TableSet is the fully decoded upload.
type TableSet struct {
	Courses      []models.Course
	Instructors  []models.Instructor
	Availability []models.AvailabilityWindow
	Rooms        []models.Room
	Enrollments  []models.Enrollment
	Students     []models.Student
	Travel       []models.TravelTime
	Settings     Settings
}

// EngineInput assembles the engine input from the decoded tables.
func (t *TableSet) EngineInput() engine.Input {
	return engine.Input{
		Config:       t.Settings.EngineConfig(),
		Courses:      t.Courses,
		Instructors:  t.Instructors,
		Availability: t.Availability,
		Rooms:        t.Rooms,
		Enrollments:  t.Enrollments,
		Students:     t.Students,
		Travel:       t.Travel,
	}
}
