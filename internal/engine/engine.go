// Package engine implements the timetable allocation core: timeslot catalog
// generation, candidate chain construction, per-session scoring and the
// greedy conflict-free assignment loop. A run is a pure function of its
// input tables and config; identical input always yields identical output.
// Each run owns its busy calendars exclusively, so independent runs may
// execute in parallel as long as input tables are treated as read-only.
package engine

import (
	"context"
	"fmt"

	"github.com/irn-edu/timetable-api/internal/models"
)

// Input is the complete, already-typed table set for one scheduling run.
// Students and Travel are optional; Travel is accepted but never consulted
// when placing sessions.
type Input struct {
	Config       Config
	Courses      []models.Course
	Instructors  []models.Instructor
	Availability []models.AvailabilityWindow
	Rooms        []models.Room
	Enrollments  []models.Enrollment
	Students     []models.Student
	Travel       []models.TravelTime
}

type runIndexes struct {
	courses     map[string]models.Course
	instructors map[string]models.Instructor
	roster      map[string][]string
}

// buildIndexes creates the id-keyed lookup maps used throughout the run and
// rejects structurally inconsistent input: every course must name a known
// instructor and every enrollment a known course.
func buildIndexes(in Input) (*runIndexes, error) {
	instructors := make(map[string]models.Instructor, len(in.Instructors))
	for _, instructor := range in.Instructors {
		instructors[instructor.ID] = instructor
	}
	courses := make(map[string]models.Course, len(in.Courses))
	for _, course := range in.Courses {
		if _, ok := instructors[course.InstructorID]; !ok {
			return nil, fmt.Errorf("course %q references unknown instructor %q", course.ID, course.InstructorID)
		}
		courses[course.ID] = course
	}
	roster := make(map[string][]string)
	for _, enrollment := range in.Enrollments {
		if _, ok := courses[enrollment.CourseID]; !ok {
			return nil, fmt.Errorf("enrollment for student %q references unknown course %q", enrollment.StudentID, enrollment.CourseID)
		}
		roster[enrollment.CourseID] = append(roster[enrollment.CourseID], enrollment.StudentID)
	}
	return &runIndexes{courses: courses, instructors: instructors, roster: roster}, nil
}

// Run executes one full scheduling pass. Validation and structural errors
// reject the run before any placement work; individually unsatisfiable
// sessions come back as unplaced assignments, never as errors.
func Run(ctx context.Context, in Input) (*models.ScheduleResult, error) {
	if err := in.Config.Validate(); err != nil {
		return nil, err
	}
	idx, err := buildIndexes(in)
	if err != nil {
		return nil, err
	}

	slots := GenerateTimeslots(in.Config)
	sessions := ExpandSessions(in.Courses)
	a := newAssigner(in.Config, slots, in.Rooms, idx.courses, idx.instructors, buildAvailabilityIndex(in.Availability), idx.roster)

	assignments, err := a.run(ctx, sessions)
	if err != nil {
		return nil, err
	}
	return summarize(assignments, idx.instructors, in.Config), nil
}
