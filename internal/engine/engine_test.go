package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irn-edu/timetable-api/internal/models"
)

func allDayAvailability(instructorID string, cfg Config) []models.AvailabilityWindow {
	windows := make([]models.AvailabilityWindow, 0, len(cfg.Days))
	for _, day := range cfg.Days {
		windows = append(windows, models.AvailabilityWindow{
			InstructorID: instructorID,
			Day:          day,
			Start:        cfg.DayStart,
			End:          cfg.DayEnd,
		})
	}
	return windows
}

func singleCourseInput() Input {
	cfg := defaultConfig()
	return Input{
		Config:       cfg,
		Courses:      []models.Course{{ID: "c1", InstructorID: "i1", SessionsPerWeek: 1, DurationMinutes: 90}},
		Instructors:  []models.Instructor{{ID: "i1"}},
		Availability: allDayAvailability("i1", cfg),
		Rooms:        []models.Room{{ID: "r1", Building: "B1", Capacity: 10}},
	}
}

func TestRunPlacesSingleCourseInFirstChainAndRoom(t *testing.T) {
	result, err := Run(context.Background(), singleCourseInput())
	require.NoError(t, err)

	require.Len(t, result.Assignments, 1)
	a := result.Assignments[0]
	require.True(t, a.Placed())
	assert.Equal(t, "r1", *a.RoomID)
	assert.Equal(t, "B1", *a.Building)
	assert.Equal(t, "Sat", *a.Day, "first generated chain of the first day wins without preferences")
	assert.Equal(t, clock(8, 0), *a.Start)
	assert.Equal(t, clock(9, 30), *a.End)
	assert.Equal(t, []string{"TS001"}, a.SlotIDs)

	assert.InDelta(t, 0.1, result.SoftScore, 1e-9)
	assert.Equal(t, 1, result.Counts.Sessions)
	assert.Equal(t, 0, result.Counts.Unplaced)
	assert.Equal(t, 0, result.Counts.SoftViolations)
}

func TestRunHonoursPreferredDay(t *testing.T) {
	in := singleCourseInput()
	in.Instructors[0].PreferredDays = []string{"Mon"}

	result, err := Run(context.Background(), in)
	require.NoError(t, err)
	require.True(t, result.Assignments[0].Placed())
	assert.Equal(t, "Mon", *result.Assignments[0].Day)
	assert.Equal(t, clock(8, 0), *result.Assignments[0].Start)
}

func TestRunNoAvailabilityLeavesEverythingUnplaced(t *testing.T) {
	in := singleCourseInput()
	in.Courses[0].SessionsPerWeek = 3
	in.Availability = nil

	result, err := Run(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 3)
	for _, a := range result.Assignments {
		assert.False(t, a.Placed())
		assert.Nil(t, a.RoomID)
		assert.Empty(t, a.SlotIDs)
	}
	assert.Equal(t, 3, result.Counts.Sessions)
	assert.Equal(t, 3, result.Counts.Unplaced)
	assert.InDelta(t, 0.0, result.SoftScore, 1e-9)
}

func TestRunMissingEquipmentLeavesCourseUnplaced(t *testing.T) {
	in := singleCourseInput()
	in.Courses[0].Equipment = []string{"piano"}

	result, err := Run(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, result.Assignments[0].Placed())
	assert.Equal(t, 1, result.Counts.Unplaced)
}

func TestRunSharedStudentContention(t *testing.T) {
	cfg := Config{Days: []string{"Sat"}, DayStart: clock(8, 0), DayEnd: clock(9, 30), BlockMinutes: 90}
	in := Input{
		Config: cfg,
		Courses: []models.Course{
			{ID: "c1", InstructorID: "i1", SessionsPerWeek: 1, DurationMinutes: 90},
			{ID: "c2", InstructorID: "i2", SessionsPerWeek: 1, DurationMinutes: 90},
		},
		Instructors: []models.Instructor{{ID: "i1"}, {ID: "i2"}},
		Availability: append(
			allDayAvailability("i1", cfg),
			allDayAvailability("i2", cfg)...,
		),
		Rooms: []models.Room{
			{ID: "r1", Building: "B1", Capacity: 10},
			{ID: "r2", Building: "B1", Capacity: 10},
		},
		Enrollments: []models.Enrollment{
			{CourseID: "c1", StudentID: "s1"},
			{CourseID: "c2", StudentID: "s1"},
		},
	}

	// Only one 90 minute interval exists; the shared student makes the two
	// sessions mutually exclusive even with a second room free.
	result, err := Run(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, result.Assignments, 2)
	assert.True(t, result.Assignments[0].Placed(), "first session in expansion order wins the contested interval")
	assert.False(t, result.Assignments[1].Placed())
}

func TestRunSharedStudentSeparateIntervals(t *testing.T) {
	in := singleCourseInput()
	in.Courses = append(in.Courses, models.Course{ID: "c2", InstructorID: "i1", SessionsPerWeek: 1, DurationMinutes: 90})
	in.Enrollments = []models.Enrollment{
		{CourseID: "c1", StudentID: "s1"},
		{CourseID: "c2", StudentID: "s1"},
	}

	result, err := Run(context.Background(), in)
	require.NoError(t, err)
	first, second := result.Assignments[0], result.Assignments[1]
	require.True(t, first.Placed())
	require.True(t, second.Placed())
	if *first.Day == *second.Day {
		assert.False(t, overlaps(*first.Start, *first.End, *second.Start, *second.End))
	}
}

func TestRunCapacityRespected(t *testing.T) {
	in := singleCourseInput()
	in.Rooms[0].Capacity = 1
	in.Rooms = append(in.Rooms, models.Room{ID: "r2", Building: "B2", Capacity: 5})
	in.Enrollments = []models.Enrollment{
		{CourseID: "c1", StudentID: "s1"},
		{CourseID: "c1", StudentID: "s2"},
	}

	result, err := Run(context.Background(), in)
	require.NoError(t, err)
	require.True(t, result.Assignments[0].Placed())
	assert.Equal(t, "r2", *result.Assignments[0].RoomID, "undersized room must be skipped in input order")
}

func TestRunIdempotent(t *testing.T) {
	in := singleCourseInput()
	in.Courses = append(in.Courses,
		models.Course{ID: "c2", InstructorID: "i1", SessionsPerWeek: 2, DurationMinutes: 180},
		models.Course{ID: "c3", InstructorID: "i1", SessionsPerWeek: 1, DurationMinutes: 90},
	)

	first, err := Run(context.Background(), in)
	require.NoError(t, err)
	second, err := Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunNoDoubleBooking(t *testing.T) {
	cfg := defaultConfig()
	in := Input{
		Config: cfg,
		Courses: []models.Course{
			{ID: "c1", InstructorID: "i1", SessionsPerWeek: 3, DurationMinutes: 90},
			{ID: "c2", InstructorID: "i1", SessionsPerWeek: 2, DurationMinutes: 180},
			{ID: "c3", InstructorID: "i2", SessionsPerWeek: 3, DurationMinutes: 90},
		},
		Instructors: []models.Instructor{{ID: "i1"}, {ID: "i2"}},
		Availability: append(
			allDayAvailability("i1", cfg),
			allDayAvailability("i2", cfg)...,
		),
		Rooms: []models.Room{
			{ID: "r1", Building: "B1", Capacity: 10},
			{ID: "r2", Building: "B1", Capacity: 10},
		},
		Enrollments: []models.Enrollment{
			{CourseID: "c1", StudentID: "s1"},
			{CourseID: "c2", StudentID: "s1"},
			{CourseID: "c3", StudentID: "s2"},
		},
	}

	result, err := Run(context.Background(), in)
	require.NoError(t, err)

	students := map[string][]string{"c1": {"s1"}, "c2": {"s1"}, "c3": {"s2"}}
	placed := make([]models.Assignment, 0, len(result.Assignments))
	for _, a := range result.Assignments {
		if a.Placed() {
			placed = append(placed, a)
		}
	}
	for i := 0; i < len(placed); i++ {
		for j := i + 1; j < len(placed); j++ {
			a, b := placed[i], placed[j]
			if *a.Day != *b.Day || !overlaps(*a.Start, *a.End, *b.Start, *b.End) {
				continue
			}
			assert.NotEqual(t, *a.RoomID, *b.RoomID, "room double-booked: %+v vs %+v", a, b)
			assert.NotEqual(t, a.InstructorID, b.InstructorID, "instructor double-booked: %+v vs %+v", a, b)
			for _, sa := range students[a.CourseID] {
				for _, sb := range students[b.CourseID] {
					assert.NotEqual(t, sa, sb, "student double-booked: %+v vs %+v", a, b)
				}
			}
		}
	}
}

func TestRunSoftViolationCounted(t *testing.T) {
	cfg := Config{Days: []string{"Sat", "Mon"}, DayStart: clock(8, 0), DayEnd: clock(11, 0), BlockMinutes: 90}
	in := Input{
		Config:      cfg,
		Courses:     []models.Course{{ID: "c1", InstructorID: "i1", SessionsPerWeek: 1, DurationMinutes: 90}},
		Instructors: []models.Instructor{{ID: "i1", PreferredDays: []string{"Mon"}}},
		// Only Saturday availability forces placement off the preferred day.
		Availability: []models.AvailabilityWindow{{InstructorID: "i1", Day: "Sat", Start: clock(8, 0), End: clock(11, 0)}},
		Rooms:        []models.Room{{ID: "r1", Building: "B1", Capacity: 10}},
	}

	result, err := Run(context.Background(), in)
	require.NoError(t, err)
	require.True(t, result.Assignments[0].Placed())
	assert.Equal(t, "Sat", *result.Assignments[0].Day)
	assert.Equal(t, 1, result.Counts.SoftViolations)
}

func TestRunPreviewBounded(t *testing.T) {
	in := singleCourseInput()
	in.Courses[0].SessionsPerWeek = 25
	in.Availability = nil

	result, err := Run(context.Background(), in)
	require.NoError(t, err)
	assert.Len(t, result.Assignments, 25)
	assert.Len(t, result.Preview, 20)
	assert.Empty(t, result.Preview[0].Start, "unplaced times render as empty strings")
}

func TestRunRejectsUnknownInstructor(t *testing.T) {
	in := singleCourseInput()
	in.Courses[0].InstructorID = "ghost"

	_, err := Run(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `course "c1"`)
	assert.Contains(t, err.Error(), `unknown instructor "ghost"`)
}

func TestRunRejectsUnknownCourseEnrollment(t *testing.T) {
	in := singleCourseInput()
	in.Enrollments = []models.Enrollment{{CourseID: "nope", StudentID: "s1"}}

	_, err := Run(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown course "nope"`)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	in := singleCourseInput()
	in.Config.BlockMinutes = 0
	_, err := Run(context.Background(), in)
	require.Error(t, err)

	in = singleCourseInput()
	in.Config.DayStart = clock(19, 0)
	in.Config.DayEnd = clock(8, 0)
	_, err = Run(context.Background(), in)
	require.Error(t, err)

	in = singleCourseInput()
	in.Config.Days = nil
	_, err = Run(context.Background(), in)
	require.Error(t, err)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, singleCourseInput())
	require.ErrorIs(t, err, context.Canceled)
}
