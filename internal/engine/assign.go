package engine

import (
	"context"

	"github.com/irn-edu/timetable-api/internal/models"
)

type resourceDay struct {
	id  string
	day string
}

// busyCalendar tracks committed intervals per (resource, day). Owned by one
// run; append-only while the run lasts.
type busyCalendar map[resourceDay][]interval

func (b busyCalendar) book(id, day string, start, end models.Clock) {
	key := resourceDay{id: id, day: day}
	b[key] = append(b[key], interval{start: start, end: end})
}

func (b busyCalendar) free(id, day string, start, end models.Clock) bool {
	return freeIn(b[resourceDay{id: id, day: day}], start, end)
}

// assigner walks the expanded sessions and commits the first conflict-free
// (chain, room) combination for each. Commits are permanent: earlier sessions
// are never revisited, so output quality depends on session order.
type assigner struct {
	cfg          Config
	rooms        []models.Room
	courses      map[string]models.Course
	instructors  map[string]models.Instructor
	availability availabilityIndex
	roster       map[string][]string
	chains       *chainCache

	roomBusy       busyCalendar
	instructorBusy busyCalendar
	studentBusy    busyCalendar
}

func newAssigner(cfg Config, slots []TimeSlot, rooms []models.Room, courses map[string]models.Course, instructors map[string]models.Instructor, availability availabilityIndex, roster map[string][]string) *assigner {
	return &assigner{
		cfg:            cfg,
		rooms:          rooms,
		courses:        courses,
		instructors:    instructors,
		availability:   availability,
		roster:         roster,
		chains:         newChainCache(slots),
		roomBusy:       make(busyCalendar),
		instructorBusy: make(busyCalendar),
		studentBusy:    make(busyCalendar),
	}
}

// run places every session in expansion order. The context is checked
// between sessions; input size is unbounded and each session search is
// O(chains x rooms).
func (a *assigner) run(ctx context.Context, sessions []CourseSession) ([]models.Assignment, error) {
	assignments := make([]models.Assignment, 0, len(sessions))
	for _, sess := range sessions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		assignments = append(assignments, a.place(sess))
	}
	return assignments, nil
}

func (a *assigner) place(sess CourseSession) models.Assignment {
	course := a.courses[sess.CourseID]
	instructor := a.instructors[sess.InstructorID]
	students := a.roster[sess.CourseID]

	prefDays := make(map[string]struct{}, len(instructor.PreferredDays))
	for _, day := range instructor.PreferredDays {
		prefDays[day] = struct{}{}
	}
	prefStart := a.cfg.DayStart
	if instructor.PreferredStart != nil {
		prefStart = *instructor.PreferredStart
	}
	prefEnd := a.cfg.DayEnd
	if instructor.PreferredEnd != nil {
		prefEnd = *instructor.PreferredEnd
	}

	candidates := rankChains(a.chains.forDuration(sess.DurationMin), prefDays, prefStart, prefEnd, a.cfg.DayStart, a.cfg.DayEnd)
	for _, ch := range candidates {
		if !a.availability.available(sess.InstructorID, ch.Day, ch.Start, ch.End) {
			continue
		}
		for _, room := range a.rooms {
			if !roomSatisfies(room, course.Equipment, len(students)) {
				continue
			}
			if !a.roomBusy.free(room.ID, ch.Day, ch.Start, ch.End) {
				continue
			}
			if !a.instructorBusy.free(sess.InstructorID, ch.Day, ch.Start, ch.End) {
				continue
			}
			if !a.studentsFree(students, ch) {
				continue
			}
			return a.commit(sess, ch, room, students)
		}
	}

	// Exhausted every ranked chain and room: record the session as unplaced.
	return models.Assignment{
		CourseID:     sess.CourseID,
		SessionIndex: sess.Index,
		InstructorID: sess.InstructorID,
	}
}

func (a *assigner) studentsFree(students []string, ch SlotChain) bool {
	for _, sid := range students {
		if !a.studentBusy.free(sid, ch.Day, ch.Start, ch.End) {
			return false
		}
	}
	return true
}

func (a *assigner) commit(sess CourseSession, ch SlotChain, room models.Room, students []string) models.Assignment {
	a.roomBusy.book(room.ID, ch.Day, ch.Start, ch.End)
	a.instructorBusy.book(sess.InstructorID, ch.Day, ch.Start, ch.End)
	for _, sid := range students {
		a.studentBusy.book(sid, ch.Day, ch.Start, ch.End)
	}

	roomID := room.ID
	building := room.Building
	day := ch.Day
	start := ch.Start
	end := ch.End
	return models.Assignment{
		CourseID:     sess.CourseID,
		SessionIndex: sess.Index,
		InstructorID: sess.InstructorID,
		RoomID:       &roomID,
		Building:     &building,
		Day:          &day,
		Start:        &start,
		End:          &end,
		SlotIDs:      ch.SlotIDs,
	}
}
