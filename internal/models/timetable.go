package models

// Course describes one course that needs weekly session placements.
type Course struct {
	ID              string   `json:"course_id"`
	InstructorID    string   `json:"instructor_id"`
	SessionsPerWeek int      `json:"sessions_per_week"`
	DurationMinutes int      `json:"session_duration_min"`
	Equipment       []string `json:"equipment_required"`
}

// Instructor carries scheduling preferences. Absent window bounds fall back
// to the global day window at assignment time.
type Instructor struct {
	ID             string   `json:"instructor_id"`
	PreferredDays  []string `json:"preferred_days"`
	PreferredStart *Clock   `json:"preferred_start,omitempty"`
	PreferredEnd   *Clock   `json:"preferred_end,omitempty"`
}

// AvailabilityWindow is one time window during which an instructor may be
// scheduled on a given day. An instructor may have any number per day.
type AvailabilityWindow struct {
	InstructorID string `json:"instructor_id"`
	Day          string `json:"day"`
	Start        Clock  `json:"available_start"`
	End          Clock  `json:"available_end"`
}

// Room is a bookable space.
type Room struct {
	ID        string   `json:"room_id"`
	Building  string   `json:"building"`
	Capacity  int      `json:"capacity"`
	Equipment []string `json:"equipment"`
}

// Enrollment links a student to a course.
type Enrollment struct {
	CourseID  string `json:"course_id"`
	StudentID string `json:"student_id"`
}

// Student is an optional roster record; the engine only needs the id.
type Student struct {
	ID string `json:"student_id"`
}

// TravelTime is the building-to-building walking time in minutes. Accepted
// as input for upload compatibility; placement decisions never consult it.
type TravelTime struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Minutes int    `json:"minutes"`
}

// Assignment is the outcome for one course session. Nil placement fields
// mean the session could not be placed; that is a valid result, not an error.
type Assignment struct {
	CourseID     string   `json:"course_id"`
	SessionIndex int      `json:"session_index"`
	InstructorID string   `json:"instructor_id"`
	RoomID       *string  `json:"room_id"`
	Building     *string  `json:"building"`
	Day          *string  `json:"day"`
	Start        *Clock   `json:"start"`
	End          *Clock   `json:"end"`
	SlotIDs      []string `json:"slot_ids,omitempty"`
}

// Placed reports whether the session found a room and interval.
func (a Assignment) Placed() bool {
	return a.Day != nil
}

// PreviewRow is an assignment with all fields rendered as strings, matching
// the downloadable schedule table row for row.
type PreviewRow struct {
	CourseID     string `json:"course_id"`
	SessionIndex int    `json:"session_index"`
	InstructorID string `json:"instructor_id"`
	RoomID       string `json:"room_id"`
	Building     string `json:"building"`
	Day          string `json:"day"`
	Start        string `json:"start"`
	End          string `json:"end"`
	SlotIDs      string `json:"slot_ids"`
}

// ScheduleCounts summarises run outcomes.
type ScheduleCounts struct {
	Sessions       int `json:"sessions"`
	Unplaced       int `json:"unplaced"`
	HardErrors     int `json:"hard_errors"`
	SoftViolations int `json:"soft_details"`
}

// ScheduleResult is the full outcome of one scheduling run.
type ScheduleResult struct {
	Assignments []Assignment   `json:"assignments"`
	SoftScore   float64        `json:"soft_score"`
	Preview     []PreviewRow   `json:"preview"`
	Counts      ScheduleCounts `json:"counts"`
}

// Occurrence is one dated instance of a placed weekly assignment, produced
// when the settings provide a term start date and length.
type Occurrence struct {
	CourseID     string `json:"course_id"`
	SessionIndex int    `json:"session_index"`
	InstructorID string `json:"instructor_id"`
	RoomID       string `json:"room_id"`
	Building     string `json:"building"`
	Day          string `json:"day"`
	Date         string `json:"date"`
	Start        Clock  `json:"start"`
	End          Clock  `json:"end"`
}
