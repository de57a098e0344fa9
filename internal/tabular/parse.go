package tabular

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/irn-edu/timetable-api/internal/models"
)

const termStartLayout = "2006-01-02"

var defaultSettings = map[string]string{
	"DAYS":      "Sat,Sun,Mon,Tue,Wed,Thu",
	"START_DAY": "08:00",
	"END_DAY":   "19:00",
	"BLOCK_MIN": "90",
}

// Decode reads one CSV stream per table name and produces the typed table
// set. Missing required tables, unknown settings keys, and malformed fields
// all reject the whole upload; no partial decode is returned.
func Decode(tables map[string]io.Reader) (*TableSet, error) {
	for _, name := range RequiredTables {
		if _, ok := tables[name]; !ok {
			return nil, fmt.Errorf("missing required table %q", name)
		}
	}
	for name := range tables {
		if !knownTable(name) {
			return nil, fmt.Errorf("unknown table %q", name)
		}
	}

	set := &TableSet{}
	var err error
	if set.Settings, err = decodeSettings(tables[TableSettings]); err != nil {
		return nil, err
	}
	if set.Courses, err = decodeCourses(tables[TableCourses]); err != nil {
		return nil, err
	}
	if set.Instructors, err = decodeInstructors(tables[TableInstructors]); err != nil {
		return nil, err
	}
	if set.Availability, err = decodeAvailability(tables[TableAvailability]); err != nil {
		return nil, err
	}
	if set.Rooms, err = decodeRooms(tables[TableRooms]); err != nil {
		return nil, err
	}
	if set.Enrollments, err = decodeEnrollments(tables[TableEnrollments]); err != nil {
		return nil, err
	}
	if r, ok := tables[TableStudents]; ok {
		if set.Students, err = decodeStudents(r); err != nil {
			return nil, err
		}
	}
	if r, ok := tables[TableTravel]; ok {
		if set.Travel, err = decodeTravel(r); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func knownTable(name string) bool {
	for _, n := range RequiredTables {
		if n == name {
			return true
		}
	}
	for _, n := range OptionalTables {
		if n == name {
			return true
		}
	}
	return false
}

// row is one CSV record indexed by header name.
type row map[string]string

func readRows(table string, r io.Reader) ([]row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", table, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("table %q: missing header row", table)
	}
	headers := records[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}
	rows := make([]row, 0, len(records)-1)
	for _, rec := range records[1:] {
		m := make(row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				m[h] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, m)
	}
	return rows, nil
}

func (r row) require(table, column string, line int) (string, error) {
	v, ok := r[column]
	if !ok || v == "" {
		return "", fmt.Errorf("table %q row %d: missing %q", table, line, column)
	}
	return v, nil
}

// parseList accepts either a JSON array literal or a comma-separated string.
func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		var parsed []string
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			for i, v := range parsed {
				parsed[i] = strings.TrimSpace(v)
			}
			return parsed
		}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseInt tolerates spreadsheet-style floats such as "90.0".
func parseInt(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return int(f), nil
}

func decodeSettings(r io.Reader) (Settings, error) {
	rows, err := readRows(TableSettings, r)
	if err != nil {
		return Settings{}, err
	}

	values := make(map[string]string, len(defaultSettings))
	for k, v := range defaultSettings {
		values[k] = v
	}
	var termStartRaw, termWeeksRaw string
	for i, rw := range rows {
		key, err := rw.require(TableSettings, "key", i+2)
		if err != nil {
			return Settings{}, err
		}
		value := rw["value"]
		switch key {
		case "DAYS", "START_DAY", "END_DAY", "BLOCK_MIN":
			if value == "" {
				return Settings{}, fmt.Errorf("setting %q has an empty value", key)
			}
			values[key] = value
		case "TERM_START":
			termStartRaw = value
		case "TERM_WEEKS":
			termWeeksRaw = value
		default:
			return Settings{}, fmt.Errorf("unknown setting %q", key)
		}
	}

	s := Settings{Days: parseList(values["DAYS"])}
	if s.DayStart, err = models.ParseClock(values["START_DAY"]); err != nil {
		return Settings{}, fmt.Errorf("setting START_DAY: %w", err)
	}
	if s.DayEnd, err = models.ParseClock(values["END_DAY"]); err != nil {
		return Settings{}, fmt.Errorf("setting END_DAY: %w", err)
	}
	if s.BlockMinutes, err = parseInt(values["BLOCK_MIN"]); err != nil {
		return Settings{}, fmt.Errorf("setting BLOCK_MIN: %w", err)
	}
	if termStartRaw != "" {
		ts, err := time.Parse(termStartLayout, termStartRaw)
		if err != nil {
			return Settings{}, fmt.Errorf("setting TERM_START: expected YYYY-MM-DD, got %q", termStartRaw)
		}
		s.TermStart = &ts
	}
	if termWeeksRaw != "" {
		if s.TermWeeks, err = parseInt(termWeeksRaw); err != nil {
			return Settings{}, fmt.Errorf("setting TERM_WEEKS: %w", err)
		}
		if s.TermWeeks <= 0 {
			return Settings{}, fmt.Errorf("setting TERM_WEEKS must be positive, got %d", s.TermWeeks)
		}
	}
	return s, nil
}

func decodeCourses(r io.Reader) ([]models.Course, error) {
	rows, err := readRows(TableCourses, r)
	if err != nil {
		return nil, err
	}
	courses := make([]models.Course, 0, len(rows))
	for i, rw := range rows {
		line := i + 2
		id, err := rw.require(TableCourses, "course_id", line)
		if err != nil {
			return nil, err
		}
		instructorID, err := rw.require(TableCourses, "instructor_id", line)
		if err != nil {
			return nil, err
		}
		sessionsRaw, err := rw.require(TableCourses, "sessions_per_week", line)
		if err != nil {
			return nil, err
		}
		sessions, err := parseInt(sessionsRaw)
		if err != nil {
			return nil, fmt.Errorf("course %q: sessions_per_week: %w", id, err)
		}
		durationRaw, err := rw.require(TableCourses, "session_duration_min", line)
		if err != nil {
			return nil, err
		}
		duration, err := parseInt(durationRaw)
		if err != nil {
			return nil, fmt.Errorf("course %q: session_duration_min: %w", id, err)
		}
		courses = append(courses, models.Course{
			ID:              id,
			InstructorID:    instructorID,
			SessionsPerWeek: sessions,
			DurationMinutes: duration,
			Equipment:       parseList(rw["equipment_required"]),
		})
	}
	return courses, nil
}

func decodeInstructors(r io.Reader) ([]models.Instructor, error) {
	rows, err := readRows(TableInstructors, r)
	if err != nil {
		return nil, err
	}
	instructors := make([]models.Instructor, 0, len(rows))
	for i, rw := range rows {
		id, err := rw.require(TableInstructors, "instructor_id", i+2)
		if err != nil {
			return nil, err
		}
		instr := models.Instructor{ID: id, PreferredDays: parseList(rw["preferred_days"])}
		if raw := rw["preferred_start"]; raw != "" {
			c, err := models.ParseClock(raw)
			if err != nil {
				return nil, fmt.Errorf("instructor %q: preferred_start: %w", id, err)
			}
			instr.PreferredStart = &c
		}
		if raw := rw["preferred_end"]; raw != "" {
			c, err := models.ParseClock(raw)
			if err != nil {
				return nil, fmt.Errorf("instructor %q: preferred_end: %w", id, err)
			}
			instr.PreferredEnd = &c
		}
		instructors = append(instructors, instr)
	}
	return instructors, nil
}

func decodeAvailability(r io.Reader) ([]models.AvailabilityWindow, error) {
	rows, err := readRows(TableAvailability, r)
	if err != nil {
		return nil, err
	}
	windows := make([]models.AvailabilityWindow, 0, len(rows))
	for i, rw := range rows {
		line := i + 2
		instructorID, err := rw.require(TableAvailability, "instructor_id", line)
		if err != nil {
			return nil, err
		}
		day, err := rw.require(TableAvailability, "day", line)
		if err != nil {
			return nil, err
		}
		startRaw, err := rw.require(TableAvailability, "available_start", line)
		if err != nil {
			return nil, err
		}
		start, err := models.ParseClock(startRaw)
		if err != nil {
			return nil, fmt.Errorf("availability row %d: available_start: %w", line, err)
		}
		endRaw, err := rw.require(TableAvailability, "available_end", line)
		if err != nil {
			return nil, err
		}
		end, err := models.ParseClock(endRaw)
		if err != nil {
			return nil, fmt.Errorf("availability row %d: available_end: %w", line, err)
		}
		windows = append(windows, models.AvailabilityWindow{
			InstructorID: instructorID,
			Day:          day,
			Start:        start,
			End:          end,
		})
	}
	return windows, nil
}

func decodeRooms(r io.Reader) ([]models.Room, error) {
	rows, err := readRows(TableRooms, r)
	if err != nil {
		return nil, err
	}
	rooms := make([]models.Room, 0, len(rows))
	for i, rw := range rows {
		line := i + 2
		id, err := rw.require(TableRooms, "room_id", line)
		if err != nil {
			return nil, err
		}
		capacityRaw, err := rw.require(TableRooms, "capacity", line)
		if err != nil {
			return nil, err
		}
		capacity, err := parseInt(capacityRaw)
		if err != nil {
			return nil, fmt.Errorf("room %q: capacity: %w", id, err)
		}
		rooms = append(rooms, models.Room{
			ID:        id,
			Building:  rw["building"],
			Capacity:  capacity,
			Equipment: parseList(rw["equipment"]),
		})
	}
	return rooms, nil
}

func decodeEnrollments(r io.Reader) ([]models.Enrollment, error) {
	rows, err := readRows(TableEnrollments, r)
	if err != nil {
		return nil, err
	}
	enrollments := make([]models.Enrollment, 0, len(rows))
	for i, rw := range rows {
		line := i + 2
		courseID, err := rw.require(TableEnrollments, "course_id", line)
		if err != nil {
			return nil, err
		}
		studentID, err := rw.require(TableEnrollments, "student_id", line)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, models.Enrollment{CourseID: courseID, StudentID: studentID})
	}
	return enrollments, nil
}

func decodeStudents(r io.Reader) ([]models.Student, error) {
	rows, err := readRows(TableStudents, r)
	if err != nil {
		return nil, err
	}
	students := make([]models.Student, 0, len(rows))
	for i, rw := range rows {
		id, err := rw.require(TableStudents, "student_id", i+2)
		if err != nil {
			return nil, err
		}
		students = append(students, models.Student{ID: id})
	}
	return students, nil
}

func decodeTravel(r io.Reader) ([]models.TravelTime, error) {
	rows, err := readRows(TableTravel, r)
	if err != nil {
		return nil, err
	}
	travel := make([]models.TravelTime, 0, len(rows))
	for i, rw := range rows {
		line := i + 2
		from, err := rw.require(TableTravel, "from", line)
		if err != nil {
			return nil, err
		}
		to, err := rw.require(TableTravel, "to", line)
		if err != nil {
			return nil, err
		}
		minutesRaw, err := rw.require(TableTravel, "minutes", line)
		if err != nil {
			return nil, err
		}
		minutes, err := parseInt(minutesRaw)
		if err != nil {
			return nil, fmt.Errorf("building_travel row %d: minutes: %w", line, err)
		}
		travel = append(travel, models.TravelTime{From: from, To: to, Minutes: minutes})
	}
	return travel, nil
}
