package models

import "time"

// ScheduleStatus represents lifecycle phases for timetables.
type ScheduleStatus string

const (
	ScheduleStatusDraft     ScheduleStatus = "DRAFT"
	ScheduleStatusOptimized ScheduleStatus = "OPTIMIZED"
	ScheduleStatusArchived  ScheduleStatus = "ARCHIVED"
)

// Schedule is the authoritative timetable record. Hard/soft scores are set
// by the optimizer import; lower is better, a hard score of zero means
// feasible.
type Schedule struct {
	ID               string         `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	TermName         string         `db:"term_name" json:"term_name"`
	Status           ScheduleStatus `db:"status" json:"status"`
	HardScore        int            `db:"hard_score" json:"hard_score"`
	SoftScore        int            `db:"soft_score" json:"soft_score"`
	ConflictCount    int            `db:"conflict_count" json:"conflict_count"`
	GenerationMethod string         `db:"generation_method" json:"generation_method"`
	ImportedAt       *time.Time     `db:"imported_at" json:"imported_at,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// Section is one teachable unit of a course inside a schedule.
type Section struct {
	ID         string    `db:"id" json:"id"`
	ScheduleID string    `db:"schedule_id" json:"schedule_id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	TeacherID  string    `db:"teacher_id" json:"teacher_id"`
	Capacity   int       `db:"capacity" json:"capacity"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// SlotAssignment pins a section to a day/period/room.
type SlotAssignment struct {
	ID         string    `db:"id" json:"id"`
	ScheduleID string    `db:"schedule_id" json:"schedule_id"`
	SectionID  string    `db:"section_id" json:"section_id"`
	DayOfWeek  int       `db:"day_of_week" json:"day_of_week"`
	Period     int       `db:"period" json:"period"`
	RoomID     *string   `db:"room_id" json:"room_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// EnrollmentPlacement places a student into a section.
type EnrollmentPlacement struct {
	ID         string    `db:"id" json:"id"`
	ScheduleID string    `db:"schedule_id" json:"schedule_id"`
	SectionID  string    `db:"section_id" json:"section_id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ScheduleImport is the full set of mutations one optimizer result applies
// to a schedule. It is committed as a single transaction or not at all.
type ScheduleImport struct {
	ScheduleID       string
	Sections         []Section
	Slots            []SlotAssignment
	Placements       []EnrollmentPlacement
	HardScore        int
	SoftScore        int
	ConflictCount    int
	GenerationMethod string
	ImportedAt       time.Time
}

// ScheduleCounts aggregates section/slot/placement totals for a schedule.
type ScheduleCounts struct {
	Sections   int `db:"sections" json:"sections"`
	Slots      int `db:"slots" json:"slots"`
	Placements int `db:"placements" json:"placements"`
}
