package models

import "time"

// Course represents a subject offering that the optimizer places into slots.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	WeeklyHours int       `db:"weekly_hours" json:"weekly_hours"`
	Capacity    int       `db:"capacity" json:"capacity"`
	GradeLevel  int       `db:"grade_level" json:"grade_level"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter encapsulates allowed search parameters for listing courses.
type CourseFilter struct {
	Search     string
	TeacherID  string
	GradeLevel int
	Active     *bool
	Page       int
	PageSize   int
}
