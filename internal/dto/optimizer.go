package dto

import "time"

// Wire representations exchanged with the external optimizer. The engine is
// opaque beyond this contract; exportId/importId/jobId are treated as
// correlation tokens only.

// ExportStudent is a student in the optimizer's input shape.
type ExportStudent struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName"`
	GradeLevel int    `json:"gradeLevel"`
}

// ExportTeacher is a teacher in the optimizer's input shape.
type ExportTeacher struct {
	ID             string `json:"id"`
	FullName       string `json:"fullName"`
	MaxWeeklyHours int    `json:"maxWeeklyHours"`
}

// ExportCourse is a course in the optimizer's input shape.
type ExportCourse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	TeacherID   string `json:"teacherId"`
	WeeklyHours int    `json:"weeklyHours"`
	Capacity    int    `json:"capacity"`
	GradeLevel  int    `json:"gradeLevel"`
}

// ExportRoom is a room in the optimizer's input shape.
type ExportRoom struct {
	ID       string `json:"id"`
	Capacity int    `json:"capacity"`
	RoomType string `json:"roomType"`
}

// ExportSlot is an existing slot assignment pushed as the starting point.
type ExportSlot struct {
	CourseID  string  `json:"courseId"`
	DayOfWeek int     `json:"dayOfWeek"`
	Period    int     `json:"period"`
	RoomID    *string `json:"roomId,omitempty"`
}

// ExportPayload is the full problem snapshot pushed to the optimizer.
type ExportPayload struct {
	ScheduleID   string          `json:"scheduleId"`
	Students     []ExportStudent `json:"students"`
	Teachers     []ExportTeacher `json:"teachers"`
	Courses      []ExportCourse  `json:"courses"`
	Rooms        []ExportRoom    `json:"rooms"`
	CurrentSlots []ExportSlot    `json:"currentSlots"`
}

// ExportResult reports the outcome of one export push. Produced exactly once
// per workflow invocation.
type ExportResult struct {
	Success          bool   `json:"success"`
	ScheduleID       string `json:"scheduleId"`
	ExportID         string `json:"exportId"`
	ImportID         string `json:"importId"`
	StudentsExported int    `json:"studentsExported"`
	CoursesExported  int    `json:"coursesExported"`
	TeachersExported int    `json:"teachersExported"`
	Message          string `json:"message,omitempty"`
}

// GenerationJobRequest is the wire body of a generation request.
type GenerationJobRequest struct {
	ScheduleID              string           `json:"scheduleId"`
	OptimizationTimeSeconds int              `json:"optimizationTimeSeconds"`
	OptimizationMode        OptimizationMode `json:"optimizationMode"`
}

// JobState enumerates remote job statuses plus the locally synthesised
// TIMEOUT, which only means we gave up waiting; the remote job may live on.
type JobState string

const (
	JobStateProcessing JobState = "PROCESSING"
	JobStateCompleted  JobState = "COMPLETED"
	JobStateFailed     JobState = "FAILED"
	JobStateError      JobState = "ERROR"
	JobStateTimeout    JobState = "TIMEOUT"
)

// Terminal reports whether the state ends a job's lifecycle.
func (s JobState) Terminal() bool {
	switch s {
	case JobStateCompleted, JobStateFailed, JobStateError, JobStateTimeout:
		return true
	}
	return false
}

// JobStatus is a point-in-time view of an optimization job. Hard/soft scores
// are only present once the job completed.
type JobStatus struct {
	JobID          string   `json:"jobId"`
	Status         JobState `json:"status"`
	Progress       int      `json:"progress"`
	Message        string   `json:"message,omitempty"`
	ElapsedSeconds int      `json:"elapsedSeconds"`
	HardScore      *int     `json:"hardScore,omitempty"`
	SoftScore      *int     `json:"softScore,omitempty"`
}

// ResultSection is a solved section in the optimizer result payload.
type ResultSection struct {
	SectionID string `json:"sectionId"`
	CourseID  string `json:"courseId"`
	TeacherID string `json:"teacherId"`
	Capacity  int    `json:"capacity"`
}

// ResultSlot is a solved slot assignment in the optimizer result payload.
type ResultSlot struct {
	SectionID string  `json:"sectionId"`
	DayOfWeek int     `json:"dayOfWeek"`
	Period    int     `json:"period"`
	RoomID    *string `json:"roomId,omitempty"`
}

// ResultPlacement places a student into a solved section.
type ResultPlacement struct {
	SectionID string `json:"sectionId"`
	StudentID string `json:"studentId"`
}

// OptimizerResult is the solved timetable fetched for a completed job.
type OptimizerResult struct {
	JobID         string            `json:"jobId"`
	ScheduleID    string            `json:"scheduleId"`
	Sections      []ResultSection   `json:"sections"`
	Slots         []ResultSlot      `json:"slots"`
	Placements    []ResultPlacement `json:"placements"`
	HardScore     int               `json:"hardScore"`
	SoftScore     int               `json:"softScore"`
	ConflictCount int               `json:"conflictCount"`
}

// ImportResult is the sole authority for "the optimized schedule is now
// live". Produced exactly once per workflow invocation.
type ImportResult struct {
	Success           bool      `json:"success"`
	ScheduleID        string    `json:"scheduleId"`
	JobID             string    `json:"jobId"`
	SectionsCreated   int       `json:"sectionsCreated"`
	SlotsAssigned     int       `json:"slotsAssigned"`
	StudentsScheduled int       `json:"studentsScheduled"`
	HardScore         int       `json:"hardScore"`
	SoftScore         int       `json:"softScore"`
	ImportTimestamp   time.Time `json:"importTimestamp"`
}
