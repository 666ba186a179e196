package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/dto"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
)

type stubEntitySource struct {
	students []models.Student
	teachers []models.Teacher
	courses  []models.Course
	rooms    []models.Room
	sections []models.Section
	slots    []models.SlotAssignment
}

func (s *stubEntitySource) ListActive(ctx context.Context) ([]models.Student, error) {
	return s.students, nil
}

type stubTeacherSource struct{ teachers []models.Teacher }

func (s *stubTeacherSource) ListActive(ctx context.Context) ([]models.Teacher, error) {
	return s.teachers, nil
}

type stubCourseSource struct{ courses []models.Course }

func (s *stubCourseSource) ListActive(ctx context.Context) ([]models.Course, error) {
	return s.courses, nil
}

type stubRoomSource struct{ rooms []models.Room }

func (s *stubRoomSource) ListAll(ctx context.Context) ([]models.Room, error) {
	return s.rooms, nil
}

type stubScheduleSource struct {
	sections []models.Section
	slots    []models.SlotAssignment
}

func (s *stubScheduleSource) Sections(ctx context.Context, scheduleID string) ([]models.Section, error) {
	return s.sections, nil
}

func (s *stubScheduleSource) SlotAssignments(ctx context.Context, scheduleID string) ([]models.SlotAssignment, error) {
	return s.slots, nil
}

type capturePusher struct {
	payload *dto.ExportPayload
	result  *dto.ExportResult
	err     error
}

func (p *capturePusher) Export(ctx context.Context, payload dto.ExportPayload) (*dto.ExportResult, error) {
	p.payload = &payload
	if p.err != nil {
		return nil, p.err
	}
	if p.result != nil {
		return p.result, nil
	}
	return &dto.ExportResult{
		Success:          true,
		ScheduleID:       payload.ScheduleID,
		ExportID:         "exp-9",
		StudentsExported: len(payload.Students),
		CoursesExported:  len(payload.Courses),
		TeachersExported: len(payload.Teachers),
	}, nil
}

func fullDataset() *stubEntitySource {
	room := "room-1"
	return &stubEntitySource{
		students: []models.Student{{ID: "st-1", FullName: "Ada", GradeLevel: 10}},
		teachers: []models.Teacher{{ID: "t-1", FullName: "Grace", MaxWeeklyHours: 24}},
		courses:  []models.Course{{ID: "c-1", Code: "MATH10", TeacherID: "t-1", WeeklyHours: 4, Capacity: 30, GradeLevel: 10}},
		rooms:    []models.Room{{ID: "room-1", Capacity: 32, RoomType: "CLASSROOM"}},
		sections: []models.Section{{ID: "sec-1", CourseID: "c-1"}},
		slots:    []models.SlotAssignment{{SectionID: "sec-1", DayOfWeek: 2, Period: 3, RoomID: &room}},
	}
}

func newExportService(data *stubEntitySource, pusher *capturePusher) *ExportService {
	return NewExportService(
		data,
		&stubTeacherSource{teachers: data.teachers},
		&stubCourseSource{courses: data.courses},
		&stubRoomSource{rooms: data.rooms},
		&stubScheduleSource{sections: data.sections, slots: data.slots},
		pusher,
		zap.NewNop(),
	)
}

func TestExportBuildsFullSnapshot(t *testing.T) {
	pusher := &capturePusher{}
	svc := newExportService(fullDataset(), pusher)

	result, err := svc.Export(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.StudentsExported)

	require.NotNil(t, pusher.payload)
	assert.Equal(t, "sched-1", pusher.payload.ScheduleID)
	require.Len(t, pusher.payload.Courses, 1)
	assert.Equal(t, "MATH10", pusher.payload.Courses[0].Code)
	require.Len(t, pusher.payload.CurrentSlots, 1)
	assert.Equal(t, "c-1", pusher.payload.CurrentSlots[0].CourseID)
	assert.Equal(t, 2, pusher.payload.CurrentSlots[0].DayOfWeek)
}

func TestExportFailsFastOnEmptyDataset(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*stubEntitySource)
	}{
		{"no students", func(d *stubEntitySource) { d.students = nil }},
		{"no courses", func(d *stubEntitySource) { d.courses = nil }},
		{"no teachers", func(d *stubEntitySource) { d.teachers = nil }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := fullDataset()
			tc.mutate(data)
			pusher := &capturePusher{}
			svc := newExportService(data, pusher)

			_, err := svc.Export(context.Background(), "sched-1")
			require.Error(t, err)
			assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
			assert.Nil(t, pusher.payload, "no network call should happen for an empty dataset")
		})
	}
}

func TestExportRejectedByOptimizer(t *testing.T) {
	pusher := &capturePusher{result: &dto.ExportResult{Success: false, Message: "dataset references unknown teacher"}}
	svc := newExportService(fullDataset(), pusher)

	_, err := svc.Export(context.Background(), "sched-1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrOptimizerRejected))
	assert.Contains(t, err.Error(), "unknown teacher")
}

func TestExportPropagatesOptimizerErrors(t *testing.T) {
	pusher := &capturePusher{err: appErrors.Clone(appErrors.ErrOptimizerUnavailable, "optimizer service is unreachable")}
	svc := newExportService(fullDataset(), pusher)

	_, err := svc.Export(context.Background(), "sched-1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrOptimizerUnavailable))
}
