package service

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/storage"
)

type fakeReportStore struct {
	mu   sync.Mutex
	jobs map[string]*models.ReportJob
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{jobs: make(map[string]*models.ReportJob)}
}

func (s *fakeReportStore) Create(_ context.Context, job *models.ReportJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

func (s *fakeReportStore) FindByID(_ context.Context, id string) (*models.ReportJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *job
	return &copied, nil
}

func (s *fakeReportStore) MarkProcessing(_ context.Context, id string) error {
	return s.setStatus(id, models.ReportStatusProcessing, "", "", "")
}

func (s *fakeReportStore) MarkCompleted(_ context.Context, id, filePath, downloadURL string) error {
	return s.setStatus(id, models.ReportStatusCompleted, filePath, downloadURL, "")
}

func (s *fakeReportStore) MarkFailed(_ context.Context, id, reason string) error {
	return s.setStatus(id, models.ReportStatusFailed, "", "", reason)
}

func (s *fakeReportStore) setStatus(id string, status models.ReportStatus, filePath, downloadURL, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	job.Status = status
	if filePath != "" {
		job.FilePath = &filePath
	}
	if downloadURL != "" {
		job.DownloadURL = &downloadURL
	}
	if reason != "" {
		job.Error = &reason
	}
	return nil
}

type fakeReportScheduleSource struct {
	schedule *models.Schedule
	sections []models.Section
	slots    []models.SlotAssignment
}

func (s *fakeReportScheduleSource) FindByID(_ context.Context, id string) (*models.Schedule, error) {
	if s.schedule == nil || s.schedule.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.schedule, nil
}

func (s *fakeReportScheduleSource) Sections(_ context.Context, _ string) ([]models.Section, error) {
	return s.sections, nil
}

func (s *fakeReportScheduleSource) SlotAssignments(_ context.Context, _ string) ([]models.SlotAssignment, error) {
	return s.slots, nil
}

func reportFixtures() *fakeReportScheduleSource {
	room := "room-1"
	return &fakeReportScheduleSource{
		schedule: &models.Schedule{ID: "sched-1", Name: "Fall draft", TermName: "Fall 2026", Status: models.ScheduleStatusOptimized},
		sections: []models.Section{
			{ID: "sec-1", ScheduleID: "sched-1", CourseID: "MATH101", TeacherID: "teach-1", Capacity: 30},
		},
		slots: []models.SlotAssignment{
			{ID: "slot-1", ScheduleID: "sched-1", SectionID: "sec-1", DayOfWeek: 1, Period: 2, RoomID: &room},
		},
	}
}

func newTestReportService(t *testing.T, store *fakeReportStore, schedules *fakeReportScheduleSource) *ReportService {
	t.Helper()
	fileStore, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewReportService(store, schedules, fileStore, signer, "/api/v1", 1, 1, zap.NewNop())
}

func TestReportRequestRejectsUnknownFormat(t *testing.T) {
	svc := newTestReportService(t, newFakeReportStore(), reportFixtures())

	_, err := svc.Request(context.Background(), "sched-1", models.ReportFormat("xlsx"))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestReportRequestUnknownSchedule(t *testing.T) {
	svc := newTestReportService(t, newFakeReportStore(), reportFixtures())
	svc.Start(context.Background())
	defer svc.Stop()

	_, err := svc.Request(context.Background(), "missing", models.ReportFormatCSV)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrScheduleNotFound))
}

func TestReportProcessRendersCSVAndSignsURL(t *testing.T) {
	store := newFakeReportStore()
	svc := newTestReportService(t, store, reportFixtures())
	svc.Start(context.Background())
	defer svc.Stop()

	job, err := svc.Request(context.Background(), "sched-1", models.ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusPending, job.Status)

	require.Eventually(t, func() bool {
		current, err := store.FindByID(context.Background(), job.ID)
		return err == nil && current.Status == models.ReportStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	current, err := store.FindByID(context.Background(), job.ID)
	require.NoError(t, err)
	require.NotNil(t, current.FilePath)
	require.NotNil(t, current.DownloadURL)
	assert.True(t, strings.HasPrefix(*current.DownloadURL, "/api/v1/reports/download?token="))

	content, err := os.ReadFile(*current.FilePath)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "Day,Period,Course,Teacher,Room,Capacity")
	assert.Contains(t, text, "Monday,2,MATH101,teach-1,room-1,30")
}

func TestReportProcessFailsPermanentlyWhenScheduleGone(t *testing.T) {
	store := newFakeReportStore()
	schedules := reportFixtures()
	svc := newTestReportService(t, store, schedules)
	svc.Start(context.Background())
	defer svc.Stop()

	job, err := svc.Request(context.Background(), "sched-1", models.ReportFormatPDF)
	require.NoError(t, err)

	// Schedule deleted between request and processing.
	schedules.schedule = nil

	require.Eventually(t, func() bool {
		current, err := store.FindByID(context.Background(), job.ID)
		return err == nil && current.Status == models.ReportStatusFailed
	}, 2*time.Second, 10*time.Millisecond)

	current, err := store.FindByID(context.Background(), job.ID)
	require.NoError(t, err)
	require.NotNil(t, current.Error)
	assert.Contains(t, *current.Error, "schedule no longer exists")
}

func TestReportDownloadChecksTokenAndState(t *testing.T) {
	store := newFakeReportStore()
	svc := newTestReportService(t, store, reportFixtures())
	svc.Start(context.Background())
	defer svc.Stop()

	job, err := svc.Request(context.Background(), "sched-1", models.ReportFormatCSV)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		current, err := store.FindByID(context.Background(), job.ID)
		return err == nil && current.Status == models.ReportStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	current, err := store.FindByID(context.Background(), job.ID)
	require.NoError(t, err)
	token := strings.TrimPrefix(*current.DownloadURL, "/api/v1/reports/download?token=")

	path, err := svc.Download(context.Background(), token)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = svc.Download(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}
