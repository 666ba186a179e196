package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/export"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/jobs"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/storage"
)

type reportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	FindByID(ctx context.Context, id string) (*models.ReportJob, error)
	MarkProcessing(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id, filePath, downloadURL string) error
	MarkFailed(ctx context.Context, id, reason string) error
}

type reportScheduleSource interface {
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	Sections(ctx context.Context, scheduleID string) ([]models.Section, error)
	SlotAssignments(ctx context.Context, scheduleID string) ([]models.SlotAssignment, error)
}

// ReportService renders timetable exports asynchronously through the job
// queue and hands out signed download links.
type ReportService struct {
	store        reportJobStore
	schedules    reportScheduleSource
	storage      *storage.LocalStorage
	signer       *storage.SignedURLSigner
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	queue        *jobs.Queue
	downloadPath string
	logger       *zap.Logger
}

// NewReportService constructs the report service. Call Start before
// enqueueing reports. apiPrefix anchors the download URLs written onto
// completed jobs.
func NewReportService(store reportJobStore, schedules reportScheduleSource, fileStore *storage.LocalStorage,
	signer *storage.SignedURLSigner, apiPrefix string, workers, retries int, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReportService{
		store:        store,
		schedules:    schedules,
		storage:      fileStore,
		signer:       signer,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		downloadPath: apiPrefix + "/reports/download",
		logger:       logger,
	}
	s.queue = jobs.NewQueue("timetable-reports", s.process, jobs.QueueConfig{
		Workers:    workers,
		MaxRetries: retries,
		RetryDelay: 5 * time.Second,
		Logger:     logger,
	})
	return s
}

// Start launches the report workers.
func (s *ReportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the report workers.
func (s *ReportService) Stop() {
	s.queue.Stop()
}

// Request queues a timetable export for the schedule and returns the
// pending job record.
func (s *ReportService) Request(ctx context.Context, scheduleID string, format models.ReportFormat) (*models.ReportJob, error) {
	if format != models.ReportFormatCSV && format != models.ReportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if _, err := s.schedules.FindByID(ctx, scheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrScheduleNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	job := &models.ReportJob{
		ID:         uuid.NewString(),
		ScheduleID: scheduleID,
		Format:     format,
		Status:     models.ReportStatusPending,
	}
	if err := s.store.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "timetable-report", Payload: job.ID}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue report job")
	}
	return job, nil
}

// Get returns the state of a report job.
func (s *ReportService) Get(ctx context.Context, id string) (*models.ReportJob, error) {
	job, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	return job, nil
}

// process executes one queued report job.
func (s *ReportService) process(ctx context.Context, queued jobs.Job) error {
	jobID, _ := queued.Payload.(string)
	if jobID == "" {
		jobID = queued.ID
	}
	job, err := s.store.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load report job %s: %w", jobID, err)
	}
	if err := s.store.MarkProcessing(ctx, job.ID); err != nil {
		return fmt.Errorf("mark report job processing: %w", err)
	}

	schedule, err := s.schedules.FindByID(ctx, job.ScheduleID)
	if err != nil {
		_ = s.store.MarkFailed(ctx, job.ID, "schedule no longer exists")
		return nil
	}

	dataset, err := s.buildDataset(ctx, schedule)
	if err != nil {
		if markErr := s.store.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			s.logger.Error("failed to mark report job failed", zap.String("job_id", job.ID), zap.Error(markErr))
		}
		return nil
	}

	var rendered []byte
	var filename string
	switch job.Format {
	case models.ReportFormatCSV:
		rendered, err = s.csv.Render(*dataset)
		filename = fmt.Sprintf("timetable-%s-%s.csv", schedule.ID, job.ID)
	case models.ReportFormatPDF:
		rendered, err = s.pdf.Render(*dataset, fmt.Sprintf("Timetable %s (%s)", schedule.Name, schedule.TermName))
		filename = fmt.Sprintf("timetable-%s-%s.pdf", schedule.ID, job.ID)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		if markErr := s.store.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			s.logger.Error("failed to mark report job failed", zap.String("job_id", job.ID), zap.Error(markErr))
		}
		return nil
	}

	path, err := s.storage.Save(filename, rendered)
	if err != nil {
		return fmt.Errorf("store report file: %w", err)
	}
	token, _, err := s.signer.Generate(job.ID, filename)
	if err != nil {
		return fmt.Errorf("sign report url: %w", err)
	}
	downloadURL := fmt.Sprintf("%s?token=%s", s.downloadPath, url.QueryEscape(token))
	if err := s.store.MarkCompleted(ctx, job.ID, path, downloadURL); err != nil {
		return fmt.Errorf("mark report job completed: %w", err)
	}

	s.logger.Info("timetable report rendered",
		zap.String("job_id", job.ID),
		zap.String("schedule_id", schedule.ID),
		zap.String("format", string(job.Format)))
	return nil
}

var dayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (s *ReportService) buildDataset(ctx context.Context, schedule *models.Schedule) (*export.Dataset, error) {
	sections, err := s.schedules.Sections(ctx, schedule.ID)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	slots, err := s.schedules.SlotAssignments(ctx, schedule.ID)
	if err != nil {
		return nil, fmt.Errorf("load slot assignments: %w", err)
	}

	sectionByID := make(map[string]models.Section, len(sections))
	for _, sec := range sections {
		sectionByID[sec.ID] = sec
	}

	dataset := &export.Dataset{
		Headers: []string{"Day", "Period", "Course", "Teacher", "Room", "Capacity"},
	}
	for _, slot := range slots {
		sec := sectionByID[slot.SectionID]
		day := strconv.Itoa(slot.DayOfWeek)
		if slot.DayOfWeek >= 1 && slot.DayOfWeek < len(dayNames) {
			day = dayNames[slot.DayOfWeek]
		}
		room := ""
		if slot.RoomID != nil {
			room = *slot.RoomID
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":      day,
			"Period":   strconv.Itoa(slot.Period),
			"Course":   sec.CourseID,
			"Teacher":  sec.TeacherID,
			"Room":     room,
			"Capacity": strconv.Itoa(sec.Capacity),
		})
	}
	return dataset, nil
}

// Download resolves a signed token into the underlying report file name.
func (s *ReportService) Download(ctx context.Context, token string) (string, error) {
	reportID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	job, err := s.store.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	if job.Status != models.ReportStatusCompleted {
		return "", appErrors.Clone(appErrors.ErrValidation, "report is not ready yet")
	}
	return s.storage.Path(relPath), nil
}
