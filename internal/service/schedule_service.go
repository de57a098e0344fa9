package service

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/irn-edu/timetable-api/internal/dto"
	"github.com/irn-edu/timetable-api/internal/engine"
	"github.com/irn-edu/timetable-api/internal/models"
	"github.com/irn-edu/timetable-api/internal/tabular"
	appErrors "github.com/irn-edu/timetable-api/pkg/errors"
	"github.com/irn-edu/timetable-api/pkg/export"
)

// Download formats accepted by the download endpoint.
const (
	FormatCSV         = "csv"
	FormatPDF         = "pdf"
	FormatOccurrences = "occurrences"
)

var scheduleHeaders = []string{
	"course_id", "session_index", "instructor_id",
	"room_id", "building", "day", "start", "end", "slot_ids",
}

var occurrenceHeaders = []string{
	"date", "day", "start", "end",
	"course_id", "session_index", "instructor_id", "room_id", "building",
}

// DownloadFile is a rendered result ready to be served as an attachment.
type DownloadFile struct {
	Content     []byte
	Filename    string
	ContentType string
}

// ScheduleService orchestrates a scheduling run: decode the uploaded tables,
// execute the engine, render the output table, and stash everything under a
// retrieval token.
type ScheduleService struct {
	store     ResultStore
	metrics   *MetricsService
	recorder  *RunRecorder
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
	resultTTL time.Duration
}

// ScheduleServiceConfig governs run result retention.
type ScheduleServiceConfig struct {
	ResultTTL time.Duration
}

// NewScheduleService wires the scheduling pipeline. The recorder may be nil
// when run history persistence is disabled.
func NewScheduleService(store ResultStore, metrics *MetricsService, recorder *RunRecorder, logger *zap.Logger, cfg ScheduleServiceConfig) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 12 * time.Hour
	}
	return &ScheduleService{
		store:     store,
		metrics:   metrics,
		recorder:  recorder,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
		resultTTL: cfg.ResultTTL,
	}
}

// Run executes one scheduling run over the uploaded tables and stores the
// result under a fresh token.
func (s *ScheduleService) Run(ctx context.Context, tables map[string]io.Reader) (*dto.ScheduleRunResponse, error) {
	set, err := tabular.Decode(tables)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidUpload.Code, appErrors.ErrInvalidUpload.Status, err.Error())
	}

	start := time.Now()
	result, err := engine.Run(ctx, set.EngineInput())
	elapsed := time.Since(start)
	s.metrics.ObserveRun(countPlaced(result), countUnplaced(result), elapsed, err)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidUpload.Code, appErrors.ErrInvalidUpload.Status, err.Error())
	}

	outputCSV, err := s.csv.Render(scheduleDataset(result.Assignments))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule output")
	}

	var occurrences []models.Occurrence
	if set.Settings.TermStart != nil && set.Settings.TermWeeks > 0 {
		occurrences, err = ExpandOccurrences(result.Assignments, *set.Settings.TermStart, set.Settings.TermWeeks)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to expand term occurrences")
		}
	}

	stored := StoredResult{
		Token:       uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Result:      *result,
		OutputCSV:   outputCSV,
		Occurrences: occurrences,
	}
	if err := s.store.Save(ctx, stored, s.resultTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store schedule result")
	}

	s.recorder.Record(&models.ScheduleRun{
		SoftScore:      result.SoftScore,
		Sessions:       result.Counts.Sessions,
		Unplaced:       result.Counts.Unplaced,
		SoftViolations: result.Counts.SoftViolations,
		DurationMs:     elapsed.Milliseconds(),
		CreatedAt:      stored.CreatedAt,
	})

	s.logger.Info("scheduling run completed",
		zap.String("token", stored.Token),
		zap.Int("sessions", result.Counts.Sessions),
		zap.Int("unplaced", result.Counts.Unplaced),
		zap.Duration("elapsed", elapsed),
	)

	return runResponse(&stored), nil
}

// Get returns the summary for a previously stored run.
func (s *ScheduleService) Get(ctx context.Context, token string) (*dto.ScheduleRunResponse, error) {
	stored, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	return runResponse(stored), nil
}

// Download renders a stored result in the requested format.
func (s *ScheduleService) Download(ctx context.Context, token, format string) (*DownloadFile, error) {
	stored, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCSV, "":
		return &DownloadFile{
			Content:     stored.OutputCSV,
			Filename:    "schedule_output.csv",
			ContentType: "text/csv",
		}, nil
	case FormatPDF:
		content, err := s.pdf.Render(scheduleDataset(stored.Result.Assignments), "Weekly Schedule")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule pdf")
		}
		return &DownloadFile{
			Content:     content,
			Filename:    "schedule_output.pdf",
			ContentType: "application/pdf",
		}, nil
	case FormatOccurrences:
		if len(stored.Occurrences) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "run has no dated occurrences; set TERM_START and TERM_WEEKS")
		}
		content, err := s.csv.Render(occurrenceDataset(stored.Occurrences))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render occurrences")
		}
		return &DownloadFile{
			Content:     content,
			Filename:    "schedule_occurrences.csv",
			ContentType: "text/csv",
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown download format "+strconv.Quote(format))
	}
}

func (s *ScheduleService) lookup(ctx context.Context, token string) (*StoredResult, error) {
	stored, err := s.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, appErrors.ErrResultMiss) {
			s.metrics.ObserveStoreLookup(false)
			return nil, appErrors.ErrResultMiss
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule result")
	}
	s.metrics.ObserveStoreLookup(true)
	return stored, nil
}

func runResponse(stored *StoredResult) *dto.ScheduleRunResponse {
	return &dto.ScheduleRunResponse{
		Token:     stored.Token,
		SoftScore: stored.Result.SoftScore,
		Counts:    stored.Result.Counts,
		Preview:   stored.Result.Preview,
		CreatedAt: stored.CreatedAt,
	}
}

func scheduleDataset(assignments []models.Assignment) export.Dataset {
	rows := make([]map[string]string, 0, len(assignments))
	for _, a := range assignments {
		row := map[string]string{
			"course_id":     a.CourseID,
			"session_index": strconv.Itoa(a.SessionIndex),
			"instructor_id": a.InstructorID,
			"slot_ids":      strings.Join(a.SlotIDs, ","),
		}
		if a.Placed() {
			row["room_id"] = *a.RoomID
			row["building"] = *a.Building
			row["day"] = *a.Day
			row["start"] = a.Start.String()
			row["end"] = a.End.String()
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: scheduleHeaders, Rows: rows}
}

func occurrenceDataset(occurrences []models.Occurrence) export.Dataset {
	rows := make([]map[string]string, 0, len(occurrences))
	for _, o := range occurrences {
		rows = append(rows, map[string]string{
			"date":          o.Date,
			"day":           o.Day,
			"start":         o.Start.String(),
			"end":           o.End.String(),
			"course_id":     o.CourseID,
			"session_index": strconv.Itoa(o.SessionIndex),
			"instructor_id": o.InstructorID,
			"room_id":       o.RoomID,
			"building":      o.Building,
		})
	}
	return export.Dataset{Headers: occurrenceHeaders, Rows: rows}
}

func countPlaced(result *models.ScheduleResult) int {
	if result == nil {
		return 0
	}
	return result.Counts.Sessions - result.Counts.Unplaced
}

func countUnplaced(result *models.ScheduleResult) int {
	if result == nil {
		return 0
	}
	return result.Counts.Unplaced
}
