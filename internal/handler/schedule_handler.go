package handler

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/irn-edu/timetable-api/internal/dto"
	"github.com/irn-edu/timetable-api/internal/service"
	appErrors "github.com/irn-edu/timetable-api/pkg/errors"
	"github.com/irn-edu/timetable-api/pkg/response"
)

type scheduleRunner interface {
	Run(ctx context.Context, tables map[string]io.Reader) (*dto.ScheduleRunResponse, error)
	Get(ctx context.Context, token string) (*dto.ScheduleRunResponse, error)
	Download(ctx context.Context, token, format string) (*service.DownloadFile, error)
}

// ScheduleHandler exposes the scheduling endpoints.
type ScheduleHandler struct {
	service        scheduleRunner
	maxUploadBytes int64
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc *service.ScheduleService, maxUploadBytes int64) *ScheduleHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 25 << 20
	}
	return &ScheduleHandler{service: svc, maxUploadBytes: maxUploadBytes}
}

// Run godoc
// @Summary Run a scheduling pass over uploaded CSV tables
// @Description Accepts one CSV file per table (courses, instructors, availability, rooms, enrollments, settings; optional students, building_travel), runs the allocation engine and returns a retrieval token with a result summary.
// @Tags Schedule
// @Accept multipart/form-data
// @Produce json
// @Param courses formData file true "Courses table"
// @Param instructors formData file true "Instructors table"
// @Param availability formData file true "Availability table"
// @Param rooms formData file true "Rooms table"
// @Param enrollments formData file true "Enrollments table"
// @Param settings formData file true "Settings table"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /schedule [post]
func (h *ScheduleHandler) Run(c *gin.Context) {
	if c.Request.ContentLength > h.maxUploadBytes {
		response.Error(c, appErrors.ErrPayloadTooLarge)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidUpload.Code, appErrors.ErrInvalidUpload.Status, "expected multipart upload with one CSV file per table"))
		return
	}

	tables := make(map[string]io.Reader, len(form.File))
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for name, files := range form.File {
		if len(files) == 0 {
			continue
		}
		f, err := files[0].Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidUpload.Code, appErrors.ErrInvalidUpload.Status, "failed to read uploaded table "+name))
			return
		}
		opened = append(opened, f)
		tables[name] = f
	}

	result, err := h.service.Run(c.Request.Context(), tables)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Get godoc
// @Summary Fetch a stored scheduling result summary by token
// @Tags Schedule
// @Produce json
// @Param token path string true "Result token"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedule/{token} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Download godoc
// @Summary Download a stored schedule
// @Description Streams the stored result as an attachment. Format csv (default) returns the schedule table, pdf a printable rendering, occurrences the dated per-week expansion when the run was term-anchored.
// @Tags Schedule
// @Produce octet-stream
// @Param token path string true "Result token"
// @Param format query string false "csv | pdf | occurrences"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /schedule/{token}/download [get]
func (h *ScheduleHandler) Download(c *gin.Context) {
	file, err := h.service.Download(c.Request.Context(), c.Param("token"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Content, file.Filename, file.ContentType)
}
