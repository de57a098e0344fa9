package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/irn-edu/timetable-api/internal/dto"
	"github.com/irn-edu/timetable-api/internal/service"
	appErrors "github.com/irn-edu/timetable-api/pkg/errors"
	"github.com/irn-edu/timetable-api/pkg/response"
)

type runHistoryLister interface {
	List(ctx context.Context, query dto.RunHistoryQuery) (*dto.RunHistoryResponse, error)
}

// HistoryHandler lists persisted scheduling runs.
type HistoryHandler struct {
	service runHistoryLister
}

// NewHistoryHandler constructs the handler.
func NewHistoryHandler(svc *service.RunHistoryService) *HistoryHandler {
	return &HistoryHandler{service: svc}
}

// List godoc
// @Summary List past scheduling runs
// @Tags Schedule
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /runs [get]
func (h *HistoryHandler) List(c *gin.Context) {
	var query dto.RunHistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid history query"))
		return
	}
	resp, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp.Runs, &resp.Pagination)
}
