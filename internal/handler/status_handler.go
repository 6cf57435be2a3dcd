package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tkhonje/payment-provider-engine/internal/dto"
	"github.com/tkhonje/payment-provider-engine/internal/service"
)

type StatusHandler struct {
	svc *service.AvailabilityService
}

func NewStatusHandler(svc *service.AvailabilityService) *StatusHandler {
	return &StatusHandler{svc: svc}
}

func (h *StatusHandler) Record(c *gin.Context) {
	var req dto.RecordStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	p, event, err := h.svc.RecordStatus(c.Request.Context(), c.Param("code"), service.StatusInput{
		Status:           req.Status,
		Message:          req.Message,
		DurationMinutes:  req.DurationMinutes,
		AffectedServices: req.AffectedServices,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.StatusEventResponse{
		Event:    event,
		Provider: p,
	})
}

func (h *StatusHandler) Log(c *gin.Context) {
	params := dto.ParsePagination(c)

	events, total, err := h.svc.StatusLog(c.Request.Context(), c.Param("code"), params.PageSize, params.Offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusLogResponse{
		Events:     events,
		Pagination: dto.NewPagination(params.Page, params.PageSize, total),
	})
}
