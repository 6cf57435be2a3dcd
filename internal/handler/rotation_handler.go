package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tkhonje/payment-provider-engine/internal/dto"
	"github.com/tkhonje/payment-provider-engine/internal/model"
	"github.com/tkhonje/payment-provider-engine/internal/service"
)

type RotationHandler struct {
	svc *service.RotationService
}

func NewRotationHandler(svc *service.RotationService) *RotationHandler {
	return &RotationHandler{svc: svc}
}

// Rotate replaces the provider's credentials immediately. The response is
// the only place the retired and replacement keys appear; the caller is
// responsible for revoking the old pair upstream.
func (h *RotationHandler) Rotate(c *gin.Context) {
	result, err := h.svc.RotateKeys(c.Request.Context(), c.Param("code"), model.RotationTriggerManual)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.RotationResponse{
		OldKeys: dto.KeyPairResponse{
			PrimaryKey:   result.OldKeys.Primary,
			SecondaryKey: result.OldKeys.Secondary,
		},
		NewKeys: dto.KeyPairResponse{
			PrimaryKey:   result.NewKeys.Primary,
			SecondaryKey: result.NewKeys.Secondary,
		},
		NextRotation: result.NextRotation,
	})
}

func (h *RotationHandler) History(c *gin.Context) {
	params := dto.ParsePagination(c)

	records, total, err := h.svc.RotationHistory(c.Request.Context(), c.Param("code"), params.PageSize, params.Offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.RotationHistoryResponse{
		Rotations:  records,
		Pagination: dto.NewPagination(params.Page, params.PageSize, total),
	})
}
