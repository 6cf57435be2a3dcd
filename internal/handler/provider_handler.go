package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tkhonje/payment-provider-engine/internal/dto"
	"github.com/tkhonje/payment-provider-engine/internal/service"
)

type ProviderHandler struct {
	svc *service.ProviderService
}

func NewProviderHandler(svc *service.ProviderService) *ProviderHandler {
	return &ProviderHandler{svc: svc}
}

func (h *ProviderHandler) Create(c *gin.Context) {
	var req dto.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	p, err := h.svc.CreateProvider(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.ProviderResponse{Provider: p})
}

func (h *ProviderHandler) List(c *gin.Context) {
	params := dto.ParsePagination(c)

	providers, total, err := h.svc.ListProviders(c.Request.Context(), params.PageSize, params.Offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ProviderListResponse{
		Providers:  providers,
		Pagination: dto.NewPagination(params.Page, params.PageSize, total),
	})
}

func (h *ProviderHandler) Get(c *gin.Context) {
	p, err := h.svc.GetProvider(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ProviderResponse{Provider: p})
}

func (h *ProviderHandler) Update(c *gin.Context) {
	var req dto.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	p, err := h.svc.SetActive(c.Request.Context(), c.Param("code"), *req.IsActive)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ProviderResponse{Provider: p})
}

// Quote is the transaction processor's pre-submit check: validate the amount
// against the provider's limits, then price it. A rejected amount comes back
// with HTTP 200 and valid=false; the reason names the violated bound.
func (h *ProviderHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	result, err := h.svc.Quote(c.Request.Context(), c.Param("code"), req.Amount)
	if err != nil {
		c.Error(err)
		return
	}

	resp := dto.QuoteResponse{
		Valid:  result.Valid,
		Reason: string(result.Reason),
		Limit:  result.Limit,
		Amount: result.Amount,
	}
	if result.Valid {
		resp.Fee = result.Fee
		resp.Total = result.Amount + result.Fee
	}

	c.JSON(http.StatusOK, resp)
}
