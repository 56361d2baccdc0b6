package handler

import (
	"context"
	"errors"
	"io"

	"vendor-payout-gateway/internal/adapter/http/dto"
	"vendor-payout-gateway/internal/adapter/http/middleware"
	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"
	"vendor-payout-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopupHandler handles wallet topup endpoints for vendors and admins.
type TopupHandler struct {
	topupSvc ports.TopupService
}

// NewTopupHandler creates a new TopupHandler.
func NewTopupHandler(topupSvc ports.TopupService) *TopupHandler {
	return &TopupHandler{topupSvc: topupSvc}
}

// Request handles POST /api/v1/topups.
func (h *TopupHandler) Request(c *gin.Context) {
	vendorID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TopupCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.Validation("amount must be a decimal number"))
		return
	}

	topup, err := h.topupSvc.Request(c.Request.Context(), vendorID, amount, req.Remarks)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toTopupResponse(topup))
}

// List handles GET /api/v1/topups for vendors and GET /api/v1/admin/topups
// for admins; admin listings span all vendors.
func (h *TopupHandler) List(admin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vendorID *uuid.UUID
		if !admin {
			id, ok := middleware.UserID(c)
			if !ok {
				response.Error(c, apperror.ErrInvalidToken())
				return
			}
			vendorID = &id
		}

		var status *domain.TopupStatus
		if s := c.Query("status"); s != "" {
			st := domain.TopupStatus(s)
			status = &st
		}
		page := queryInt(c, "page", 1)
		pageSize := queryInt(c, "page_size", 20)

		topups, total, err := h.topupSvc.List(c.Request.Context(), vendorID, status, page, pageSize)
		if err != nil {
			response.Error(c, err)
			return
		}

		items := make([]dto.TopupResponse, 0, len(topups))
		for i := range topups {
			items = append(items, toTopupResponse(&topups[i]))
		}
		response.OK(c, dto.NewListResponse(items, total, page, pageSize))
	}
}

// Approve handles POST /api/v1/admin/topups/:id/approve.
func (h *TopupHandler) Approve(c *gin.Context) {
	h.review(c, h.topupSvc.Approve)
}

// Reject handles POST /api/v1/admin/topups/:id/reject.
func (h *TopupHandler) Reject(c *gin.Context) {
	h.review(c, h.topupSvc.Reject)
}

// Stats handles GET /api/v1/admin/topups/stats.
func (h *TopupHandler) Stats(c *gin.Context) {
	stats, err := h.topupSvc.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

func (h *TopupHandler) review(c *gin.Context, apply func(ctx context.Context, topupID, adminID uuid.UUID, note string) (*domain.TopupRequest, error)) {
	adminID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	topupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("topup id must be a UUID"))
		return
	}

	// Review note body is optional.
	var req dto.TopupReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	topup, err := apply(c.Request.Context(), topupID, adminID, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTopupResponse(topup))
}

func toTopupResponse(t *domain.TopupRequest) dto.TopupResponse {
	return dto.TopupResponse{
		ID:          t.ID.String(),
		VendorID:    t.VendorID.String(),
		ReferenceID: t.ReferenceID,
		Amount:      t.Amount.String(),
		Status:      string(t.Status),
		Remarks:     t.Remarks,
		ReviewNote:  t.ReviewNote,
		CreatedAt:   formatTime(t.CreatedAt),
		ReviewedAt:  formatTimePtr(t.ReviewedAt),
	}
}
