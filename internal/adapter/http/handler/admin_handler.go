package handler

import (
	"time"

	"vendor-payout-gateway/internal/adapter/http/dto"
	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"
	"vendor-payout-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler handles operator dashboard endpoints.
type AdminHandler struct {
	adminSvc ports.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc ports.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// ListVendors handles GET /api/v1/admin/vendors.
func (h *AdminHandler) ListVendors(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	vendors, total, err := h.adminSvc.ListVendors(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.UserResponse, 0, len(vendors))
	for i := range vendors {
		items = append(items, toUserResponse(&vendors[i]))
	}
	response.OK(c, dto.NewListResponse(items, total, page, pageSize))
}

// UpdateVendorStatus handles PATCH /api/v1/admin/vendors/:id/status.
func (h *AdminHandler) UpdateVendorStatus(c *gin.Context) {
	vendorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("vendor id must be a UUID"))
		return
	}

	var req dto.VendorStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	user, err := h.adminSvc.UpdateVendorStatus(c.Request.Context(), vendorID, domain.UserStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toUserResponse(user))
}

// PayoutStats handles GET /api/v1/admin/payouts/stats.
func (h *AdminHandler) PayoutStats(c *gin.Context) {
	var vendorID *uuid.UUID
	if v := c.Query("vendor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.Error(c, apperror.Validation("vendor_id must be a UUID"))
			return
		}
		vendorID = &id
	}
	var from *time.Time
	if f := c.Query("from"); f != "" {
		ts, err := time.Parse(time.RFC3339, f)
		if err != nil {
			response.Error(c, apperror.Validation("from must be RFC3339"))
			return
		}
		from = &ts
	}

	stats, err := h.adminSvc.PayoutStats(c.Request.Context(), vendorID, from)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// BalanceHistory handles GET /api/v1/admin/gateway/balance/history.
func (h *AdminHandler) BalanceHistory(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	snapshots, total, err := h.adminSvc.BalanceHistory(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewListResponse(snapshots, total, page, pageSize))
}
