package handler

import (
	"vendor-payout-gateway/internal/adapter/http/dto"
	"vendor-payout-gateway/internal/adapter/http/middleware"
	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"
	"vendor-payout-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BeneficiaryHandler handles saved recipient endpoints.
type BeneficiaryHandler struct {
	benSvc ports.BeneficiaryService
}

// NewBeneficiaryHandler creates a new BeneficiaryHandler.
func NewBeneficiaryHandler(benSvc ports.BeneficiaryService) *BeneficiaryHandler {
	return &BeneficiaryHandler{benSvc: benSvc}
}

// Create handles POST /api/v1/beneficiaries.
func (h *BeneficiaryHandler) Create(c *gin.Context) {
	vendorID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	ben, ok := h.bindBeneficiary(c)
	if !ok {
		return
	}

	created, err := h.benSvc.Create(c.Request.Context(), vendorID, ben)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Get handles GET /api/v1/beneficiaries/:id.
func (h *BeneficiaryHandler) Get(c *gin.Context) {
	vendorID, benID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	ben, err := h.benSvc.Get(c.Request.Context(), vendorID, benID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ben)
}

// Update handles PUT /api/v1/beneficiaries/:id.
func (h *BeneficiaryHandler) Update(c *gin.Context) {
	vendorID, benID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	ben, ok := h.bindBeneficiary(c)
	if !ok {
		return
	}

	updated, err := h.benSvc.Update(c.Request.Context(), vendorID, benID, ben)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, updated)
}

// Delete handles DELETE /api/v1/beneficiaries/:id.
func (h *BeneficiaryHandler) Delete(c *gin.Context) {
	vendorID, benID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	if err := h.benSvc.Delete(c.Request.Context(), vendorID, benID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

// List handles GET /api/v1/beneficiaries.
func (h *BeneficiaryHandler) List(c *gin.Context) {
	vendorID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	bens, total, err := h.benSvc.List(c.Request.Context(), vendorID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewListResponse(bens, total, page, pageSize))
}

func (h *BeneficiaryHandler) pathIDs(c *gin.Context) (vendorID, benID uuid.UUID, ok bool) {
	vendorID, hasUser := middleware.UserID(c)
	if !hasUser {
		response.Error(c, apperror.ErrInvalidToken())
		return uuid.Nil, uuid.Nil, false
	}
	benID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("beneficiary id must be a UUID"))
		return uuid.Nil, uuid.Nil, false
	}
	return vendorID, benID, true
}

func (h *BeneficiaryHandler) bindBeneficiary(c *gin.Context) (*domain.Beneficiary, bool) {
	var req dto.BeneficiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return nil, false
	}
	dto.SanitizeStruct(&req)

	return &domain.Beneficiary{
		Name:          req.Name,
		Phone:         req.Phone,
		VPA:           req.VPA,
		AccountNumber: req.AccountNumber,
		IFSC:          req.IFSC,
		BankName:      req.BankName,
	}, true
}
