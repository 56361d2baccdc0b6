package handler

import (
	"time"

	"vendor-payout-gateway/internal/adapter/http/dto"
	"vendor-payout-gateway/internal/adapter/http/middleware"
	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"
	"vendor-payout-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PayoutHandler handles payout lifecycle endpoints.
type PayoutHandler struct {
	payoutSvc ports.PayoutService
	log       zerolog.Logger
}

// NewPayoutHandler creates a new PayoutHandler.
func NewPayoutHandler(payoutSvc ports.PayoutService, log zerolog.Logger) *PayoutHandler {
	return &PayoutHandler{payoutSvc: payoutSvc, log: log}
}

// Submit handles POST /api/v1/payouts.
func (h *PayoutHandler) Submit(c *gin.Context) {
	vendorID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.SubmitPayoutRequest
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

	submitReq := ports.SubmitPayoutRequest{
		VendorID:      vendorID,
		Amount:        amount,
		Mode:          domain.PayoutMode(req.Mode),
		Name:          req.Name,
		Phone:         req.Phone,
		VPA:           req.VPA,
		AccountNumber: req.AccountNumber,
		IFSC:          req.IFSC,
		BankName:      req.BankName,
		Narration:     req.Narration,
	}
	if req.BeneficiaryID != nil {
		benID, err := uuid.Parse(*req.BeneficiaryID)
		if err != nil {
			response.Error(c, apperror.Validation("beneficiary_id must be a UUID"))
			return
		}
		submitReq.BeneficiaryID = &benID
	}

	payout, err := h.payoutSvc.Submit(c.Request.Context(), submitReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toPayoutResponse(payout))
}

// Get handles GET /api/v1/payouts/:reference_id.
func (h *PayoutHandler) Get(c *gin.Context) {
	vendorID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	payout, err := h.payoutSvc.Get(c.Request.Context(), &vendorID, c.Param("reference_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toPayoutResponse(payout))
}

// CheckStatus handles POST /api/v1/payouts/:reference_id/status — polls
// the gateway and applies the result.
func (h *PayoutHandler) CheckStatus(c *gin.Context) {
	vendorID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	payout, err := h.payoutSvc.CheckStatus(c.Request.Context(), vendorID, c.Param("reference_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toPayoutResponse(payout))
}

// List handles GET /api/v1/payouts.
func (h *PayoutHandler) List(c *gin.Context) {
	vendorID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	params := parsePayoutListParams(c)
	params.VendorID = &vendorID

	payouts, total, err := h.payoutSvc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewListResponse(toPayoutResponses(payouts), total, params.Page, params.PageSize))
}

// ListAll handles GET /api/v1/admin/payouts — payouts across all vendors,
// optionally narrowed by a vendor_id query parameter.
func (h *PayoutHandler) ListAll(c *gin.Context) {
	params := parsePayoutListParams(c)
	if v := c.Query("vendor_id"); v != "" {
		vendorID, err := uuid.Parse(v)
		if err != nil {
			response.Error(c, apperror.Validation("vendor_id must be a UUID"))
			return
		}
		params.VendorID = &vendorID
	}

	payouts, total, err := h.payoutSvc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewListResponse(toPayoutResponses(payouts), total, params.Page, params.PageSize))
}

// Logs handles GET /api/v1/payouts/:reference_id/logs.
func (h *PayoutHandler) Logs(c *gin.Context) {
	vendorID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	logs, err := h.payoutSvc.Logs(c.Request.Context(), &vendorID, c.Param("reference_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, logs)
}

// Webhook handles POST /api/v1/webhook/payout. The gateway retries on
// anything but 200, so processing failures are logged and swallowed; a
// missed update is reconciled by the next status check.
func (h *PayoutHandler) Webhook(c *gin.Context) {
	var env domain.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		h.log.Warn().Err(err).Msg("webhook with malformed body")
		c.JSON(200, gin.H{"status": "ok"})
		return
	}

	if err := h.payoutSvc.HandleWebhook(c.Request.Context(), &env); err != nil {
		h.log.Warn().Err(err).Msg("webhook processing failed")
	}
	c.JSON(200, gin.H{"status": "ok"})
}

// GatewayBalance handles GET /api/v1/admin/gateway/balance.
func (h *PayoutHandler) GatewayBalance(c *gin.Context) {
	adminID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	bal, err := h.payoutSvc.GatewayBalance(c.Request.Context(), adminID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.GatewayBalanceResponse{Balance: bal.Balance, Cached: bal.Cached})
}

func parsePayoutListParams(c *gin.Context) ports.PayoutListParams {
	params := ports.PayoutListParams{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if s := c.Query("status"); s != "" {
		status := domain.PayoutStatus(s)
		params.Status = &status
	}
	if m := c.Query("mode"); m != "" {
		mode := domain.PayoutMode(m)
		params.Mode = &mode
	}
	if f := c.Query("from"); f != "" {
		if ts, err := time.Parse(time.RFC3339, f); err == nil {
			params.From = &ts
		}
	}
	if tq := c.Query("to"); tq != "" {
		if ts, err := time.Parse(time.RFC3339, tq); err == nil {
			params.To = &ts
		}
	}
	return params
}

func toPayoutResponse(p *domain.PayoutTransaction) dto.PayoutResponse {
	resp := dto.PayoutResponse{
		ID:                   p.ID.String(),
		MerchantReferenceID:  p.MerchantReferenceID,
		GatewayTransactionID: p.GatewayTransactionID,
		UTR:                  p.UTR,
		Amount:               p.Amount.String(),
		Mode:                 string(p.Mode),
		Status:               string(p.Status),
		BeneficiaryName:      p.BeneficiaryName,
		FailureReason:        p.FailureReason,
		CreatedAt:            formatTime(p.CreatedAt),
		CompletedAt:          formatTimePtr(p.CompletedAt),
	}
	return resp
}

func toPayoutResponses(payouts []domain.PayoutTransaction) []dto.PayoutResponse {
	out := make([]dto.PayoutResponse, 0, len(payouts))
	for i := range payouts {
		out = append(out, toPayoutResponse(&payouts[i]))
	}
	return out
}
