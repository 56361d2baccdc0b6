package handler

import (
	"vendor-payout-gateway/internal/adapter/http/dto"
	"vendor-payout-gateway/internal/adapter/http/middleware"
	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"
	"vendor-payout-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet balance and ledger endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Balance handles GET /api/v1/wallet/balance.
func (h *WalletHandler) Balance(c *gin.Context) {
	vendorID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	wallet, err := h.walletSvc.Balance(c.Request.Context(), vendorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.WalletBalanceResponse{
		VendorID: wallet.VendorID.String(),
		Balance:  wallet.Balance.String(),
		Currency: wallet.Currency,
	})
}

// Ledger handles GET /api/v1/wallet/ledger.
func (h *WalletHandler) Ledger(c *gin.Context) {
	vendorID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var entryType *domain.LedgerEntryType
	if t := c.Query("type"); t != "" {
		et := domain.LedgerEntryType(t)
		entryType = &et
	}
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	entries, total, err := h.walletSvc.Ledger(c.Request.Context(), vendorID, entryType, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toLedgerEntryResponse(&entries[i]))
	}
	response.OK(c, dto.NewListResponse(items, total, page, pageSize))
}

func toLedgerEntryResponse(e *domain.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:            e.ID.String(),
		Type:          string(e.Type),
		Amount:        e.Amount.String(),
		BalanceBefore: e.BalanceBefore.String(),
		BalanceAfter:  e.BalanceAfter.String(),
		ReferenceID:   e.ReferenceID,
		Description:   e.Description,
		CreatedAt:     formatTime(e.CreatedAt),
	}
}
