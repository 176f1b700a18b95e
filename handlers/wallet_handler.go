package handlers

import (
	"net/http"

	"github.com/Dosada05/arena-admin/middleware"
	"github.com/Dosada05/arena-admin/models"
	"github.com/Dosada05/arena-admin/services"
)

// WalletHandler serves the wallet, deposit and withdrawal endpoints.
type WalletHandler struct {
	walletService services.WalletService
}

func NewWalletHandler(ws services.WalletService) *WalletHandler {
	return &WalletHandler{walletService: ws}
}

func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	balance, err := h.walletService.Balance(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, r, http.StatusOK, jsonResponse{"balance": balance})
}

// Credit handles POST /api/wallet/credit (admin only).
func (h *WalletHandler) Credit(w http.ResponseWriter, r *http.Request) {
	var input models.CreditInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	balance, err := h.walletService.Credit(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, r, http.StatusOK, jsonResponse{"message": "wallet credited", "new_balance": balance})
}
