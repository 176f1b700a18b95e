package handlers

import (
	"net/http"

	"github.com/Dosada05/arena-admin/middleware"
	"github.com/Dosada05/arena-admin/models"
)

func (h *WalletHandler) RequestDeposit(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input models.DepositInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	deposit, err := h.walletService.RequestDeposit(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, r, http.StatusCreated, jsonResponse{"message": "deposit request submitted", "data": deposit})
}

func (h *WalletHandler) PendingDeposits(w http.ResponseWriter, r *http.Request) {
	deposits, err := h.walletService.PendingDeposits(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if deposits == nil {
		deposits = []models.Deposit{}
	}

	successResponse(w, r, http.StatusOK, jsonResponse{"data": deposits})
}

func (h *WalletHandler) ApproveDeposit(w http.ResponseWriter, r *http.Request) {
	h.reviewDeposit(w, r, true)
}

func (h *WalletHandler) RejectDeposit(w http.ResponseWriter, r *http.Request) {
	h.reviewDeposit(w, r, false)
}

func (h *WalletHandler) reviewDeposit(w http.ResponseWriter, r *http.Request, approve bool) {
	id, err := urlParam(r, "depositID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var decision models.DepositDecision
	if err := readOptionalJSON(w, r, &decision); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var deposit *models.Deposit
	message := "deposit approved"
	if approve {
		deposit, err = h.walletService.ApproveDeposit(r.Context(), id, decision)
	} else {
		deposit, err = h.walletService.RejectDeposit(r.Context(), id, decision)
		message = "deposit rejected"
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, r, http.StatusOK, jsonResponse{"message": message, "data": deposit})
}
