package handlers

import (
	"net/http"

	"github.com/Dosada05/arena-admin/middleware"
	"github.com/Dosada05/arena-admin/models"
)

func (h *WalletHandler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input models.WithdrawalInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	withdrawal, err := h.walletService.RequestWithdrawal(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, r, http.StatusCreated, jsonResponse{"message": "withdrawal request submitted", "data": withdrawal})
}

func (h *WalletHandler) PendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.walletService.PendingWithdrawals(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if withdrawals == nil {
		withdrawals = []models.Withdrawal{}
	}

	successResponse(w, r, http.StatusOK, jsonResponse{"data": withdrawals})
}

func (h *WalletHandler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.reviewWithdrawal(w, r, true)
}

func (h *WalletHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.reviewWithdrawal(w, r, false)
}

func (h *WalletHandler) reviewWithdrawal(w http.ResponseWriter, r *http.Request, approve bool) {
	id, err := urlParam(r, "withdrawalID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var decision models.WithdrawalDecision
	if err := readOptionalJSON(w, r, &decision); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var withdrawal *models.Withdrawal
	message := "withdrawal approved"
	if approve {
		withdrawal, err = h.walletService.ApproveWithdrawal(r.Context(), id, decision)
	} else {
		withdrawal, err = h.walletService.RejectWithdrawal(r.Context(), id, decision)
		message = "withdrawal rejected"
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, r, http.StatusOK, jsonResponse{"message": message, "data": withdrawal})
}
