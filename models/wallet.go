package models

import "time"

// RequestStatus is shared by deposits and withdrawals awaiting an admin decision.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

type Deposit struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	Amount        int           `json:"amount"`
	TransactionID string        `json:"transactionId,omitempty"`
	Status        RequestStatus `json:"status"`
	AdminNote     string        `json:"adminNote,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	ReviewedAt    *time.Time    `json:"reviewed_at,omitempty"`
}

type Withdrawal struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	Amount        int           `json:"amount"`
	Method        string        `json:"method,omitempty"`
	AccountRef    string        `json:"account_ref,omitempty"`
	Status        RequestStatus `json:"status"`
	AdminNotes    string        `json:"admin_notes,omitempty"`
	TransactionID string        `json:"transactionId,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	ReviewedAt    *time.Time    `json:"reviewed_at,omitempty"`
}

type CreditInput struct {
	UserID string `json:"userId"`
	Amount int    `json:"amount"`
}

type DepositInput struct {
	Amount        int    `json:"amount"`
	TransactionID string `json:"transactionId"`
}

type WithdrawalInput struct {
	Amount     int    `json:"amount"`
	Method     string `json:"method"`
	AccountRef string `json:"account_ref"`
}

// DepositDecision is the body of the deposit approve/reject endpoints.
type DepositDecision struct {
	AdminNote string `json:"adminNote"`
}

// WithdrawalDecision is the body of the withdrawal approve/reject endpoints.
type WithdrawalDecision struct {
	AdminNotes    string `json:"admin_notes"`
	TransactionID string `json:"transactionId,omitempty"`
}
