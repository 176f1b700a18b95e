package models

import "encoding/json"

// Envelope is the wire shape of every backend response. Only Success is
// always present; the other members depend on the endpoint.
type Envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Token      string          `json:"token,omitempty"`
	User       *User           `json:"user,omitempty"`
	Balance    *int            `json:"balance,omitempty"`
	NewBalance *int            `json:"new_balance,omitempty"`
}
