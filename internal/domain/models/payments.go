package models

import (
	"time"
)

// IntentStatus represents the outcome of validating a payment intent
type IntentStatus string

const (
	IntentStatusApproved      IntentStatus = "approved"
	IntentStatusRejected      IntentStatus = "rejected"
	IntentStatusLimitExceeded IntentStatus = "limit_exceeded"
)

// PaymentIntentRequest represents a request to validate a lightning payment
type PaymentIntentRequest struct {
	WalletID       string `json:"wallet_id" binding:"required"`
	PaymentRequest string `json:"payment_request" binding:"required"`
	// AmountSats is required for no-amount invoices when the sender wallet
	// is BTC-denominated; AmountUsdCents when it is USD-denominated.
	AmountSats     int64 `json:"amount_sats,omitempty"`
	AmountUsdCents int64 `json:"amount_usd_cents,omitempty"`
}

// PaymentIntentResponse represents the validated quote or rejection
type PaymentIntentResponse struct {
	RequestID         string        `json:"request_id"`
	Status            IntentStatus  `json:"status"`
	IsIntraLedger     bool          `json:"is_intra_ledger"`
	SkipProbe         bool          `json:"skip_probe"`
	PaymentHash       string        `json:"payment_hash,omitempty"`
	AmountSats        int64         `json:"amount_sats,omitempty"`
	AmountUsdCents    int64         `json:"amount_usd_cents,omitempty"`
	AmountUsd         string        `json:"amount_usd,omitempty"`
	RecipientUsername string        `json:"recipient_username,omitempty"`
	RemainingUsdCents *int64        `json:"remaining_usd_cents,omitempty"`
	Message           string        `json:"message,omitempty"`
	ProcessedAt       time.Time     `json:"processed_at"`
	ProcessingTime    time.Duration `json:"processing_time"`
}

// StatusUpdate represents a real-time status update
type StatusUpdate struct {
	Type        string      `json:"type"`
	RequestID   string      `json:"request_id,omitempty"`
	PaymentHash string      `json:"payment_hash,omitempty"`
	WalletID    string      `json:"wallet_id,omitempty"`
	Status      string      `json:"status"`
	Message     string      `json:"message,omitempty"`
	Data        interface{} `json:"data,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}
