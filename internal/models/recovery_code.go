package models

import "time"

// Delivery channels for a recovery code.
const (
	RecoveryMethodSMS   = "sms"
	RecoveryMethodVoice = "voice"
)

// RecoveryCode is the pending-verification record for one account.
// At most one exists per account key; a new request overwrites the old one.
type RecoveryCode struct {
	AccountKey string    `json:"account_key"`
	Code       string    `json:"code"`
	Method     string    `json:"method"` // "sms" | "voice"
	Phone      string    `json:"phone"`  // normalized destination
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Attempts   int       `json:"attempts"`
}
