package models

import "time"

// ReferralEarning types. Percentage-bonus reversals are recorded as
// negative-amount rows of the same type, never deleted.
const (
	EarningRegistration = "registration"
	EarningOrder        = "order"
)

// ReferralEarning is the model for the 'referral_earnings' table,
// the audit trail of every bonus posting.
type ReferralEarning struct {
	ID         int64     `json:"id" db:"id"`
	ReferrerID int64     `json:"referrer_id" db:"referrer_id"`
	ReferredID int64     `json:"referred_id" db:"referred_id"`
	Amount     float64   `json:"amount" db:"amount"`
	Type       string    `json:"type" db:"type"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
