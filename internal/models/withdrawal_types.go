package models

import (
	"database/sql"
	"time"
)

// Withdrawal status values. Only Pending withdrawals may be processed.
const (
	WithdrawalPending  = "Pending"
	WithdrawalApproved = "Approved"
	WithdrawalRejected = "Rejected"
)

// MinWithdrawalAmount is the floor for a cash-out request.
const MinWithdrawalAmount = 500

// Withdrawal is the model for the 'withdrawals' table.
type Withdrawal struct {
	ID            int64          `json:"id" db:"id"`
	ResellerID    int64          `json:"reseller_id" db:"reseller_id"`
	Amount        float64        `json:"amount" db:"amount"`
	Method        string         `json:"method" db:"method"` // bKash, Nagad, Rocket, Bank...
	AccountNumber string         `json:"account_number" db:"account_number"`
	Status        string         `json:"status" db:"status"`
	TransactionID sql.NullString `json:"transaction_id" db:"transaction_id"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`

	// Joined display field
	ResellerName string `json:"reseller_name,omitempty" db:"-"`
}
