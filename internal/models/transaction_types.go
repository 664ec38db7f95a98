package models

import "time"

// Transaction types shown on the reseller statement.
const (
	TrxOrderProfit    = "order_profit"
	TrxProfitReversal = "profit_reversal"
	TrxWithdrawal     = "withdrawal"
	TrxReferralBonus  = "referral_bonus"
)

// Transaction is the model for the 'transactions' table.
// Amount can be positive (credit) or negative (debit); the rows are
// the human-readable statement behind a reseller's balance.
type Transaction struct {
	ID            int64     `json:"id" db:"id"`
	ResellerID    int64     `json:"reseller_id" db:"reseller_id"`
	TransactionID string    `json:"transaction_id" db:"transaction_id"`
	Type          string    `json:"type" db:"type"`
	Amount        float64   `json:"amount" db:"amount"`
	Description   string    `json:"description" db:"description"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
