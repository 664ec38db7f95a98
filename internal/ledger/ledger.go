// Package ledger holds every balance-mutating operation. Each function
// runs inside a caller-owned *sql.Tx so the order row, the balance update
// and the audit rows commit or roll back together; partial application of
// any of them is a correctness violation.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/01moynul/resellerhub-golang/internal/models"
)

// Business-rule violations surface as sentinel errors so handlers can map
// them to 400 responses with the message intact.
var (
	ErrOrderNotFound       = errors.New("Order not found")
	ErrProductNotFound     = errors.New("Product not found")
	ErrOutOfStock          = errors.New("Out of stock")
	ErrPriceBelowFloor     = errors.New("Reseller price cannot be less than admin price")
	ErrWithdrawalNotFound  = errors.New("Withdrawal not found")
	ErrWithdrawalProcessed = errors.New("Withdrawal already processed")
	ErrInsufficientBalance = errors.New("Insufficient balance")
	ErrAmountBelowMinimum  = errors.New("Minimum withdraw amount is 500")
	ErrTrxIDRequired       = errors.New("A transaction reference is required to approve a withdrawal")
	ErrInvalidStatus       = errors.New("Invalid status")
)

// Querier is the common subset of *sql.DB and *sql.Tx we need, so the
// read helpers work both inside and outside a transaction.
type Querier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// GetSetting returns the settings value for a key, or "" when absent.
func GetSetting(q Querier, key string) (string, error) {
	var value string
	err := q.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// GetBalance returns a reseller's current ledger balance.
func GetBalance(q Querier, resellerID int64) (float64, error) {
	var balance float64
	err := q.QueryRow("SELECT balance FROM resellers WHERE id = ?", resellerID).Scan(&balance)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// addTransaction writes one signed statement row. This is the only place
// that inserts into 'transactions'; every balance delta gets exactly one.
func addTransaction(tx *sql.Tx, resellerID int64, trxType string, amount float64, description string) error {
	_, err := tx.Exec(`
		INSERT INTO transactions (reseller_id, transaction_id, type, amount, description)
		VALUES (?, ?, ?, ?, ?)`,
		resellerID, models.NewCode(10), trxType, amount, description)
	if err != nil {
		return fmt.Errorf("failed to add transaction row: %w", err)
	}
	return nil
}

// creditBalance applies a signed delta to a reseller's balance.
func creditBalance(tx *sql.Tx, resellerID int64, amount float64) error {
	_, err := tx.Exec("UPDATE resellers SET balance = balance + ? WHERE id = ?", amount, resellerID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

// StatusChange reports what a transition actually did, so the HTTP layer
// knows which rooms to poke after commit.
type StatusChange struct {
	OrderID    int64
	ResellerID int64
	OldStatus  string
	NewStatus  string
	MoneyMoved bool
}

// TransitionOrderStatus moves an order to newStatus and settles profit.
//
// Entering Delivered from any other state credits the reseller by the
// order's profit; leaving Delivered debits it again, so Delivered→Cancelled
// is the exact inverse. A same-status update is a balance no-op. If the
// reseller was referred and a percentage bonus is configured, the referrer
// is credited/debited alongside, with a signed referral_earnings row either
// way — reversals post a negative row rather than deleting the original.
func TransitionOrderStatus(tx *sql.Tx, orderID int64, newStatus string) (*StatusChange, error) {
	switch newStatus {
	case models.OrderPending, models.OrderShipped, models.OrderDelivered, models.OrderCancelled:
	default:
		return nil, ErrInvalidStatus
	}

	var (
		resellerID int64
		profit     float64
		oldStatus  string
	)
	err := tx.QueryRow("SELECT reseller_id, profit, status FROM orders WHERE id = ?", orderID).
		Scan(&resellerID, &profit, &oldStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	change := &StatusChange{
		OrderID:    orderID,
		ResellerID: resellerID,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
	}

	// The delta depends on old vs. new status, not on the request itself,
	// so repeating the same update never double-pays.
	if newStatus == models.OrderDelivered && oldStatus != models.OrderDelivered {
		if err := creditBalance(tx, resellerID, profit); err != nil {
			return nil, err
		}
		if err := addTransaction(tx, resellerID, models.TrxOrderProfit, profit,
			fmt.Sprintf("Profit for delivered order #%d", orderID)); err != nil {
			return nil, err
		}
		if err := settleReferralShare(tx, resellerID, profit, orderID, false); err != nil {
			return nil, err
		}
		change.MoneyMoved = true
	} else if newStatus != models.OrderDelivered && oldStatus == models.OrderDelivered {
		if err := creditBalance(tx, resellerID, -profit); err != nil {
			return nil, err
		}
		if err := addTransaction(tx, resellerID, models.TrxProfitReversal, -profit,
			fmt.Sprintf("Profit reversed for order #%d (%s)", orderID, newStatus)); err != nil {
			return nil, err
		}
		if err := settleReferralShare(tx, resellerID, profit, orderID, true); err != nil {
			return nil, err
		}
		change.MoneyMoved = true
	}

	if _, err := tx.Exec("UPDATE orders SET status = ? WHERE id = ?", newStatus, orderID); err != nil {
		return nil, err
	}

	return change, nil
}

// settleReferralShare posts the referrer's percentage cut of an order
// profit. reverse=true debits it back and records a negative audit row.
func settleReferralShare(tx *sql.Tx, resellerID int64, profit float64, orderID int64, reverse bool) error {
	var referredBy sql.NullInt64
	err := tx.QueryRow("SELECT referred_by FROM resellers WHERE id = ?", resellerID).Scan(&referredBy)
	if err != nil {
		return err
	}
	if !referredBy.Valid {
		return nil
	}

	bonusType, err := GetSetting(tx, "referral_bonus_type")
	if err != nil {
		return err
	}
	if bonusType != "percentage" {
		return nil
	}

	pctRaw, err := GetSetting(tx, "referral_bonus_amount")
	if err != nil {
		return err
	}
	pct, err := strconv.ParseFloat(pctRaw, 64)
	if err != nil || pct <= 0 {
		return nil
	}

	share := profit * pct / 100
	if reverse {
		share = -share
	}

	if err := creditBalance(tx, referredBy.Int64, share); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO referral_earnings (referrer_id, referred_id, amount, type)
		VALUES (?, ?, ?, ?)`,
		referredBy.Int64, resellerID, share, models.EarningOrder); err != nil {
		return err
	}
	return addTransaction(tx, referredBy.Int64, models.TrxReferralBonus, share,
		fmt.Sprintf("Referral share for order #%d", orderID))
}

// ProcessWithdrawal resolves a Pending withdrawal.
//
// Approval requires a transaction reference and a balance that still covers
// the amount; the debit, status and reference persist atomically. Rejection
// only flips the status — the hold was never taken out of the balance, so
// nothing is refunded. Non-Pending withdrawals cannot be processed again.
func ProcessWithdrawal(tx *sql.Tx, withdrawalID int64, newStatus, trxID string) (*models.Withdrawal, error) {
	if newStatus != models.WithdrawalApproved && newStatus != models.WithdrawalRejected {
		return nil, ErrInvalidStatus
	}

	var w models.Withdrawal
	err := tx.QueryRow("SELECT id, reseller_id, amount, status FROM withdrawals WHERE id = ?", withdrawalID).
		Scan(&w.ID, &w.ResellerID, &w.Amount, &w.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, err
	}

	if w.Status != models.WithdrawalPending {
		return nil, ErrWithdrawalProcessed
	}

	if newStatus == models.WithdrawalApproved {
		if trxID == "" {
			return nil, ErrTrxIDRequired
		}

		balance, err := GetBalance(tx, w.ResellerID)
		if err != nil {
			return nil, err
		}
		if balance < w.Amount {
			return nil, ErrInsufficientBalance
		}

		if err := creditBalance(tx, w.ResellerID, -w.Amount); err != nil {
			return nil, err
		}
		if err := addTransaction(tx, w.ResellerID, models.TrxWithdrawal, -w.Amount,
			fmt.Sprintf("Withdrawal #%d paid out (%s)", w.ID, trxID)); err != nil {
			return nil, err
		}
		if _, err := tx.Exec("UPDATE withdrawals SET status = ?, transaction_id = ? WHERE id = ?",
			newStatus, trxID, withdrawalID); err != nil {
			return nil, err
		}
	} else {
		if _, err := tx.Exec("UPDATE withdrawals SET status = ? WHERE id = ?", newStatus, withdrawalID); err != nil {
			return nil, err
		}
	}

	w.Status = newStatus
	return &w, nil
}

// PlaceOrderInput carries the reseller's order form.
type PlaceOrderInput struct {
	ProductID       int64   `json:"product_id" binding:"required"`
	ResellerPrice   float64 `json:"reseller_price" binding:"required,gt=0"`
	CustomerName    string  `json:"customer_name" binding:"required"`
	CustomerPhone   string  `json:"customer_phone" binding:"required"`
	CustomerAddress string  `json:"customer_address" binding:"required"`
	PaymentMethod   string  `json:"payment_method" binding:"omitempty,oneof=advance cod"`
	Location        string  `json:"location" binding:"omitempty,oneof=inside outside"`
}

// PlaceOrder inserts a Pending order and takes one unit of stock, in the
// same transaction. Profit is frozen as reseller_price - admin_price; the
// delivery charge tier comes from settings keyed by payment method and
// customer location, defaulting to 0 when the tier is not configured.
func PlaceOrder(tx *sql.Tx, resellerID int64, in PlaceOrderInput) (int64, error) {
	if in.PaymentMethod == "" {
		in.PaymentMethod = "cod"
	}
	if in.Location == "" {
		in.Location = "inside"
	}

	var (
		adminPrice float64
		stock      int
	)
	err := tx.QueryRow("SELECT admin_price, stock FROM products WHERE id = ?", in.ProductID).
		Scan(&adminPrice, &stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}

	if stock <= 0 {
		return 0, ErrOutOfStock
	}
	if in.ResellerPrice < adminPrice {
		return 0, ErrPriceBelowFloor
	}

	profit := in.ResellerPrice - adminPrice

	deliveryCharge := 0.0
	chargeRaw, err := GetSetting(tx, fmt.Sprintf("delivery_charge_%s_%s", in.PaymentMethod, in.Location))
	if err != nil {
		return 0, err
	}
	if chargeRaw != "" {
		if parsed, perr := strconv.ParseFloat(chargeRaw, 64); perr == nil {
			deliveryCharge = parsed
		}
	}

	result, err := tx.Exec(`
		INSERT INTO orders
		(reseller_id, product_id, admin_price, reseller_price, profit,
		 customer_name, customer_phone, customer_address,
		 status, payment_method, location, delivery_charge)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		resellerID, in.ProductID, adminPrice, in.ResellerPrice, profit,
		in.CustomerName, in.CustomerPhone, in.CustomerAddress,
		models.OrderPending, in.PaymentMethod, in.Location, deliveryCharge)
	if err != nil {
		return 0, err
	}
	orderID, _ := result.LastInsertId()

	if _, err := tx.Exec("UPDATE products SET stock = stock - 1 WHERE id = ?", in.ProductID); err != nil {
		return 0, err
	}

	return orderID, nil
}

// RequestWithdrawal inserts a Pending withdrawal after checking the floor
// and the *available* balance: the ledger balance minus every other still
// Pending withdrawal, so stacked requests cannot over-commit funds.
func RequestWithdrawal(tx *sql.Tx, resellerID int64, amount float64, method, accountNumber string) (int64, error) {
	if amount < models.MinWithdrawalAmount {
		return 0, ErrAmountBelowMinimum
	}

	balance, err := GetBalance(tx, resellerID)
	if err != nil {
		return 0, err
	}

	var pendingHold sql.NullFloat64
	err = tx.QueryRow(`
		SELECT SUM(amount) FROM withdrawals
		WHERE reseller_id = ? AND status = ?`,
		resellerID, models.WithdrawalPending).Scan(&pendingHold)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	if balance-pendingHold.Float64 < amount {
		return 0, ErrInsufficientBalance
	}

	result, err := tx.Exec(`
		INSERT INTO withdrawals (reseller_id, amount, method, account_number, status)
		VALUES (?, ?, ?, ?, ?)`,
		resellerID, amount, method, accountNumber, models.WithdrawalPending)
	if err != nil {
		return 0, err
	}

	id, _ := result.LastInsertId()
	return id, nil
}
