package ledger_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/01moynul/resellerhub-golang/internal/database"
	"github.com/01moynul/resellerhub-golang/internal/ledger"
	"github.com/01moynul/resellerhub-golang/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenDBWithPath(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func createReseller(t *testing.T, db *sql.DB, name string, balance float64) int64 {
	t.Helper()
	res, err := db.Exec(`
		INSERT INTO resellers (name, email, password, balance, referral_code)
		VALUES (?, ?, 'x', ?, ?)`,
		name, name+"@example.com", balance, models.NewCode(8))
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func createProduct(t *testing.T, db *sql.DB, adminPrice float64, stock int) int64 {
	t.Helper()
	res, err := db.Exec(`
		INSERT INTO products (name, description, admin_price, stock, image)
		VALUES ('Widget', '', ?, ?, '')`, adminPrice, stock)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func createOrder(t *testing.T, db *sql.DB, resellerID, productID int64, adminPrice, resellerPrice float64) int64 {
	t.Helper()
	res, err := db.Exec(`
		INSERT INTO orders
		(reseller_id, product_id, admin_price, reseller_price, profit,
		 customer_name, customer_phone, customer_address, status)
		VALUES (?, ?, ?, ?, ?, 'C', '017', 'Dhaka', 'Pending')`,
		resellerID, productID, adminPrice, resellerPrice, resellerPrice-adminPrice)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func setSetting(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	require.NoError(t, err)
}

func balanceOf(t *testing.T, db *sql.DB, resellerID int64) float64 {
	t.Helper()
	b, err := ledger.GetBalance(db, resellerID)
	require.NoError(t, err)
	return b
}

// inTx runs fn inside a transaction and commits on success.
func inTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx) error) error {
	t.Helper()
	tx, err := db.Begin()
	require.NoError(t, err)
	if err := fn(tx); err != nil {
		require.NoError(t, tx.Rollback())
		return err
	}
	require.NoError(t, tx.Commit())
	return nil
}

func transition(t *testing.T, db *sql.DB, orderID int64, status string) error {
	return inTx(t, db, func(tx *sql.Tx) error {
		_, err := ledger.TransitionOrderStatus(tx, orderID, status)
		return err
	})
}

func TestDeliveredCreditsProfitAndCancelledRevertsIt(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "ana", 0)
	productID := createProduct(t, db, 1000, 10)
	orderID := createOrder(t, db, resellerID, productID, 1000, 1200)

	require.NoError(t, transition(t, db, orderID, models.OrderDelivered))
	assert.Equal(t, 200.0, balanceOf(t, db, resellerID))

	// Leaving Delivered is the exact inverse.
	require.NoError(t, transition(t, db, orderID, models.OrderCancelled))
	assert.Equal(t, 0.0, balanceOf(t, db, resellerID))
}

func TestRepeatedDeliveredIsBalanceNoOp(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "bo", 0)
	productID := createProduct(t, db, 1000, 10)
	orderID := createOrder(t, db, resellerID, productID, 1000, 1500)

	require.NoError(t, transition(t, db, orderID, models.OrderDelivered))
	require.NoError(t, transition(t, db, orderID, models.OrderDelivered))
	assert.Equal(t, 500.0, balanceOf(t, db, resellerID))
}

func TestNonDeliveredTransitionsNeverMoveMoney(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "cy", 0)
	productID := createProduct(t, db, 1000, 10)
	orderID := createOrder(t, db, resellerID, productID, 1000, 1300)

	require.NoError(t, transition(t, db, orderID, models.OrderShipped))
	require.NoError(t, transition(t, db, orderID, models.OrderCancelled))
	assert.Equal(t, 0.0, balanceOf(t, db, resellerID))
}

func TestTransitionUnknownOrderFails(t *testing.T) {
	db := newTestDB(t)
	err := transition(t, db, 9999, models.OrderDelivered)
	assert.ErrorIs(t, err, ledger.ErrOrderNotFound)
}

func TestTransitionInvalidStatusFails(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "dee", 0)
	productID := createProduct(t, db, 100, 1)
	orderID := createOrder(t, db, resellerID, productID, 100, 150)

	err := transition(t, db, orderID, "Teleported")
	assert.ErrorIs(t, err, ledger.ErrInvalidStatus)
}

func TestPercentageBonusAccruesAndReversesWithSignedRows(t *testing.T) {
	db := newTestDB(t)
	referrerID := createReseller(t, db, "ref", 0)
	resellerID := createReseller(t, db, "kid", 0)
	_, err := db.Exec("UPDATE resellers SET referred_by = ? WHERE id = ?", referrerID, resellerID)
	require.NoError(t, err)
	setSetting(t, db, "referral_bonus_type", "percentage")
	setSetting(t, db, "referral_bonus_amount", "10")

	productID := createProduct(t, db, 1000, 10)
	orderID := createOrder(t, db, resellerID, productID, 1000, 1200)

	require.NoError(t, transition(t, db, orderID, models.OrderDelivered))
	assert.Equal(t, 200.0, balanceOf(t, db, resellerID))
	assert.Equal(t, 20.0, balanceOf(t, db, referrerID))

	// The reversal posts a compensating negative row, never deletes.
	require.NoError(t, transition(t, db, orderID, models.OrderCancelled))
	assert.Equal(t, 0.0, balanceOf(t, db, referrerID))

	var rowCount int
	var total sql.NullFloat64
	require.NoError(t, db.QueryRow(
		"SELECT count(*), SUM(amount) FROM referral_earnings WHERE referrer_id = ?", referrerID).
		Scan(&rowCount, &total))
	assert.Equal(t, 2, rowCount)
	assert.Equal(t, 0.0, total.Float64)
}

func TestFixedBonusDoesNotAccrueOnOrders(t *testing.T) {
	db := newTestDB(t)
	referrerID := createReseller(t, db, "ref", 0)
	resellerID := createReseller(t, db, "kid", 0)
	_, err := db.Exec("UPDATE resellers SET referred_by = ? WHERE id = ?", referrerID, resellerID)
	require.NoError(t, err)
	setSetting(t, db, "referral_bonus_type", "fixed")
	setSetting(t, db, "referral_bonus_amount", "50")

	productID := createProduct(t, db, 1000, 10)
	orderID := createOrder(t, db, resellerID, productID, 1000, 1200)

	require.NoError(t, transition(t, db, orderID, models.OrderDelivered))
	assert.Equal(t, 0.0, balanceOf(t, db, referrerID))
}

func TestApproveWithdrawalDebitsBalance(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "eve", 1000)
	res, err := db.Exec(`
		INSERT INTO withdrawals (reseller_id, amount, method, account_number, status)
		VALUES (?, 600, 'bKash', '017', 'Pending')`, resellerID)
	require.NoError(t, err)
	withdrawalID, _ := res.LastInsertId()

	err = inTx(t, db, func(tx *sql.Tx) error {
		_, err := ledger.ProcessWithdrawal(tx, withdrawalID, models.WithdrawalApproved, "TRX123")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 400.0, balanceOf(t, db, resellerID))

	var status, trxID string
	require.NoError(t, db.QueryRow(
		"SELECT status, transaction_id FROM withdrawals WHERE id = ?", withdrawalID).
		Scan(&status, &trxID))
	assert.Equal(t, models.WithdrawalApproved, status)
	assert.Equal(t, "TRX123", trxID)
}

func TestApproveWithdrawalNeedsTransactionReference(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "fin", 1000)
	res, err := db.Exec(`
		INSERT INTO withdrawals (reseller_id, amount, method, account_number, status)
		VALUES (?, 600, 'bKash', '017', 'Pending')`, resellerID)
	require.NoError(t, err)
	withdrawalID, _ := res.LastInsertId()

	err = inTx(t, db, func(tx *sql.Tx) error {
		_, err := ledger.ProcessWithdrawal(tx, withdrawalID, models.WithdrawalApproved, "")
		return err
	})
	assert.ErrorIs(t, err, ledger.ErrTrxIDRequired)
	assert.Equal(t, 1000.0, balanceOf(t, db, resellerID))
}

func TestApproveWithdrawalOverBalanceFails(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "gus", 500)
	res, err := db.Exec(`
		INSERT INTO withdrawals (reseller_id, amount, method, account_number, status)
		VALUES (?, 600, 'bKash', '017', 'Pending')`, resellerID)
	require.NoError(t, err)
	withdrawalID, _ := res.LastInsertId()

	err = inTx(t, db, func(tx *sql.Tx) error {
		_, err := ledger.ProcessWithdrawal(tx, withdrawalID, models.WithdrawalApproved, "TRX1")
		return err
	})
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)
	assert.Equal(t, 500.0, balanceOf(t, db, resellerID))
}

func TestResolvedWithdrawalCannotBeReprocessed(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "hal", 1000)
	res, err := db.Exec(`
		INSERT INTO withdrawals (reseller_id, amount, method, account_number, status)
		VALUES (?, 600, 'bKash', '017', 'Pending')`, resellerID)
	require.NoError(t, err)
	withdrawalID, _ := res.LastInsertId()

	require.NoError(t, inTx(t, db, func(tx *sql.Tx) error {
		_, err := ledger.ProcessWithdrawal(tx, withdrawalID, models.WithdrawalApproved, "TRX1")
		return err
	}))

	for _, status := range []string{models.WithdrawalApproved, models.WithdrawalRejected} {
		err = inTx(t, db, func(tx *sql.Tx) error {
			_, err := ledger.ProcessWithdrawal(tx, withdrawalID, status, "TRX2")
			return err
		})
		assert.ErrorIs(t, err, ledger.ErrWithdrawalProcessed)
	}
	// The first debit stands, nothing was double-applied.
	assert.Equal(t, 400.0, balanceOf(t, db, resellerID))
}

func TestRejectWithdrawalKeepsBalance(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "ivy", 1000)
	res, err := db.Exec(`
		INSERT INTO withdrawals (reseller_id, amount, method, account_number, status)
		VALUES (?, 600, 'bKash', '017', 'Pending')`, resellerID)
	require.NoError(t, err)
	withdrawalID, _ := res.LastInsertId()

	require.NoError(t, inTx(t, db, func(tx *sql.Tx) error {
		_, err := ledger.ProcessWithdrawal(tx, withdrawalID, models.WithdrawalRejected, "")
		return err
	}))
	assert.Equal(t, 1000.0, balanceOf(t, db, resellerID))
}

func placeOrder(t *testing.T, db *sql.DB, resellerID int64, in ledger.PlaceOrderInput) (int64, error) {
	var orderID int64
	err := inTx(t, db, func(tx *sql.Tx) error {
		var err error
		orderID, err = ledger.PlaceOrder(tx, resellerID, in)
		return err
	})
	return orderID, err
}

func stockOf(t *testing.T, db *sql.DB, productID int64) int {
	t.Helper()
	var stock int
	require.NoError(t, db.QueryRow("SELECT stock FROM products WHERE id = ?", productID).Scan(&stock))
	return stock
}

func TestPlaceOrderComputesProfitAndTakesStock(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "jon", 0)
	productID := createProduct(t, db, 1000, 5)
	setSetting(t, db, "delivery_charge_cod_outside", "150")

	orderID, err := placeOrder(t, db, resellerID, ledger.PlaceOrderInput{
		ProductID:       productID,
		ResellerPrice:   1200,
		CustomerName:    "C",
		CustomerPhone:   "017",
		CustomerAddress: "Bogura",
		PaymentMethod:   "cod",
		Location:        "outside",
	})
	require.NoError(t, err)

	var profit, deliveryCharge float64
	var status string
	require.NoError(t, db.QueryRow(
		"SELECT profit, delivery_charge, status FROM orders WHERE id = ?", orderID).
		Scan(&profit, &deliveryCharge, &status))
	assert.Equal(t, 200.0, profit)
	assert.Equal(t, 150.0, deliveryCharge)
	assert.Equal(t, models.OrderPending, status)
	assert.Equal(t, 4, stockOf(t, db, productID))
}

func TestPlaceOrderBelowFloorLeavesStockUnchanged(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "kim", 0)
	productID := createProduct(t, db, 1000, 5)

	_, err := placeOrder(t, db, resellerID, ledger.PlaceOrderInput{
		ProductID:       productID,
		ResellerPrice:   900,
		CustomerName:    "C",
		CustomerPhone:   "017",
		CustomerAddress: "Dhaka",
	})
	assert.ErrorIs(t, err, ledger.ErrPriceBelowFloor)
	assert.Equal(t, 5, stockOf(t, db, productID))
}

func TestPlaceOrderOutOfStock(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "lu", 0)
	productID := createProduct(t, db, 1000, 0)

	_, err := placeOrder(t, db, resellerID, ledger.PlaceOrderInput{
		ProductID:       productID,
		ResellerPrice:   1200,
		CustomerName:    "C",
		CustomerPhone:   "017",
		CustomerAddress: "Dhaka",
	})
	assert.ErrorIs(t, err, ledger.ErrOutOfStock)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "mia", 0)

	_, err := placeOrder(t, db, resellerID, ledger.PlaceOrderInput{
		ProductID:       424242,
		ResellerPrice:   1200,
		CustomerName:    "C",
		CustomerPhone:   "017",
		CustomerAddress: "Dhaka",
	})
	assert.ErrorIs(t, err, ledger.ErrProductNotFound)
}

func TestPlaceOrderMissingTierDefaultsToZeroCharge(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "ned", 0)
	productID := createProduct(t, db, 1000, 5)

	orderID, err := placeOrder(t, db, resellerID, ledger.PlaceOrderInput{
		ProductID:       productID,
		ResellerPrice:   1100,
		CustomerName:    "C",
		CustomerPhone:   "017",
		CustomerAddress: "Dhaka",
		PaymentMethod:   "advance",
		Location:        "inside",
	})
	require.NoError(t, err)

	var deliveryCharge float64
	require.NoError(t, db.QueryRow(
		"SELECT delivery_charge FROM orders WHERE id = ?", orderID).Scan(&deliveryCharge))
	assert.Equal(t, 0.0, deliveryCharge)
}

func requestWithdrawal(t *testing.T, db *sql.DB, resellerID int64, amount float64) error {
	return inTx(t, db, func(tx *sql.Tx) error {
		_, err := ledger.RequestWithdrawal(tx, resellerID, amount, "bKash", "017")
		return err
	})
}

func TestRequestWithdrawalMinimum(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "oli", 1000)

	err := requestWithdrawal(t, db, resellerID, 499)
	assert.ErrorIs(t, err, ledger.ErrAmountBelowMinimum)
	require.NoError(t, requestWithdrawal(t, db, resellerID, 500))
}

func TestPendingWithdrawalsHoldAvailableBalance(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "pam", 1000)

	// 1000 of balance: two 500s fit, a third must not.
	require.NoError(t, requestWithdrawal(t, db, resellerID, 500))
	require.NoError(t, requestWithdrawal(t, db, resellerID, 500))
	err := requestWithdrawal(t, db, resellerID, 500)
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	// The holds never touched the ledger balance itself.
	assert.Equal(t, 1000.0, balanceOf(t, db, resellerID))
}

func TestResolvedWithdrawalsReleaseTheHold(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "quin", 1000)

	require.NoError(t, requestWithdrawal(t, db, resellerID, 500))

	var withdrawalID int64
	require.NoError(t, db.QueryRow(
		"SELECT id FROM withdrawals WHERE reseller_id = ?", resellerID).Scan(&withdrawalID))
	require.NoError(t, inTx(t, db, func(tx *sql.Tx) error {
		_, err := ledger.ProcessWithdrawal(tx, withdrawalID, models.WithdrawalRejected, "")
		return err
	}))

	// The rejected request no longer counts against available balance.
	require.NoError(t, requestWithdrawal(t, db, resellerID, 1000))
}

func TestStatementRowsMatchBalanceDeltas(t *testing.T) {
	db := newTestDB(t)
	resellerID := createReseller(t, db, "rex", 0)
	productID := createProduct(t, db, 1000, 5)
	orderID := createOrder(t, db, resellerID, productID, 1000, 1400)

	require.NoError(t, transition(t, db, orderID, models.OrderDelivered))
	require.NoError(t, transition(t, db, orderID, models.OrderCancelled))

	var total sql.NullFloat64
	require.NoError(t, db.QueryRow(
		"SELECT SUM(amount) FROM transactions WHERE reseller_id = ?", resellerID).Scan(&total))
	assert.Equal(t, balanceOf(t, db, resellerID), total.Float64)
}
