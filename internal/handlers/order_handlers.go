package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/01moynul/resellerhub-golang/internal/ledger"
	"github.com/01moynul/resellerhub-golang/internal/models"
	"github.com/01moynul/resellerhub-golang/internal/realtime"
	"github.com/gin-gonic/gin"
)

const orderColumns = `
	o.id, o.reseller_id, o.product_id, o.admin_price, o.reseller_price, o.profit,
	o.customer_name, o.customer_phone, o.customer_address,
	o.status, o.payment_method, o.location, o.delivery_charge,
	o.payment_status, o.payment_trx_method, o.payment_phone, o.payment_trx_id, o.payment_payer_name,
	o.created_at`

func scanOrder(row interface{ Scan(...interface{}) error }, o *models.Order, extra ...interface{}) error {
	dest := []interface{}{
		&o.ID, &o.ResellerID, &o.ProductID, &o.AdminPrice, &o.ResellerPrice, &o.Profit,
		&o.CustomerName, &o.CustomerPhone, &o.CustomerAddress,
		&o.Status, &o.PaymentMethod, &o.Location, &o.DeliveryCharge,
		&o.PaymentStatus, &o.PaymentTrxMethod, &o.PaymentPhone, &o.PaymentTrxID, &o.PaymentPayerName,
		&o.CreatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

//
// --- Admin: Order Handlers ---
//

// GetAllOrders is the handler for GET /api/admin/orders.
func (h *Handlers) GetAllOrders(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT ` + orderColumns + `, p.name, r.name
		FROM orders o
		JOIN products p ON o.product_id = p.id
		JOIN resellers r ON o.reseller_id = r.id
		ORDER BY o.id DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o, &o.ProductName, &o.ResellerName); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order"})
			return
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// OrderStatusInput defines the JSON for PUT /api/admin/orders/:id/status.
type OrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus is the handler for PUT /api/admin/orders/:id/status.
// The status write and any profit/referral settlement commit atomically.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var input OrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	change, err := ledger.TransitionOrderStatus(tx, orderID, input.Status)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	rooms := []string{realtime.AdminRoom, realtime.ResellerRoom(change.ResellerID)}
	h.Hub.Emit("orders", rooms...)
	if change.MoneyMoved {
		h.Hub.Emit("balance", rooms...)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

//
// --- Reseller: Order Handlers ---
//

// PlaceOrder is the handler for POST /api/reseller/orders.
func (h *Handlers) PlaceOrder(c *gin.Context) {
	resellerID := currentUserID(c)

	var input ledger.PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	orderID, err := ledger.PlaceOrder(tx, resellerID, input)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	h.Hub.Emit("orders", realtime.AdminRoom)
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": orderID})
}

// GetMyOrders is the handler for GET /api/reseller/orders.
func (h *Handlers) GetMyOrders(c *gin.Context) {
	resellerID := currentUserID(c)

	rows, err := h.DB.Query(`
		SELECT `+orderColumns+`, p.name
		FROM orders o
		JOIN products p ON o.product_id = p.id
		WHERE o.reseller_id = ?
		ORDER BY o.id DESC`, resellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o, &o.ProductName); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order"})
			return
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetMyOrder is the handler for GET /api/reseller/orders/:id.
// A reseller can only see their own orders; anything else is a 404.
func (h *Handlers) GetMyOrder(c *gin.Context) {
	resellerID := currentUserID(c)
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var o models.Order
	row := h.DB.QueryRow(`
		SELECT `+orderColumns+`, p.name
		FROM orders o
		JOIN products p ON o.product_id = p.id
		WHERE o.id = ? AND o.reseller_id = ?`, orderID, resellerID)
	if err := scanOrder(row, &o, &o.ProductName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	c.JSON(http.StatusOK, o)
}

// OrderPaymentInput defines the JSON for the advance-payment form.
type OrderPaymentInput struct {
	Method    string `json:"method" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	TrxID     string `json:"trx_id" binding:"required"`
	PayerName string `json:"payer_name" binding:"required"`
}

// SubmitOrderPayment is the handler for POST /api/reseller/orders/:id/payment.
// It records the mobile-money reference for an advance-payment order.
func (h *Handlers) SubmitOrderPayment(c *gin.Context) {
	resellerID := currentUserID(c)
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var input OrderPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec(`
		UPDATE orders
		SET payment_status = 'Submitted',
		    payment_trx_method = ?, payment_phone = ?, payment_trx_id = ?, payment_payer_name = ?
		WHERE id = ? AND reseller_id = ?`,
		input.Method, input.Phone, input.TrxID, input.PayerName, orderID, resellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	h.Hub.Emit("orders", realtime.AdminRoom)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
