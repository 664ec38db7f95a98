package handlers

import (
	"net/http"
	"strconv"

	"github.com/01moynul/resellerhub-golang/internal/ledger"
	"github.com/01moynul/resellerhub-golang/internal/models"
	"github.com/01moynul/resellerhub-golang/internal/realtime"
	"github.com/gin-gonic/gin"
)

//
// --- Admin: Withdrawal Handlers ---
//

// GetAllWithdrawals is the handler for GET /api/admin/withdrawals.
func (h *Handlers) GetAllWithdrawals(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT w.id, w.reseller_id, w.amount, w.method, w.account_number,
		       w.status, w.transaction_id, w.created_at, r.name
		FROM withdrawals w
		JOIN resellers r ON w.reseller_id = r.id
		ORDER BY w.id DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	withdrawals := []models.Withdrawal{}
	for rows.Next() {
		var w models.Withdrawal
		if err := rows.Scan(&w.ID, &w.ResellerID, &w.Amount, &w.Method, &w.AccountNumber,
			&w.Status, &w.TransactionID, &w.CreatedAt, &w.ResellerName); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan withdrawal"})
			return
		}
		withdrawals = append(withdrawals, w)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, withdrawals)
}

// WithdrawalStatusInput defines the JSON for PUT /api/admin/withdrawals/:id/status.
type WithdrawalStatusInput struct {
	Status        string `json:"status" binding:"required,oneof=Approved Rejected"`
	TransactionID string `json:"transaction_id"`
}

// UpdateWithdrawalStatus is the handler for PUT /api/admin/withdrawals/:id/status.
func (h *Handlers) UpdateWithdrawalStatus(c *gin.Context) {
	withdrawalID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid withdrawal id"})
		return
	}

	var input WithdrawalStatusInput
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

	w, err := ledger.ProcessWithdrawal(tx, withdrawalID, input.Status, input.TransactionID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	rooms := []string{realtime.AdminRoom, realtime.ResellerRoom(w.ResellerID)}
	h.Hub.Emit("withdrawals", rooms...)
	if w.Status == models.WithdrawalApproved {
		h.Hub.Emit("balance", rooms...)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

//
// --- Reseller: Withdrawal Handlers ---
//

// GetMyWithdrawals is the handler for GET /api/reseller/withdrawals.
func (h *Handlers) GetMyWithdrawals(c *gin.Context) {
	resellerID := currentUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, reseller_id, amount, method, account_number, status, transaction_id, created_at
		FROM withdrawals
		WHERE reseller_id = ?
		ORDER BY id DESC`, resellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	withdrawals := []models.Withdrawal{}
	for rows.Next() {
		var w models.Withdrawal
		if err := rows.Scan(&w.ID, &w.ResellerID, &w.Amount, &w.Method, &w.AccountNumber,
			&w.Status, &w.TransactionID, &w.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan withdrawal"})
			return
		}
		withdrawals = append(withdrawals, w)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, withdrawals)
}

// WithdrawalRequestInput defines the JSON for POST /api/reseller/withdrawals.
type WithdrawalRequestInput struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Method        string  `json:"method" binding:"required"`
	AccountNumber string  `json:"account_number" binding:"required"`
}

// RequestWithdrawal is the handler for POST /api/reseller/withdrawals.
func (h *Handlers) RequestWithdrawal(c *gin.Context) {
	resellerID := currentUserID(c)

	var input WithdrawalRequestInput
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

	id, err := ledger.RequestWithdrawal(tx, resellerID, input.Amount, input.Method, input.AccountNumber)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	h.Hub.Emit("withdrawals", realtime.AdminRoom)
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id})
}
