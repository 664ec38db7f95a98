package handlers

import (
	"database/sql"
	"net/http"

	"github.com/01moynul/resellerhub-golang/internal/ledger"
	"github.com/01moynul/resellerhub-golang/internal/models"
	"github.com/gin-gonic/gin"
)

func nullSum(q ledger.Querier, query string, args ...interface{}) (float64, error) {
	var total sql.NullFloat64
	if err := q.QueryRow(query, args...).Scan(&total); err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return total.Float64, nil
}

// GetAdminDashboard is the handler for GET /api/admin/dashboard.
func (h *Handlers) GetAdminDashboard(c *gin.Context) {
	totalSales, err := nullSum(h.DB, "SELECT SUM(admin_price) FROM orders WHERE status = ?", models.OrderDelivered)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	totalProfit, err := nullSum(h.DB, "SELECT SUM(profit) FROM orders WHERE status = ?", models.OrderDelivered)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	var totalResellers, pendingWithdrawals int
	if err := h.DB.QueryRow("SELECT count(*) FROM resellers").Scan(&totalResellers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	if err := h.DB.QueryRow("SELECT count(*) FROM withdrawals WHERE status = ?", models.WithdrawalPending).Scan(&pendingWithdrawals); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalSales":         totalSales,
		"totalProfit":        totalProfit,
		"totalResellers":     totalResellers,
		"pendingWithdrawals": pendingWithdrawals,
	})
}

// GetResellers is the handler for GET /api/admin/resellers.
func (h *Handlers) GetResellers(c *gin.Context) {
	rows, err := h.DB.Query("SELECT id, name, email, balance FROM resellers ORDER BY id DESC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	resellers := []models.Reseller{}
	for rows.Next() {
		var r models.Reseller
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.Balance); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan reseller"})
			return
		}
		resellers = append(resellers, r)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, resellers)
}

// GetResellerDashboard is the handler for GET /api/reseller/dashboard.
func (h *Handlers) GetResellerDashboard(c *gin.Context) {
	resellerID := currentUserID(c)

	totalSales, err := nullSum(h.DB,
		"SELECT SUM(reseller_price) FROM orders WHERE reseller_id = ? AND status = ?",
		resellerID, models.OrderDelivered)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	totalProfit, err := nullSum(h.DB,
		"SELECT SUM(profit) FROM orders WHERE reseller_id = ? AND status = ?",
		resellerID, models.OrderDelivered)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	balance, err := ledger.GetBalance(h.DB, resellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalSales":  totalSales,
		"totalProfit": totalProfit,
		"balance":     balance,
	})
}

// GetMyTransactions is the handler for GET /api/reseller/transactions.
// The signed statement rows behind the reseller's balance.
func (h *Handlers) GetMyTransactions(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, reseller_id, transaction_id, type, amount, description, created_at
		FROM transactions
		WHERE reseller_id = ?
		ORDER BY id DESC`, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.ResellerID, &t.TransactionID, &t.Type, &t.Amount, &t.Description, &t.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan transaction"})
			return
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// GetAffiliateSummary is the handler for GET /api/reseller/affiliate.
func (h *Handlers) GetAffiliateSummary(c *gin.Context) {
	resellerID := currentUserID(c)

	var code sql.NullString
	if err := h.DB.QueryRow("SELECT referral_code FROM resellers WHERE id = ?", resellerID).Scan(&code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	// Accounts created before the affiliate program have no code yet;
	// mint one on first visit.
	if !code.Valid || code.String == "" {
		fresh, err := ledger.UniqueReferralCode(h.DB)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate referral code"})
			return
		}
		if _, err := h.DB.Exec("UPDATE resellers SET referral_code = ? WHERE id = ?", fresh, resellerID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save referral code"})
			return
		}
		code = sql.NullString{String: fresh, Valid: true}
	}

	totalEarnings, err := nullSum(h.DB,
		"SELECT SUM(amount) FROM referral_earnings WHERE referrer_id = ?", resellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	rows, err := h.DB.Query("SELECT id, name, email FROM resellers WHERE referred_by = ? ORDER BY id DESC", resellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	referred := []gin.H{}
	for rows.Next() {
		var (
			id          int64
			name, email string
		)
		if err := rows.Scan(&id, &name, &email); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan reseller"})
			return
		}
		referred = append(referred, gin.H{"id": id, "name": name, "email": email})
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referral_code":  code.String,
		"total_earnings": totalEarnings,
		"referred_users": referred,
	})
}
