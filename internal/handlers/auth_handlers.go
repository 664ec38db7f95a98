package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/01moynul/resellerhub-golang/internal/auth"
	"github.com/01moynul/resellerhub-golang/internal/ledger"
	"github.com/01moynul/resellerhub-golang/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/mattn/go-sqlite3"
)

// LoginInput defines the JSON for POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin reseller"`
}

// setTokenCookie drops the signed token into the HTTP-only session cookie.
func setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	// secure=false: TLS termination happens in front of us in production.
	c.SetCookie(auth.CookieName, token, 24*60*60, "/", "", false, true)
}

// Login is the handler for POST /api/auth/login.
// One endpoint serves both roles; the requested role picks the table.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	var (
		id           int64
		name         string
		passwordHash string
	)
	table := "admins"
	if input.Role == auth.RoleReseller {
		table = "resellers"
	}
	err := h.DB.QueryRow("SELECT id, name, password FROM "+table+" WHERE email = ?", input.Email).
		Scan(&id, &name, &passwordHash)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	pw := models.Password{Hash: passwordHash}
	match, merr := pw.Matches(input.Password)
	if errors.Is(err, sql.ErrNoRows) || merr != nil || !match {
		// Same message for unknown email and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(id, input.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	setTokenCookie(c, token)

	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":    id,
		"name":  name,
		"email": input.Email,
		"role":  input.Role,
	}})
}

// RegisterInput defines the JSON for POST /api/auth/register.
// Registration creates resellers only; the admin account is seeded.
type RegisterInput struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	ReferralCode string `json:"referral_code"`
}

// Register is the handler for POST /api/auth/register.
// The account insert, the referral link and any fixed signup bonus commit
// in one transaction.
func (h *Handlers) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var pw models.Password
	if err := pw.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	code, err := ledger.UniqueReferralCode(tx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate referral code"})
		return
	}

	result, err := tx.Exec(`
		INSERT INTO resellers (name, email, password, referral_code)
		VALUES (?, ?, ?, ?)`,
		input.Name, input.Email, pw.Hash, code)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}
	newID, _ := result.LastInsertId()

	if err := ledger.LinkReferral(tx, newID, strings.TrimSpace(input.ReferralCode)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply referral"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	token, err := auth.GenerateToken(newID, auth.RoleReseller)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Account created, please log in"})
		return
	}
	setTokenCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{"user": gin.H{
		"id":            newID,
		"name":          input.Name,
		"email":         input.Email,
		"role":          auth.RoleReseller,
		"referral_code": code,
	}})
}

// Logout is the handler for POST /api/auth/logout.
func (h *Handlers) Logout(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me is the handler for GET /api/auth/me.
// It re-reads the user row so a stale cookie for a deleted account fails.
func (h *Handlers) Me(c *gin.Context) {
	userID := currentUserID(c)
	role, _ := c.Get("userRole")

	if role == auth.RoleAdmin {
		var a models.Admin
		err := h.DB.QueryRow("SELECT id, name, email FROM admins WHERE id = ?", userID).
			Scan(&a.ID, &a.Name, &a.Email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": gin.H{
			"id": a.ID, "name": a.Name, "email": a.Email, "role": auth.RoleAdmin,
		}})
		return
	}

	var r models.Reseller
	err := h.DB.QueryRow("SELECT id, name, email, balance FROM resellers WHERE id = ?", userID).
		Scan(&r.ID, &r.Name, &r.Email, &r.Balance)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id": r.ID, "name": r.Name, "email": r.Email, "balance": r.Balance, "role": auth.RoleReseller,
	}})
}
