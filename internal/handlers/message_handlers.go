package handlers

import (
	"net/http"
	"strconv"

	"github.com/01moynul/resellerhub-golang/internal/models"
	"github.com/01moynul/resellerhub-golang/internal/realtime"
	"github.com/gin-gonic/gin"
)

// MessageInput defines the JSON for sending a message (either direction).
type MessageInput struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handlers) queryMessages(resellerID int64) ([]models.Message, error) {
	rows, err := h.DB.Query(`
		SELECT id, reseller_id, sender, content, is_read, created_at
		FROM messages
		WHERE reseller_id = ?
		ORDER BY id ASC`, resellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ResellerID, &m.Sender, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

//
// --- Admin: Message Handlers ---
//

// GetConversations is the handler for GET /api/admin/messages/conversations.
// One summary row per reseller that has a conversation going.
func (h *Handlers) GetConversations(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT m.reseller_id, r.name,
		       (SELECT content FROM messages WHERE reseller_id = m.reseller_id ORDER BY id DESC LIMIT 1),
		       MAX(m.created_at),
		       SUM(CASE WHEN m.sender = 'reseller' AND m.is_read = 0 THEN 1 ELSE 0 END)
		FROM messages m
		JOIN resellers r ON m.reseller_id = r.id
		GROUP BY m.reseller_id, r.name
		ORDER BY MAX(m.id) DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	conversations := []models.Conversation{}
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ResellerID, &conv.ResellerName, &conv.LastMessage, &conv.LastAt, &conv.UnreadCount); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan conversation"})
			return
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, conversations)
}

// GetConversation is the handler for GET /api/admin/messages/:resellerID.
func (h *Handlers) GetConversation(c *gin.Context) {
	resellerID, err := strconv.ParseInt(c.Param("resellerID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reseller id"})
		return
	}

	messages, err := h.queryMessages(resellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// SendAdminMessage is the handler for POST /api/admin/messages/:resellerID.
func (h *Handlers) SendAdminMessage(c *gin.Context) {
	resellerID, err := strconv.ParseInt(c.Param("resellerID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reseller id"})
		return
	}

	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var exists int
	if err := h.DB.QueryRow("SELECT count(*) FROM resellers WHERE id = ?", resellerID).Scan(&exists); err != nil || exists == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reseller not found"})
		return
	}

	if _, err := h.DB.Exec(`
		INSERT INTO messages (reseller_id, sender, content) VALUES (?, ?, ?)`,
		resellerID, models.SenderAdmin, input.Content); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	h.Hub.Emit("messages", realtime.ResellerRoom(resellerID))
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// MarkConversationRead is the handler for PUT /api/admin/messages/:resellerID/read.
// It marks the reseller's messages as read by the admin.
func (h *Handlers) MarkConversationRead(c *gin.Context) {
	resellerID, err := strconv.ParseInt(c.Param("resellerID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reseller id"})
		return
	}

	if _, err := h.DB.Exec(`
		UPDATE messages SET is_read = 1
		WHERE reseller_id = ? AND sender = ?`,
		resellerID, models.SenderReseller); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

//
// --- Reseller: Message Handlers ---
//

// GetMyMessages is the handler for GET /api/reseller/messages.
func (h *Handlers) GetMyMessages(c *gin.Context) {
	messages, err := h.queryMessages(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// SendResellerMessage is the handler for POST /api/reseller/messages.
func (h *Handlers) SendResellerMessage(c *gin.Context) {
	resellerID := currentUserID(c)

	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.DB.Exec(`
		INSERT INTO messages (reseller_id, sender, content) VALUES (?, ?, ?)`,
		resellerID, models.SenderReseller, input.Content); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	h.Hub.Emit("messages", realtime.AdminRoom)
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// MarkMyMessagesRead is the handler for PUT /api/reseller/messages/read.
// It marks the admin's messages to this reseller as read.
func (h *Handlers) MarkMyMessagesRead(c *gin.Context) {
	if _, err := h.DB.Exec(`
		UPDATE messages SET is_read = 1
		WHERE reseller_id = ? AND sender = ?`,
		currentUserID(c), models.SenderAdmin); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
