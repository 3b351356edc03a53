package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sitterly_app_echo/internal/models"
)

type MessageHandler struct {
	db *gorm.DB
}

func NewMessageHandler(db *gorm.DB) *MessageHandler {
	return &MessageHandler{db: db}
}

// SendMessage stores a chat message to another user
func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req struct {
		RecipientID uint   `json:"recipient_id"`
		Body        string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.Body == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Message body is required")
	}

	senderID := getUintFromContext(c, "userID")
	if req.RecipientID == senderID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot message yourself")
	}

	var recipient models.User
	if err := h.db.First(&recipient, req.RecipientID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Recipient not found")
	}

	message := models.Message{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
	}
	if err := h.db.Create(&message).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send message")
	}

	return c.JSON(http.StatusCreated, message)
}

// Thread returns the conversation with one user, oldest first, and marks the
// incoming half as read.
func (h *MessageHandler) Thread(c echo.Context) error {
	otherID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	userID := getUintFromContext(c, "userID")

	var messages []models.Message
	if err := h.db.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at asc").
		Find(&messages).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch messages")
	}

	now := time.Now()
	h.db.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND read_at IS NULL", otherID, userID).
		Update("read_at", &now)

	return c.JSON(http.StatusOK, messages)
}

// conversationSummary is one row of the inbox listing
type conversationSummary struct {
	UserID      uint      `json:"user_id"`
	Name        string    `json:"name"`
	LastBody    string    `json:"last_body"`
	LastAt      time.Time `json:"last_at"`
	UnreadCount int       `json:"unread_count"`
}

// Conversations lists the viewer's chat partners with their latest message
func (h *MessageHandler) Conversations(c echo.Context) error {
	userID := getUintFromContext(c, "userID")

	var messages []models.Message
	if err := h.db.Preload("Sender").Preload("Recipient").
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at desc").
		Find(&messages).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch conversations")
	}

	byUser := make(map[uint]*conversationSummary)
	order := []uint{}
	for _, m := range messages {
		other := m.Sender
		otherID := m.SenderID
		if m.SenderID == userID {
			other = m.Recipient
			otherID = m.RecipientID
		}

		summary, exists := byUser[otherID]
		if !exists {
			summary = &conversationSummary{
				UserID:   otherID,
				Name:     other.Name,
				LastBody: m.Body,
				LastAt:   m.CreatedAt,
			}
			byUser[otherID] = summary
			order = append(order, otherID)
		}
		if m.RecipientID == userID && m.ReadAt == nil {
			summary.UnreadCount++
		}
	}

	out := make([]conversationSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byUser[id])
	}

	return c.JSON(http.StatusOK, out)
}
