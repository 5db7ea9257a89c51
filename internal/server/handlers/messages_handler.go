package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/cocopets/boarding/internal/auth"
	"github.com/cocopets/boarding/internal/repository/mongodb"
	notificationsvc "github.com/cocopets/boarding/internal/service/notification"
)

// MessagesHandler handles notifications and customer/staff chat.
type MessagesHandler struct {
	svc    *notificationsvc.Service
	users  *mongodb.UserRepo
	logger *zap.Logger
}

// NewMessagesHandler constructs the messages HTTP adapter.
func NewMessagesHandler(svc *notificationsvc.Service, users *mongodb.UserRepo, logger *zap.Logger) *MessagesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessagesHandler{svc: svc, users: users, logger: logger}
}

// Notifications returns the caller's notifications.
func (h *MessagesHandler) Notifications(c *gin.Context) {
	notifications, err := h.svc.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationsRead flags every notification of the caller as read.
func (h *MessagesHandler) MarkNotificationsRead(c *gin.Context) {
	if err := h.svc.MarkRead(c.Request.Context(), auth.UserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type sendMessageRequest struct {
	Body     string `json:"body" binding:"required"`
	ThreadID string `json:"threadId"`
}

// Send posts a chat message. Customers always write into their own thread;
// staff address a customer thread via threadId.
func (h *MessagesHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body is required")
		return
	}

	sender, err := h.users.FindByID(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var threadID primitive.ObjectID
	if req.ThreadID != "" {
		threadID, err = primitive.ObjectIDFromHex(req.ThreadID)
		if err != nil {
			badRequest(c, "threadId is not a valid id")
			return
		}
	}

	msg, err := h.svc.SendMessage(c.Request.Context(), sender, threadID, req.Body)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// Thread returns one conversation. Customers see their own thread; staff pass
// the customer id as the thread query parameter.
func (h *MessagesHandler) Thread(c *gin.Context) {
	caller, err := h.users.FindByID(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var threadID primitive.ObjectID
	if raw := c.Query("thread"); raw != "" {
		threadID, err = primitive.ObjectIDFromHex(raw)
		if err != nil {
			badRequest(c, "thread is not a valid id")
			return
		}
	}

	messages, err := h.svc.Thread(c.Request.Context(), caller, threadID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
