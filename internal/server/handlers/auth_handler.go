package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/cocopets/boarding/internal/auth"
	"github.com/cocopets/boarding/internal/domain/models"
	"github.com/cocopets/boarding/internal/repository/mongodb"
)

// AuthHandler handles account registration and token issuance.
type AuthHandler struct {
	users  *mongodb.UserRepo
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthHandler constructs the auth HTTP adapter.
func NewAuthHandler(users *mongodb.UserRepo, tokens *auth.TokenManager, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{users: users, tokens: tokens, logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

// Register creates a customer account and returns a token pair.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email, password (8+ chars) and name are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user, err := h.users.Create(c.Request.Context(), models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         models.RoleCustomer,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("account registered", zap.String("email", user.Email))
	h.respondWithTokens(c, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// Same response for unknown email and wrong password.
		writeError(c, http.StatusUnauthorized, "AUTHORIZATION_ERROR", "invalid credentials")
		return
	}

	h.respondWithTokens(c, http.StatusOK, user)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh exchanges a refresh token for a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "refreshToken is required")
		return
	}

	claims, err := h.tokens.VerifyRefresh(req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), mustObjectID(claims.UserID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.respondWithTokens(c, http.StatusOK, user)
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.FindByID(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func mustObjectID(hex string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(hex)
	return id
}

func (h *AuthHandler) respondWithTokens(c *gin.Context, status int, user models.User) {
	access, err := h.tokens.IssueAccess(user.ID.Hex(), user.Role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	refresh, err := h.tokens.IssueRefresh(user.ID.Hex(), user.Role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(status, gin.H{
		"user":         user,
		"accessToken":  access,
		"refreshToken": refresh,
	})
}
