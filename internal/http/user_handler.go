package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"venture-desk/internal/auth"
	"venture-desk/internal/service"
)

// UserHandler mantiene dependencias para endpoints de usuarios y sentimientos.
type UserHandler struct {
	logger   *zap.Logger
	verifier auth.Verifier
	userServ *service.UserService
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, verifier auth.Verifier, userServ *service.UserService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		verifier: verifier,
		userServ: userServ,
	}
}

// VerifyToken maneja POST /verify_token.
func (h *UserHandler) VerifyToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid verify token request", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid request"})
		return
	}

	identity, err := h.verifier.Verify(c.Request.Context(), req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	user, err := h.userServ.GetProfile(c.Request.Context(), identity.Subject)
	if err != nil {
		if errors.Is(err, service.ErrUserNotRegistered) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not fully registered"})
			return
		}
		h.logger.Error("load user failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User verified", "user": user})
}

// Onboard maneja POST /onboarding.
func (h *UserHandler) Onboard(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid onboarding request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.Onboard(c.Request.Context(), payload)
	if err != nil {
		h.logger.Error("onboarding failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User verified", "user": user})
}

// GetAttribute maneja GET /api/:attribute/:uid.
func (h *UserHandler) GetAttribute(c *gin.Context) {
	attribute := c.Param("attribute")
	uid := c.Param("uid")

	value, err := h.userServ.GetAttribute(c.Request.Context(), uid, attribute)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotRegistered):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not fully registered"})
		case errors.Is(err, service.ErrAttributeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			h.logger.Error("get attribute failed", zap.String("attribute", attribute), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, value)
}

// UpdateAttribute maneja POST /api/:attribute/:uid.
func (h *UserHandler) UpdateAttribute(c *gin.Context) {
	attribute := c.Param("attribute")
	uid := c.Param("uid")

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid attribute update", zap.String("attribute", attribute), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error updating %s", attribute)})
		return
	}

	if err := h.userServ.ReplaceAttribute(c.Request.Context(), uid, attribute, payload); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotRegistered):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not fully registered"})
		case errors.Is(err, service.ErrAttributeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("User's %s not found", attribute)})
		default:
			h.logger.Error("update attribute failed", zap.String("attribute", attribute), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error updating %s", attribute)})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s updated successfully", attribute)})
}

// GetSentiments maneja GET /get_sentiments/:uid.
func (h *UserHandler) GetSentiments(c *gin.Context) {
	uid := c.Param("uid")

	doc, err := h.userServ.GetSentiments(c.Request.Context(), uid)
	if err != nil {
		// Cualquier falla aqui responde 401, sin distinguir la causa.
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"news": doc})
}
