package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"venture-desk/internal/service"
)

// FeedbackHandler mantiene dependencias para endpoints de feedback de planes.
type FeedbackHandler struct {
	logger       *zap.Logger
	feedbackServ *service.FeedbackService
}

// NewFeedbackHandler crea una instancia de FeedbackHandler con dependencias necesarias.
func NewFeedbackHandler(logger *zap.Logger, feedbackServ *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		logger:       logger,
		feedbackServ: feedbackServ,
	}
}

// Start maneja POST /feedback/start.
func (h *FeedbackHandler) Start(c *gin.Context) {
	var req service.StartSessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid feedback start request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sessionID, reply, err := h.feedbackServ.StartSession(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingRequiredFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID and all required fields (venture_name, location, mission, what) must be provided."})
		case errors.Is(err, service.ErrUpstream):
			h.logger.Error("feedback start upstream failure", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get response from LLM."})
		default:
			h.logger.Error("feedback start failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":       sessionID,
		"message":          "Feedback session started.",
		"initial_response": reply,
	})
}

// Respond maneja POST /feedback/respond.
func (h *FeedbackHandler) Respond(c *gin.Context) {
	var req struct {
		UserID    string `json:"user_id"`
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid feedback respond request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reply, err := h.feedbackServ.Respond(c.Request.Context(), req.UserID, req.SessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingRequiredFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID, Session ID, and message are required."})
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found."})
		case errors.Is(err, service.ErrUpstream):
			h.logger.Error("feedback respond upstream failure", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get response from LLM."})
		default:
			h.logger.Error("feedback respond failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": reply})
}

// History maneja GET /feedback/history.
func (h *FeedbackHandler) History(c *gin.Context) {
	userID := c.Query("user_id")
	sessionID := c.Query("session_id")

	messages, err := h.feedbackServ.History(c.Request.Context(), userID, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrMissingRequiredFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID and Session ID are required."})
			return
		}
		h.logger.Error("feedback history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "details": err.Error()})
		return
	}

	history := make([]gin.H, 0, len(messages))
	for _, msg := range messages {
		history = append(history, gin.H{"role": msg.Role, "message": msg.Message})
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// Latest maneja GET /feedback/latest.
func (h *FeedbackHandler) Latest(c *gin.Context) {
	userID := c.Query("user_id")

	sessionID, err := h.feedbackServ.LatestSession(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingRequiredFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required."})
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No chat sessions found."})
		default:
			h.logger.Error("feedback latest failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sessionID})
}
