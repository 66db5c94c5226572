package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/apperr"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/chat"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/learning"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

const (
	genericChatError     = "An unexpected error occurred. Please try again."
	genericFeedbackError = "Failed to process feedback"
)

type feedbackRequest struct {
	MessageID      string `json:"messageId"`
	ConversationID string `json:"conversationId"`
	FeedbackType   string `json:"feedbackType"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment,omitempty"`
	UserID         string `json:"userId,omitempty"`
}

type feedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type conversationsResponse struct {
	Conversations []types.Conversation `json:"conversations"`
}

type messagesResponse struct {
	Messages []types.Message `json:"messages"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chat.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body"})
	}

	resp, err := s.chat.Reply(c.Request().Context(), req)
	if err != nil {
		return s.fail(c, err, genericChatError, "chat request failed")
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleFeedback(c echo.Context) error {
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body"})
	}

	result, err := s.feedback.ProcessFeedback(c.Request().Context(), learning.FeedbackInput{
		MessageID:      req.MessageID,
		ConversationID: req.ConversationID,
		FeedbackType:   req.FeedbackType,
		Rating:         req.Rating,
		Comment:        req.Comment,
		UserID:         req.UserID,
	})
	if err != nil {
		return s.fail(c, err, genericFeedbackError, "feedback request failed")
	}
	s.metrics.RecordFeedback(req.FeedbackType)
	return c.JSON(http.StatusOK, feedbackResponse{Success: result.Success, Message: result.Message})
}

func (s *Server) handleListConversations(c echo.Context) error {
	convs, err := s.chat.Conversations(c.Request().Context(), strings.TrimSpace(c.QueryParam("userId")))
	if err != nil {
		return s.fail(c, err, genericChatError, "list conversations failed")
	}
	if convs == nil {
		convs = []types.Conversation{}
	}
	return c.JSON(http.StatusOK, conversationsResponse{Conversations: convs})
}

func (s *Server) handleListMessages(c echo.Context) error {
	msgs, err := s.chat.Messages(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err, genericChatError, "list messages failed")
	}
	if msgs == nil {
		msgs = []types.Message{}
	}
	return c.JSON(http.StatusOK, messagesResponse{Messages: msgs})
}

func (s *Server) handleDeleteConversation(c echo.Context) error {
	if err := s.chat.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return s.fail(c, err, genericChatError, "delete conversation failed")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleHealth(c echo.Context) error {
	if s.health != nil {
		if err := s.health.Ping(c.Request().Context()); err != nil {
			s.logError(c, "health check failed", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// fail maps err to a status code. Server-side failures are logged and answered with fallback.
func (s *Server) fail(c echo.Context, err error, fallback, logMsg string) error {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logError(c, logMsg, err)
	}
	return c.JSON(status, errorBody{Error: apperr.PublicMessage(err, fallback)})
}

func (s *Server) logError(c echo.Context, msg string, err error) {
	slog.Error(msg,
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"kind", apperr.KindOf(err),
		"error", err,
	)
}
