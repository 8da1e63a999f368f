package v1

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v5"
)

// maxMessageLength bounds a single user message.
const maxMessageLength = 2000

// contextTokenBudget is the approximate token budget for the retrieved
// context block embedded in the system prompt.
const contextTokenBudget = 1000

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Message   string         `json:"message"`
	SessionID string         `json:"session_id"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata"`
}

func (s *APIV1Service) handleChat(c *echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message required")
	}
	if len(req.Message) > maxMessageLength {
		return echo.NewHTTPError(http.StatusBadRequest, "message exceeds maximum length")
	}

	// Admission control: the store only reports the count, the decision
	// lives here.
	if active := s.Sessions.ActiveSessionCount(); active >= s.Profile.MaxConcurrentSessions {
		slog.Warn("maximum concurrent sessions reached", "active", active)
		return echo.NewHTTPError(http.StatusTooManyRequests,
			"Maximum number of concurrent sessions reached. Please try again later.")
	}

	ctx := c.Request().Context()

	sessionID := s.Sessions.CreateSession(req.SessionID)

	// History is read before the current message is appended; the
	// generation call receives the current message separately.
	history := s.Sessions.ConversationHistory(sessionID)
	s.Sessions.AddUserMessage(sessionID, req.Message)

	var ragContext string
	if s.VectorStore != nil {
		var err error
		ragContext, err = s.VectorStore.Context(ctx, req.Message, contextTokenBudget)
		if err != nil {
			// Retrieval is best-effort: answer without context.
			slog.Warn("retrieval failed, continuing without context", "err", err)
			ragContext = ""
		}
	}

	reply, err := s.Chatter.GenerateReply(ctx, history, req.Message, ragContext)
	if err != nil {
		// The user message stays recorded; the assistant message is
		// only written after a successful response.
		slog.Error("chat generation failed", "session", sessionID, "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError,
			"An error occurred while processing your request. Please try again.")
	}

	s.Sessions.AddAssistantMessage(sessionID, reply.Message)
	slog.Info("chat response generated", "session", sessionID)

	return c.JSON(http.StatusOK, chatResponse{
		Message:   reply.Message,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Metadata:  reply.Metadata,
	})
}
