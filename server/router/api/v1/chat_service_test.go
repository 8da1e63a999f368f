package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcorat/araliya-bot/plugin/llm"
	"github.com/xcorat/araliya-bot/server/profile"
	"github.com/xcorat/araliya-bot/store"
)

// stubChatter records what the handler passed in and returns a canned
// reply or error.
type stubChatter struct {
	reply      *llm.Reply
	err        error
	connected  bool
	gotHistory []store.Message
	gotMessage string
	gotContext string
}

func (s *stubChatter) GenerateReply(_ context.Context, history []store.Message, userMessage, ragContext string) (*llm.Reply, error) {
	s.gotHistory = history
	s.gotMessage = userMessage
	s.gotContext = ragContext
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

func (s *stubChatter) CheckConnectivity(context.Context) bool { return s.connected }

func testProfile() *profile.Profile {
	return &profile.Profile{
		Mode:                  "dev",
		Version:               "1.0.0",
		HistoryWindow:         20,
		MaxConcurrentSessions: 2,
	}
}

func newEcho(svc *APIV1Service) *echo.Echo {
	e := echo.New()
	svc.Register(e)
	return e
}

func newTestService(chatter llm.Chatter) (*APIV1Service, *echo.Echo) {
	svc := NewAPIV1Service(testProfile(), store.NewSessionStore(20), nil, chatter)
	return svc, newEcho(svc)
}

func postChat(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestChatCreatesSessionAndRecordsBothMessages(t *testing.T) {
	chatter := &stubChatter{reply: &llm.Reply{
		Message:  "Hello! How can I help?",
		Metadata: map[string]any{"model": "gpt-3.5-turbo"},
	}}
	svc, e := newTestService(chatter)

	rec := postChat(e, `{"message": "Hello, how can you help me today?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hello! How can I help?", resp.Message)
	require.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "gpt-3.5-turbo", resp.Metadata["model"])

	// The generator sees the pre-existing history, not the current turn.
	assert.Empty(t, chatter.gotHistory)
	assert.Equal(t, "Hello, how can you help me today?", chatter.gotMessage)

	info := svc.Sessions.SessionInfo(resp.SessionID)
	require.NotNil(t, info)
	assert.Equal(t, 2, info.MessageCount)

	history := svc.Sessions.ConversationHistory(resp.SessionID)
	require.Len(t, history, 2)
	assert.Equal(t, store.RoleUser, history[0].Role)
	assert.Equal(t, store.RoleAssistant, history[1].Role)
}

func TestChatContinuesExistingSession(t *testing.T) {
	chatter := &stubChatter{reply: &llm.Reply{Message: "again"}}
	svc, e := newTestService(chatter)

	id := svc.Sessions.CreateSession("user-123-session")
	svc.Sessions.AddUserMessage(id, "earlier question")
	svc.Sessions.AddAssistantMessage(id, "earlier answer")

	rec := postChat(e, `{"message": "follow-up", "session_id": "user-123-session"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user-123-session", resp.SessionID)

	require.Len(t, chatter.gotHistory, 2)
	assert.Equal(t, "earlier question", chatter.gotHistory[0].Content)
	assert.Equal(t, 4, svc.Sessions.SessionInfo(id).MessageCount)
}

func TestChatValidation(t *testing.T) {
	_, e := newTestService(&stubChatter{reply: &llm.Reply{Message: "ok"}})

	assert.Equal(t, http.StatusBadRequest, postChat(e, `{"message": ""}`).Code)
	assert.Equal(t, http.StatusBadRequest, postChat(e, `{"message": "   "}`).Code)
	assert.Equal(t, http.StatusBadRequest, postChat(e, `{"message": "`+strings.Repeat("x", maxMessageLength+1)+`"}`).Code)
	assert.Equal(t, http.StatusBadRequest, postChat(e, `not json`).Code)
}

func TestChatAdmissionControl(t *testing.T) {
	svc, e := newTestService(&stubChatter{reply: &llm.Reply{Message: "ok"}})

	// Fill the store to the configured maximum.
	svc.Sessions.CreateSession("a")
	svc.Sessions.CreateSession("b")

	rec := postChat(e, `{"message": "one more"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 2, svc.Sessions.ActiveSessionCount())
}

func TestChatGenerationFailureKeepsUserMessage(t *testing.T) {
	chatter := &stubChatter{err: errors.New("rate limit exceeded")}
	svc, e := newTestService(chatter)

	id := svc.Sessions.CreateSession("doomed")
	rec := postChat(e, `{"message": "hi", "session_id": "doomed"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// The user message is recorded before the upstream call; no
	// assistant message is written on failure.
	history := svc.Sessions.ConversationHistory(id)
	require.Len(t, history, 1)
	assert.Equal(t, store.RoleUser, history[0].Role)
}
