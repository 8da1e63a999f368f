package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcorat/araliya-bot/store"
)

func TestGetSessionInfo(t *testing.T) {
	svc, e := newTestService(&stubChatter{})

	id := svc.Sessions.CreateSession("known")
	svc.Sessions.AddUserMessage(id, "hi")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/known", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var info store.SessionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "known", info.ID)
	assert.Equal(t, 1, info.MessageCount)
	assert.False(t, info.CreatedAt.IsZero())
}

func TestGetSessionInfoNotFound(t *testing.T) {
	_, e := newTestService(&stubChatter{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/missing", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearSession(t *testing.T) {
	svc, e := newTestService(&stubChatter{})
	svc.Sessions.CreateSession("gone-soon")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/gone-soon", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, svc.Sessions.SessionExists("gone-soon"))

	// Second delete is a 404, not an error.
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/gone-soon", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
