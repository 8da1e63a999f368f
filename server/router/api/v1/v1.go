// Package v1 implements the public REST API.
package v1

import (
	"time"

	"github.com/labstack/echo/v5"

	"github.com/xcorat/araliya-bot/plugin/llm"
	"github.com/xcorat/araliya-bot/plugin/vectorstore"
	"github.com/xcorat/araliya-bot/server/profile"
	"github.com/xcorat/araliya-bot/store"
)

// APIV1Service carries every collaborator the v1 handlers use. All
// dependencies are injected at startup; the service owns no lifecycle.
type APIV1Service struct {
	Profile     *profile.Profile
	Sessions    *store.SessionStore
	VectorStore *vectorstore.Store // nil when retrieval is unavailable
	Chatter     llm.Chatter
	StartedAt   time.Time
}

func NewAPIV1Service(p *profile.Profile, sessions *store.SessionStore, vs *vectorstore.Store, chatter llm.Chatter) *APIV1Service {
	return &APIV1Service{
		Profile:     p,
		Sessions:    sessions,
		VectorStore: vs,
		Chatter:     chatter,
		StartedAt:   time.Now(),
	}
}

// Register mounts all v1 routes.
func (s *APIV1Service) Register(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/health", s.healthCheck)
	g.POST("/chat", s.handleChat)
	g.GET("/sessions/:id", s.getSessionInfo)
	g.DELETE("/sessions/:id", s.clearSession)
	g.GET("/rag/status", s.ragStatus)
}
