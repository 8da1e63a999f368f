// Package server assembles the HTTP surface and owns its lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/xcorat/araliya-bot/plugin/llm"
	"github.com/xcorat/araliya-bot/plugin/vectorstore"
	"github.com/xcorat/araliya-bot/server/profile"
	apiv1 "github.com/xcorat/araliya-bot/server/router/api/v1"
	"github.com/xcorat/araliya-bot/store"
)

// Server wires the echo router and the underlying http.Server.
type Server struct {
	profile    *profile.Profile
	echoServer *echo.Echo
	httpServer *http.Server
}

func NewServer(p *profile.Profile, sessions *store.SessionStore, vs *vectorstore.Store, chatter llm.Chatter) *Server {
	e := echo.New()

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     p.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))

	e.GET("/", func(c *echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "Araliya Bot API",
			"version": p.Version,
			"status":  "active",
		})
	})

	apiv1.NewAPIV1Service(p, sessions, vs, chatter).Register(e)

	return &Server{
		profile:    p,
		echoServer: e,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", p.Addr, p.Port),
			Handler:           e,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	slog.Info("starting server", "addr", s.httpServer.Addr, "mode", s.profile.Mode)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	slog.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
