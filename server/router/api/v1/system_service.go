package v1

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
)

type healthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Version       string    `json:"version"`
	OpenAIStatus  string    `json:"openai_status"`
	UptimeSeconds float64   `json:"uptime_seconds"`
}

func (s *APIV1Service) healthCheck(c *echo.Context) error {
	connected := s.Chatter.CheckConnectivity(c.Request().Context())

	resp := healthResponse{
		Status:        "healthy",
		Timestamp:     time.Now().UTC(),
		Version:       s.Profile.Version,
		OpenAIStatus:  "connected",
		UptimeSeconds: math.Round(time.Since(s.StartedAt).Seconds()*100) / 100,
	}
	code := http.StatusOK
	if !connected {
		resp.Status = "degraded"
		resp.OpenAIStatus = "disconnected"
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}

func (s *APIV1Service) ragStatus(c *echo.Context) error {
	if s.VectorStore == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "retrieval is not configured")
	}
	stats := s.VectorStore.Stats()
	return c.JSON(http.StatusOK, map[string]any{
		"status":          "active",
		"timestamp":       time.Now().UTC(),
		"total_documents": stats.TotalDocuments,
		"collection":      stats.Collection,
		"index_path":      stats.IndexPath,
	})
}
