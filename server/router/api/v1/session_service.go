package v1

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v5"
)

func (s *APIV1Service) getSessionInfo(c *echo.Context) error {
	id := c.Param("id")
	info := s.Sessions.SessionInfo(id)
	if info == nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, info)
}

func (s *APIV1Service) clearSession(c *echo.Context) error {
	id := c.Param("id")
	if !s.Sessions.ClearSession(id) {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s cleared successfully", id),
	})
}
