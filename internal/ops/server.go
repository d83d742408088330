// Package ops exposes a small read-only HTTP surface for liveness
// checks and pipeline counters.
package ops

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"wisbridge/internal/pipeline"
)

// Server wraps the echo instance serving /healthz and /stats.
type Server struct {
	e     *echo.Echo
	stats *pipeline.Stats
}

func NewServer(stats *pipeline.Stats) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{e: e, stats: stats}
	e.GET("/healthz", s.healthz)
	e.GET("/stats", s.statsHandler)
	return s
}

// Start blocks serving on the given port.
func (s *Server) Start(port string) error {
	return s.e.Start(":" + port)
}

// Close shuts the listener down.
func (s *Server) Close() error {
	return s.e.Close()
}

// Handler exposes the routing tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) statsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.stats.Snapshot())
}
