package studio

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/Lattice-Labs/lattice/internal/config"
)

// Server exposes the dependency graph, the validation result and the
// task board over HTTP for the visualization UI.
type Server struct {
	app     *fiber.App
	service *Service
	port    int
}

// NewServer builds the board server. Data-aware validation runs when the
// project's database is reachable; otherwise the board serves structural
// results only.
func NewServer(cfg *config.Config, port int) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "lattice studio",
		DisableStartupMessage: true,
	})

	s := &Server{
		app:     app,
		service: NewService(cfg),
		port:    port,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	api.Get("/graph", s.handleGraph)
	api.Get("/validation", s.handleValidation)
	api.Get("/status", s.handleStatus)
	api.Get("/status/:name", s.handleEntityStatus)

	api.Post("/tasks/:name/complete", s.handleComplete)
	api.Post("/tasks/:name/ignore", s.handleIgnore)
	api.Post("/tasks/:name/reset", s.handleReset)
}

// Start blocks serving HTTP until the server is shut down.
func (s *Server) Start() error {
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
