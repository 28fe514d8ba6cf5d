package studio

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Lattice-Labs/lattice/internal/tasks"
)

// handleGraph serves the dependency graph for visualization.
func (s *Server) handleGraph(c *fiber.Ctx) error {
	a, err := s.service.analyze(c.Context(), false)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	defer a.Close()

	return c.JSON(a.Graph)
}

// handleValidation serves the aggregate validation result. ?data=true
// includes the data-aware pass.
func (s *Server) handleValidation(c *fiber.Ctx) error {
	withData := c.Query("data") == "true"
	a, err := s.service.analyze(c.Context(), withData)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	defer a.Close()

	errCount, warnCount, infoCount := a.Result.Counts()
	return c.JSON(fiber.Map{
		"valid":    a.Result.Valid(),
		"errors":   a.Result.Errors,
		"warnings": a.Result.Warnings,
		"infos":    a.Result.Infos,
		"counts": fiber.Map{
			"errors":   errCount,
			"warnings": warnCount,
			"infos":    infoCount,
		},
	})
}

// handleStatus serves the full task board.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	board, err := s.service.Board(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(board)
}

// handleEntityStatus serves one entity's task record.
func (s *Server) handleEntityStatus(c *fiber.Ctx) error {
	board, err := s.service.Board(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	status, ok := board.Statuses[c.Params("name")]
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "unknown entity"})
	}
	return c.JSON(status)
}

func (s *Server) handleComplete(c *fiber.Ctx) error {
	err := s.service.Complete(c.Context(), c.Params("name"))
	return taskResponse(c, err)
}

func (s *Server) handleIgnore(c *fiber.Ctx) error {
	err := s.service.Ignore(c.Context(), c.Params("name"))
	return taskResponse(c, err)
}

func (s *Server) handleReset(c *fiber.Ctx) error {
	err := s.service.Reset(c.Context(), c.Params("name"))
	return taskResponse(c, err)
}

// taskResponse maps command outcomes: rejections are 409 with the
// reason, unknown entities and internal failures are 500.
func taskResponse(c *fiber.Ctx, err error) error {
	if err == nil {
		return c.JSON(fiber.Map{"success": true})
	}
	var rejected *tasks.RejectedError
	if errors.As(err, &rejected) {
		return c.Status(409).JSON(fiber.Map{"error": rejected.Reason, "entity": rejected.Entity})
	}
	return c.Status(500).JSON(fiber.Map{"error": err.Error()})
}
