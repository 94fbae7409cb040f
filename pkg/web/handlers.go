package web

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/teslashibe/go-facerange/pkg/hub"
	"github.com/teslashibe/go-facerange/pkg/tracking"
)

// handleStatus returns the tracker snapshot
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.tracker.Status())
}

// handleLock arms the tracker
func (s *Server) handleLock(c *fiber.Ctx) error {
	s.tracker.Lock()
	return c.JSON(s.tracker.Status())
}

// handleUnlock returns the tracker to idle
func (s *Server) handleUnlock(c *fiber.Ctx) error {
	s.tracker.Unlock()
	return c.JSON(s.tracker.Status())
}

func (s *Server) handleGetTuning(c *fiber.Ctx) error {
	return c.JSON(s.tracker.GetTuningParams())
}

// handleSetTuning applies the non-zero fields of the body
func (s *Server) handleSetTuning(c *fiber.Ctx) error {
	var params tracking.TuningParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid tuning body: " + err.Error(),
		})
	}
	if err := s.tracker.SetTuningParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(s.tracker.GetTuningParams())
}

// handleGetReadings returns buffered readings, newest last
func (s *Server) handleGetReadings(c *fiber.Ctx) error {
	return c.JSON(s.recentReadings(c.QueryInt("limit", 0)))
}

func (s *Server) handleGetCamera(c *fiber.Ctx) error {
	if s.camera == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no camera configured",
		})
	}
	data, err := s.camera.GetConfigJSON()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

// handleSetCamera applies a partial update, e.g. {"preset":"night"} or {"mirror":false}
func (s *Server) handleSetCamera(c *fiber.Ctx) error {
	if s.camera == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no camera configured",
		})
	}
	var params map[string]any
	if err := json.Unmarshal(c.Body(), &params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid camera body: " + err.Error(),
		})
	}
	if err := s.camera.UpdateConfig(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return s.handleGetCamera(c)
}

func (s *Server) handleGetSessions(c *fiber.Ctx) error {
	if s.history == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no reading store configured",
		})
	}
	sessions, err := s.history.Sessions()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if sessions == nil {
		sessions = []tracking.Session{}
	}
	return c.JSON(sessions)
}

func (s *Server) handleGetSessionReadings(c *fiber.Ctx) error {
	if s.history == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no reading store configured",
		})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid session id",
		})
	}
	readings, err := s.history.Readings(id, c.QueryInt("limit", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if readings == nil {
		readings = []tracking.Reading{}
	}
	return c.JSON(readings)
}

// handleReadingsWS streams sessions and readings, starting with the buffer
func (s *Server) handleReadingsWS(c *websocket.Conn) {
	var initial []hub.Message
	for _, r := range s.recentReadings(0) {
		data, err := json.Marshal(Event{Type: "reading", Reading: &r})
		if err != nil {
			continue
		}
		initial = append(initial, hub.EventMessage(data))
	}
	s.readingHub.Serve(c, initial...)
}

// handleCameraWS streams annotated JPEG frames
func (s *Server) handleCameraWS(c *websocket.Conn) {
	s.cameraHub.Serve(c)
}
