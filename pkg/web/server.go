// Package web serves the tracking dashboard API and live streams.
package web

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/teslashibe/go-facerange/internal/log"
	"github.com/teslashibe/go-facerange/pkg/hub"
	"github.com/teslashibe/go-facerange/pkg/matching"
	"github.com/teslashibe/go-facerange/pkg/tracking"
)

// readingBuffer is how many recent readings are kept for /api/readings.
const readingBuffer = 500

// Controller is the tracker surface the dashboard drives.
type Controller interface {
	Lock()
	Unlock()
	Status() tracking.Status
	GetTuningParams() tracking.TuningParams
	SetTuningParams(tracking.TuningParams) error
}

// History serves persisted sessions; optional.
type History interface {
	Sessions() ([]tracking.Session, error)
	Readings(sessionID uuid.UUID, limit int) ([]tracking.Reading, error)
}

// CameraControl exposes capture settings; optional.
type CameraControl interface {
	GetConfigJSON() ([]byte, error)
	UpdateConfig(params map[string]any) error
}

// Event is a JSON message on the readings stream.
type Event struct {
	Type    string            `json:"type"` // session, reading
	Session *tracking.Session `json:"session,omitempty"`
	Reading *tracking.Reading `json:"reading,omitempty"`
}

// Server is the web dashboard server
type Server struct {
	app  *fiber.App
	port string

	tracker Controller
	history History
	camera  CameraControl

	// Ring of recent readings
	readings   []tracking.Reading
	readingsMu sync.RWMutex

	// Hubs for websocket broadcast
	readingHub *hub.Hub
	cameraHub  *hub.Hub

	// Camera frames are encoded at most once per frameInterval
	frameInterval time.Duration
	lastFrame     time.Time
	frameMu       sync.Mutex
	jpegQuality   int
}

var (
	_ tracking.Observer  = (*Server)(nil)
	_ tracking.FrameSink = (*Server)(nil)
)

// NewServer creates the dashboard. history may be nil.
func NewServer(port string, tracker Controller, history History) *Server {
	s := &Server{
		port:          port,
		tracker:       tracker,
		history:       history,
		readings:      make([]tracking.Reading, 0, readingBuffer),
		readingHub:    hub.New("readings"),
		cameraHub:     hub.New("camera"),
		frameInterval: 100 * time.Millisecond,
		jpegQuality:   75,
	}

	app := fiber.New(fiber.Config{
		AppName:               "facerange",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Post("/lock", s.handleLock)
	api.Post("/unlock", s.handleUnlock)
	api.Get("/tuning", s.handleGetTuning)
	api.Post("/tuning", s.handleSetTuning)
	api.Get("/readings", s.handleGetReadings)
	api.Get("/sessions", s.handleGetSessions)
	api.Get("/sessions/:id/readings", s.handleGetSessionReadings)
	api.Get("/camera", s.handleGetCamera)
	api.Post("/camera", s.handleSetCamera)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/readings", websocket.New(s.handleReadingsWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// SetCamera enables the /api/camera endpoints.
func (s *Server) SetCamera(c CameraControl) {
	s.camera = c
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start runs the hubs and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	fmt.Printf("🌐 Dashboard: http://localhost:%s\n", s.port)

	go s.readingHub.Run(ctx)
	go s.cameraHub.Run(ctx)
	go func() {
		<-ctx.Done()
		if err := s.app.Shutdown(); err != nil {
			log.Warn("dashboard shutdown failed", "error", err)
		}
	}()

	return s.app.Listen(":" + s.port)
}

// OnSession broadcasts a new lock session.
func (s *Server) OnSession(sess tracking.Session) {
	s.readingsMu.Lock()
	s.readings = s.readings[:0]
	s.readingsMu.Unlock()

	s.readingHub.BroadcastJSON(Event{Type: "session", Session: &sess})
}

// OnReading buffers and broadcasts a reading.
func (s *Server) OnReading(r tracking.Reading) {
	s.readingsMu.Lock()
	s.readings = append(s.readings, r)
	if len(s.readings) > readingBuffer {
		s.readings = s.readings[1:]
	}
	s.readingsMu.Unlock()

	s.readingHub.BroadcastJSON(Event{Type: "reading", Reading: &r})
}

// WriteFrame streams annotated frames to camera clients, rate limited.
func (s *Server) WriteFrame(frame image.Image, _ *matching.Result) {
	if s.cameraHub.ClientCount() == 0 {
		return
	}

	s.frameMu.Lock()
	if time.Since(s.lastFrame) < s.frameInterval {
		s.frameMu.Unlock()
		return
	}
	s.lastFrame = time.Now()
	s.frameMu.Unlock()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: s.jpegQuality}); err != nil {
		log.Warn("frame encode failed", "error", err)
		return
	}
	s.cameraHub.BroadcastFrame(buf.Bytes())
}

// recentReadings returns up to limit of the newest buffered readings.
func (s *Server) recentReadings(limit int) []tracking.Reading {
	s.readingsMu.RLock()
	defer s.readingsMu.RUnlock()

	start := 0
	if limit > 0 && limit < len(s.readings) {
		start = len(s.readings) - limit
	}
	out := make([]tracking.Reading, len(s.readings)-start)
	copy(out, s.readings[start:])
	return out
}
