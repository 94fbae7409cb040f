package tracking

import (
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/go-facerange/pkg/calibration"
	"github.com/teslashibe/go-facerange/pkg/matching"
)

// Session is one lock cycle, from the first detection until unlock.
type Session struct {
	ID        uuid.UUID         `json:"id"`
	StartedAt time.Time         `json:"started_at"`
	Face      image.Rectangle   `json:"face"`
	Model     calibration.Model `json:"model"`
}

// Reading is one reported distance.
type Reading struct {
	SessionID uuid.UUID       `json:"session_id"`
	Frame     uint64          `json:"frame"`
	Time      time.Time       `json:"time"`
	Box       image.Rectangle `json:"box"`
	Score     float64         `json:"score"`
	Scale     float64         `json:"scale"`
	Angle     float64         `json:"angle"`
	Canonical bool            `json:"canonical"`
	Distance  float64         `json:"distance_m"`
	Category  string          `json:"category"`
	Refreshed bool            `json:"refreshed"`

	Result *matching.Result `json:"-"`
}

// Observer is notified of new sessions and readings. Calls are made after
// the tracker's lock is released, on the goroutine that called Detect.
type Observer interface {
	OnSession(Session)
	OnReading(Reading)
}

// Status is a snapshot of the tracker.
type Status struct {
	Stage   Stage        `json:"stage"`
	Session *Session     `json:"session,omitempty"`
	Frames  uint64       `json:"frames"`
	Last    *Reading     `json:"last,omitempty"`
	Tuning  TuningParams `json:"tuning"`
}
