// Package tracking follows a single face across frames and reports its
// distance from the camera.
//
// A Tracker starts idle. Lock arms it; the next frame with a detection
// calibrates the distance model and seeds the template bank, and every frame
// after that is matched against the bank until Unlock.
package tracking

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/go-facerange/internal/log"
	"github.com/teslashibe/go-facerange/pkg/calibration"
	"github.com/teslashibe/go-facerange/pkg/debug"
	"github.com/teslashibe/go-facerange/pkg/matching"
	"github.com/teslashibe/go-facerange/pkg/templates"
	"github.com/teslashibe/go-facerange/pkg/tracking/detection"
	"github.com/teslashibe/go-facerange/pkg/vision"
)

// Tracker is the face tracking state machine
type Tracker struct {
	config   Config
	ops      vision.Ops
	detector detection.Detector
	bank     *templates.Bank

	// State
	mu      sync.Mutex
	stage   Stage
	model   calibration.Model
	gray    *image.Gray
	session *Session
	logger  *slog.Logger // tagged with the session ID while matching
	frames  uint64
	last    *Reading

	observers []Observer
	now       func() time.Time
	logWith   func(args ...any) *slog.Logger
}

// New creates an idle tracker.
func New(config Config, ops vision.Ops, detector detection.Detector) *Tracker {
	return &Tracker{
		config:   config,
		ops:      ops,
		detector: detector,
		bank:     templates.NewBank(ops, config.Templates),
		now:      time.Now,
		logWith:  log.With,
	}
}

// AddObserver registers o for sessions and readings.
func (t *Tracker) AddObserver(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

// Lock arms the tracker: the next frame runs face detection.
func (t *Tracker) Lock() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stage = StageDetectFace
	log.Info("tracker locked, waiting for a face")
}

// Unlock returns the tracker to idle and forgets the calibration and templates.
func (t *Tracker) Unlock() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stage = StageNone
	t.model = calibration.Model{}
	if t.logger != nil {
		t.logger.Info("tracker unlocked")
	} else {
		log.Info("tracker unlocked")
	}
	t.session = nil
	t.logger = nil
	t.bank.Reset()
}

// Stage returns the current stage.
func (t *Tracker) Stage() Stage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stage
}

// Model returns the current calibration; zero until a face has been found.
func (t *Tracker) Model() calibration.Model {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.model
}

// Bank exposes the template bank for inspection.
func (t *Tracker) Bank() *templates.Bank {
	return t.bank
}

// Status returns a snapshot of the tracker.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Status{
		Stage:  t.stage,
		Frames: t.frames,
		Tuning: t.tuningLocked(),
	}
	if t.session != nil {
		sess := *t.session
		s.Session = &sess
	}
	if t.last != nil {
		last := *t.last
		s.Last = &last
	}
	return s
}

// Detect runs one tracking cycle on frame.
//
// While detecting it never returns a result, whether or not a face was found.
// While matching it returns nil for frames without a trustworthy match, and
// otherwise a result with Distance set; the match box is drawn onto frame.
// Calling Detect before Lock returns ErrNotLocked.
func (t *Tracker) Detect(frame draw.Image) (*matching.Result, error) {
	if frame == nil || frame.Bounds().Empty() {
		return nil, ErrNilFrame
	}

	t.mu.Lock()
	var (
		res     *matching.Result
		err     error
		session *Session
		reading *Reading
	)
	switch t.stage {
	case StageDetectFace:
		session, err = t.detectFace(frame)
	case StageMatchFace:
		reading, err = t.matchFace(frame)
	default:
		err = ErrNotLocked
	}
	observers := t.observers
	t.mu.Unlock()

	if session != nil {
		for _, o := range observers {
			o.OnSession(*session)
		}
	}
	if reading != nil {
		res = reading.Result
		for _, o := range observers {
			o.OnReading(*reading)
		}
	}
	return res, err
}

// detectFace looks for a face to lock onto. It returns the new session when
// one was found.
func (t *Tracker) detectFace(frame draw.Image) (*Session, error) {
	t.gray = vision.Grayscale(frame, t.gray)

	dets, err := t.detector.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("tracking: detect faces: %w", err)
	}
	if len(dets) == 0 {
		debug.Trace("no face detected")
		return nil, nil
	}

	// First detection wins; ordering is up to the detector. Boxes are in
	// frame coordinates and the gray copy starts at the origin.
	face := dets[0].Box.Sub(frame.Bounds().Min).Intersect(t.gray.Bounds())
	if face.Empty() {
		return nil, nil
	}

	model, err := calibration.Calibrate(t.config.UserHeightCm, t.config.Gender, float64(face.Dy()))
	if err != nil {
		return nil, fmt.Errorf("tracking: calibrate: %w", err)
	}
	if err := t.bank.Init(vision.Crop(t.gray, face), t.gray.Bounds().Size()); err != nil {
		return nil, fmt.Errorf("tracking: init templates: %w", err)
	}

	t.model = model
	t.stage = StageMatchFace
	t.frames = 0
	t.last = nil
	t.session = &Session{
		ID:        uuid.New(),
		StartedAt: t.now(),
		Face:      face,
		Model:     model,
	}

	t.logger = t.logWith("session", t.session.ID)
	t.logger.Info("face locked",
		"face", face,
		"confidence", dets[0].Confidence,
		"focal_length", model.FocalLength,
		"face_height_m", model.FaceHeightM)
	return t.session, nil
}

// matchFace searches the working set and turns a good match into a reading.
func (t *Tracker) matchFace(frame draw.Image) (*Reading, error) {
	t.gray = vision.Grayscale(frame, t.gray)
	t.frames++

	res, err := matching.BestMatch(t.ops, t.gray, t.bank.Working(), t.config.MatchFloor)
	if err != nil {
		return nil, fmt.Errorf("tracking: match: %w", err)
	}
	if res == nil {
		debug.Trace("no match", "frame", t.frames)
		return nil, nil
	}
	if res.Score < t.config.MinReportScore {
		debug.Trace("match below report score", "score", res.Score, "min", t.config.MinReportScore)
		return nil, nil
	}

	refreshed := false
	if !res.Variant.Canonical || res.Score < t.config.CanonicalTrustScore {
		refreshed, _, err = t.bank.Update(vision.Crop(t.gray, res.Box),
			t.config.RefreshSmallestScale, t.config.RefreshLargestScale, t.config.RefreshThreshold)
		if err != nil {
			t.logger.Warn("template refresh failed", "frame", t.frames, "error", err)
		}
	}

	res.Distance = t.model.Distance(float64(res.Box.Dy()), t.config.TuneBias)
	vision.DrawRect(frame, res.Box.Add(frame.Bounds().Min), t.config.BoxColor)

	reading := &Reading{
		SessionID: t.session.ID,
		Frame:     t.frames,
		Time:      t.now(),
		Box:       res.Box,
		Score:     res.Score,
		Scale:     res.Scale,
		Angle:     res.Variant.Angle,
		Canonical: res.Variant.Canonical,
		Distance:  res.Distance,
		Category:  calibration.Category(res.Distance),
		Refreshed: refreshed,
		Result:    res,
	}
	t.last = reading

	debug.Trace("distance",
		"m", reading.Distance, "category", reading.Category,
		"score", res.Score, "scale", res.Scale, "refreshed", refreshed)
	return reading, nil
}
