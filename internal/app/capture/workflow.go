package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/arkanhadi/temanrasa/internal/app/session"
	"github.com/arkanhadi/temanrasa/internal/domain"
	"github.com/arkanhadi/temanrasa/internal/observability"
)

// State of the capture workflow.
//
//	Idle → Countdown(n) → Capturing → Detecting → Result | Failed
//
// Result and Failed accept the next Start; everything in between
// rejects it, which is what guarantees at most one in-flight
// detection per workflow.
type State int

const (
	StateIdle State = iota
	StateCountdown
	StateCapturing
	StateDetecting
	StateResult
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCountdown:
		return "countdown"
	case StateCapturing:
		return "capturing"
	case StateDetecting:
		return "detecting"
	case StateResult:
		return "result"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type FailureReason string

const (
	// ReasonCaptureUnavailable: no frame obtainable from the video
	// source. No network call was made.
	ReasonCaptureUnavailable FailureReason = "capture_unavailable"

	// ReasonDetectionFailed: the classification call errored.
	ReasonDetectionFailed FailureReason = "detection_failed"
)

// Failure describes why the workflow ended in StateFailed. Message is
// the server-provided detail when there was one, else a generic text.
type Failure struct {
	Reason  FailureReason
	Message string
}

const genericDetectionMessage = "Gagal memproses gambar."

// ErrBusy rejects Start while a capture is already running.
var ErrBusy = errors.New("capture already in progress")

// errWrongState guards the Tick/Detect call order; hitting it means a
// caller bug, not a user-visible condition.
var errWrongState = errors.New("call out of order for workflow state")

// Workflow drives one capture-countdown-detect interaction. The
// machine is pure with respect to time: the countdown advances only
// through Tick, so the timer lives with the caller and tests need no
// clock.
type Workflow struct {
	mu         sync.Mutex
	state      State
	countdown  int
	seconds    int
	generation uint64

	frames   domain.FrameSource
	detector domain.DetectionClient
	identity *session.Identity

	current *domain.EmotionResult
	history []*domain.EmotionResult
	failure *Failure
}

func NewWorkflow(frames domain.FrameSource, detector domain.DetectionClient, identity *session.Identity, seconds int) *Workflow {
	if seconds <= 0 {
		seconds = 3
	}
	return &Workflow{
		frames:   frames,
		detector: detector,
		identity: identity,
		seconds:  seconds,
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Countdown returns the currently displayed countdown value; 0 outside
// StateCountdown.
func (w *Workflow) Countdown() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateCountdown {
		return 0
	}
	return w.countdown
}

// Current returns the most recent result, nil before the first one.
func (w *Workflow) Current() *domain.EmotionResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// History returns the session's results in detection order.
func (w *Workflow) History() []*domain.EmotionResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	copied := make([]*domain.EmotionResult, len(w.history))
	copy(copied, w.history)
	return copied
}

// LastFailure returns why the last capture failed, nil otherwise.
func (w *Workflow) LastFailure() *Failure {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failure
}

// Start begins a new countdown. Returns ErrBusy while a previous
// capture has not reached Result or Failed yet.
func (w *Workflow) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateIdle, StateResult, StateFailed:
	default:
		return ErrBusy
	}

	w.state = StateCountdown
	w.countdown = w.seconds
	w.failure = nil
	return nil
}

// Tick advances the countdown by one second. When Countdown(1)
// expires the workflow moves to Capturing synchronously (never through
// Countdown(0)) and Tick reports true: the caller must stop its timer
// and call Detect.
func (w *Workflow) Tick() (capture bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateCountdown {
		return false
	}

	if w.countdown <= 1 {
		w.state = StateCapturing
		w.countdown = 0
		return true
	}
	w.countdown--
	return false
}

// Detect acquires one still frame at its native resolution and issues
// the single detection request for this capture. Valid only in
// StateCapturing. A Reset racing the network call wins: the late
// result is discarded and Detect returns (nil, nil).
func (w *Workflow) Detect(ctx context.Context) (*domain.EmotionResult, error) {
	w.mu.Lock()
	if w.state != StateCapturing {
		w.mu.Unlock()
		return nil, errWrongState
	}

	gen := w.generation
	sessionID := w.identity.GetOrCreate()
	ctx = observability.WithSessionID(ctx, string(sessionID))
	log := observability.LoggerFromContext(ctx)
	w.mu.Unlock()

	frame, err := w.frames.Still(ctx)
	if err != nil {
		log.Error("no frame available", "error", err)
		w.fail(gen, ReasonCaptureUnavailable, "Kamera tidak tersedia. Coba lagi.")
		return nil, fmt.Errorf("acquiring frame: %w", err)
	}

	w.mu.Lock()
	if w.generation != gen {
		w.mu.Unlock()
		log.Info("capture discarded after reset")
		return nil, nil
	}
	w.state = StateDetecting
	w.mu.Unlock()

	log.Info("detection request", "frame_bytes", len(frame))

	result, err := w.detector.DetectEmotion(ctx, frame, sessionID)
	if err != nil {
		log.Error("detection failed", "error", err)
		message := domain.ErrorDetail(err)
		if message == "" {
			message = genericDetectionMessage
		}
		w.fail(gen, ReasonDetectionFailed, message)
		return nil, fmt.Errorf("detecting emotion: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generation != gen {
		log.Info("detection result discarded after reset")
		return nil, nil
	}

	w.state = StateResult
	w.current = result
	w.history = append(w.history, result)
	log.Info("detection result",
		"emotion", result.Emotion,
		"confidence", result.Confidence,
		"face_detected", result.FaceDetected)
	return result, nil
}

// Reset returns the workflow to Idle from any state and clears the
// result history, which is scoped to the session being torn down. Safe
// against an in-flight Detect: its late result is discarded.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.generation++
	w.state = StateIdle
	w.countdown = 0
	w.current = nil
	w.history = nil
	w.failure = nil
}

func (w *Workflow) fail(gen uint64, reason FailureReason, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.generation != gen {
		return
	}
	w.state = StateFailed
	w.failure = &Failure{Reason: reason, Message: message}
}
