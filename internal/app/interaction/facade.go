package interaction

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arkanhadi/temanrasa/internal/app/capture"
	"github.com/arkanhadi/temanrasa/internal/app/chat"
	"github.com/arkanhadi/temanrasa/internal/app/recommend"
	"github.com/arkanhadi/temanrasa/internal/app/session"
	"github.com/arkanhadi/temanrasa/internal/domain"
	"github.com/arkanhadi/temanrasa/internal/observability"
)

// ErrNoDetection rejects chat and clicks before the first result.
var ErrNoDetection = errors.New("no emotion detected yet")

// Hooks are optional presentation callbacks. All may be nil.
type Hooks struct {
	Countdown func(n int)
	Result    func(result *domain.EmotionResult)
	Failure   func(failure *capture.Failure)
}

// Facade wires the session identity, the capture workflow, the
// conversation and the recommendations together. It owns the one
// countdown timer (the workflow itself is timer-free) and it is the
// only caller of SessionIdentity.Reset.
type Facade struct {
	identity *session.Identity
	workflow *capture.Workflow
	conv     *chat.Manager
	recs     *recommend.Coordinator
	hooks    Hooks

	// tickEvery is 1s in production; tests shrink it.
	tickEvery time.Duration

	mu        sync.Mutex
	stopTimer context.CancelFunc
}

func NewFacade(identity *session.Identity, workflow *capture.Workflow, conv *chat.Manager, recs *recommend.Coordinator, hooks Hooks) *Facade {
	return &Facade{
		identity:  identity,
		workflow:  workflow,
		conv:      conv,
		recs:      recs,
		hooks:     hooks,
		tickEvery: time.Second,
	}
}

func (f *Facade) Workflow() *capture.Workflow        { return f.workflow }
func (f *Facade) Conversation() *chat.Manager        { return f.conv }
func (f *Facade) Recommendations() *recommend.Coordinator { return f.recs }

// SessionID returns the id every remote call of this browsing session
// carries.
func (f *Facade) SessionID() domain.SessionID {
	return f.identity.GetOrCreate()
}

// StartCapture begins the countdown-capture-detect run. It returns
// immediately; the returned channel closes once the workflow reaches
// Result or Failed (or the run is reset away). ErrBusy propagates from
// the workflow while a run is active.
func (f *Facade) StartCapture(ctx context.Context) (<-chan struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.workflow.Start(); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	f.stopTimer = cancel

	if f.hooks.Countdown != nil {
		f.hooks.Countdown(f.workflow.Countdown())
	}

	done := make(chan struct{})
	go f.runCountdown(runCtx, done)
	return done, nil
}

func (f *Facade) runCountdown(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(f.tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if f.workflow.Tick() {
				ticker.Stop()
				f.runDetection(ctx)
				return
			}
			if f.hooks.Countdown != nil {
				f.hooks.Countdown(f.workflow.Countdown())
			}
		}
	}
}

func (f *Facade) runDetection(ctx context.Context) {
	result, err := f.workflow.Detect(ctx)
	if err != nil || result == nil {
		if failure := f.workflow.LastFailure(); failure != nil && f.hooks.Failure != nil {
			f.hooks.Failure(failure)
		}
		return
	}

	// Greeting and recommendations are independent; neither blocks
	// the other.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if result.InitialGreeting != "" {
			f.conv.AddAssistantGreeting(result.InitialGreeting)
		}
		return nil
	})
	g.Go(func() error {
		f.recs.LoadFor(gctx, result.Emotion)
		return nil
	})
	_ = g.Wait()

	if f.hooks.Result != nil {
		f.hooks.Result(result)
	}
}

// SendChat sends one conversational turn in the context of the current
// detection result.
func (f *Facade) SendChat(ctx context.Context, text string) error {
	current := f.workflow.Current()
	if current == nil {
		return ErrNoDetection
	}
	return f.conv.SendTurn(ctx, text, current.Emotion, f.identity.GetOrCreate(), current.LogID)
}

// ClickRecommendation opens the item and reports the click, keyed to
// the current detection result.
func (f *Facade) ClickRecommendation(ctx context.Context, item domain.RecommendationItem) error {
	current := f.workflow.Current()
	if current == nil {
		return ErrNoDetection
	}
	f.recs.Click(ctx, item, f.identity.GetOrCreate(), current.Emotion, current.LogID)
	return nil
}

// ResetAll tears down the session as one user-visible atomic action:
// the countdown timer stops, the workflow returns to Idle, the
// conversation and recommendations are cleared, and a fresh session id
// replaces the old one. No caller observes a mix of old and new state.
func (f *Facade) ResetAll() domain.SessionID {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopTimer != nil {
		f.stopTimer()
		f.stopTimer = nil
	}

	f.workflow.Reset()
	f.conv.Clear()
	f.recs.Clear()
	newID := f.identity.Reset()

	observability.Logger().Info("session reset", "session_id", newID)
	return newID
}
