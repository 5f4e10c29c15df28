package recommend

import (
	"context"
	"sync"

	"github.com/arkanhadi/temanrasa/internal/domain"
	"github.com/arkanhadi/temanrasa/internal/observability"
)

// Coordinator exclusively owns the current recommendation set. Loads
// are last-request-wins: every request gets a sequence number and a
// response is dropped unless it answers the latest one, so rapid
// re-detection can never leave stale suggestions on screen. Failures
// are logged and leave the previous set untouched.
type Coordinator struct {
	mu      sync.Mutex
	client  domain.RecommendationClient
	tracker domain.ClickTracker
	opener  domain.LinkOpener

	seq     uint64
	loading bool
	current *domain.RecommendationSet
}

func NewCoordinator(client domain.RecommendationClient, tracker domain.ClickTracker, opener domain.LinkOpener) *Coordinator {
	return &Coordinator{
		client:  client,
		tracker: tracker,
		opener:  opener,
	}
}

// Current returns the displayed set, nil when none is loaded.
func (c *Coordinator) Current() *domain.RecommendationSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Loading reports whether the latest load is still pending.
func (c *Coordinator) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LoadFor fetches the suggestions for one emotion and replaces the
// current set wholesale. If a newer load was issued meanwhile, this
// response is discarded.
func (c *Coordinator) LoadFor(ctx context.Context, emotion domain.Emotion) {
	c.mu.Lock()
	c.seq++
	id := c.seq
	c.loading = true
	c.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With("emotion", emotion)

	set, err := c.client.Recommendations(ctx, emotion)

	c.mu.Lock()
	defer c.mu.Unlock()

	if id != c.seq {
		// A newer request owns the loading flag and the set now.
		log.Info("stale recommendation response discarded")
		return
	}
	c.loading = false

	if err != nil {
		log.Error("failed to load recommendations", "error", err)
		return
	}
	c.current = set
}

// Clear drops the current set and invalidates any in-flight load.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.loading = false
	c.current = nil
}

// Click opens the item's link, then reports the click in the
// background. The opening never waits on tracking, and a tracking
// failure is logged only, since the link is already on screen.
func (c *Coordinator) Click(ctx context.Context, item domain.RecommendationItem, sessionID domain.SessionID, emotion domain.Emotion, emotionLogID domain.EmotionLogID) {
	ctx = observability.WithSessionID(ctx, string(sessionID))
	log := observability.LoggerFromContext(ctx).With(
		"category", item.Category,
		"title", item.Title,
	)

	if item.Link != "" {
		if err := c.opener.Open(item.Link); err != nil {
			log.Error("failed to open recommendation link", "error", err)
		}
	}

	// Detached from the caller's context: tracking outlives the click.
	trackCtx := context.WithoutCancel(ctx)
	go func() {
		ev := domain.ClickEvent{
			SessionID:    sessionID,
			EmotionLogID: emotionLogID,
			Emotion:      emotion,
			Category:     item.Category,
			Title:        item.Title,
		}
		if err := c.tracker.TrackClick(trackCtx, ev); err != nil {
			log.Warn("click tracking failed (link already opened)", "error", err)
		}
	}()
}
