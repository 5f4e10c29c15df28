package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/arkanhadi/temanrasa/internal/domain"
	"github.com/arkanhadi/temanrasa/internal/observability"
)

// Service handles admin authentication and the dashboard view. The
// bearer token lives in durable storage, so an admin stays logged in
// across runs until Logout or a 401.
type Service struct {
	admin    domain.AdminClient
	emotions domain.DetectionClient
	recs     domain.RecommendationClient
	tokens   domain.TokenStore
	now      func() time.Time
}

func NewService(admin domain.AdminClient, emotions domain.DetectionClient, recs domain.RecommendationClient, tokens domain.TokenStore) *Service {
	return &Service{
		admin:    admin,
		emotions: emotions,
		recs:     recs,
		tokens:   tokens,
		now:      time.Now,
	}
}

// Login authenticates and persists the bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.AdminSession, error) {
	sess, err := s.admin.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.SetToken(sess.AccessToken); err != nil {
		return nil, fmt.Errorf("storing admin token: %w", err)
	}

	observability.Logger().Info("admin logged in", "username", sess.Username)
	return sess, nil
}

// Logout drops the stored token.
func (s *Service) Logout() error {
	return s.tokens.Clear()
}

// Authenticated reports whether a token is stored. The token may still
// be expired; the next 401 clears it.
func (s *Service) Authenticated() bool {
	return s.tokens.Token() != ""
}

// Snapshot is one refresh of the admin dashboard.
type Snapshot struct {
	Dashboard *domain.DashboardStats
	Emotions  *domain.EmotionStats
	Popular   []domain.PopularRecommendation
	At        time.Time
}

// FetchSnapshot loads the dashboard counters plus the secondary panels.
// The counters are required; the emotion breakdown and the click
// leaderboard are best-effort and arrive nil/empty when their calls
// fail.
func (s *Service) FetchSnapshot(ctx context.Context, timeRange string) (*Snapshot, error) {
	log := observability.LoggerFromContext(ctx)

	dashboard, err := s.admin.DashboardStats(ctx, timeRange)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Dashboard: dashboard, At: s.now()}

	if stats, err := s.emotions.EmotionStats(ctx); err != nil {
		log.Warn("emotion stats unavailable", "error", err)
	} else {
		snap.Emotions = stats
	}

	if popular, err := s.recs.PopularRecommendations(ctx); err != nil {
		log.Warn("popular recommendations unavailable", "error", err)
	} else {
		snap.Popular = popular
	}

	return snap, nil
}

// Watch fetches a snapshot immediately and then on the given cron spec
// (e.g. "@every 30s"), handing each one to fn, until ctx is done.
func (s *Service) Watch(ctx context.Context, spec, timeRange string, fn func(*Snapshot)) error {
	refresh := func() {
		snap, err := s.FetchSnapshot(ctx, timeRange)
		if err != nil {
			observability.Logger().Error("dashboard refresh failed", "error", err)
			return
		}
		fn(snap)
	}

	refresh()

	c := cron.New()
	if _, err := c.AddFunc(spec, refresh); err != nil {
		return fmt.Errorf("bad poll spec %q: %w", spec, err)
	}
	c.Start()
	defer c.Stop()

	<-ctx.Done()
	return ctx.Err()
}
