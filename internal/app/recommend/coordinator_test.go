package recommend_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkanhadi/temanrasa/internal/app/recommend"
	"github.com/arkanhadi/temanrasa/internal/domain"
)

type fakeRecClient struct {
	mu     sync.Mutex
	sets   map[domain.Emotion]*domain.RecommendationSet
	err    error
	blocks map[domain.Emotion]chan struct{}
}

func (c *fakeRecClient) Recommendations(ctx context.Context, emotion domain.Emotion) (*domain.RecommendationSet, error) {
	c.mu.Lock()
	block := c.blocks[emotion]
	c.mu.Unlock()

	if block != nil {
		<-block
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.sets[emotion], nil
}

func (c *fakeRecClient) PopularRecommendations(context.Context) ([]domain.PopularRecommendation, error) {
	return nil, nil
}

type fakeTracker struct {
	mu     sync.Mutex
	events []domain.ClickEvent
	err    error
	done   chan struct{}
}

func (t *fakeTracker) TrackClick(ctx context.Context, ev domain.ClickEvent) error {
	t.mu.Lock()
	t.events = append(t.events, ev)
	t.mu.Unlock()
	if t.done != nil {
		close(t.done)
	}
	return t.err
}

type recordingOpener struct {
	mu     sync.Mutex
	opened []string
	err    error
}

func (o *recordingOpener) Open(url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, url)
	return o.err
}

func setFor(emotion domain.Emotion) *domain.RecommendationSet {
	return &domain.RecommendationSet{
		Emotion: emotion,
		Music: []domain.RecommendationItem{
			{Category: domain.CategoryMusic, Title: "Playlist for " + string(emotion)},
		},
	}
}

func TestLoadForReplacesSetWholesale(t *testing.T) {
	client := &fakeRecClient{sets: map[domain.Emotion]*domain.RecommendationSet{
		domain.EmotionHappiness: setFor(domain.EmotionHappiness),
	}}
	coord := recommend.NewCoordinator(client, &fakeTracker{}, &recordingOpener{})

	coord.LoadFor(context.Background(), domain.EmotionHappiness)

	require.NotNil(t, coord.Current())
	assert.Equal(t, domain.EmotionHappiness, coord.Current().Emotion)
	assert.False(t, coord.Loading())
}

func TestLateResponseForStaleRequestIsDiscarded(t *testing.T) {
	blockA := make(chan struct{})
	client := &fakeRecClient{
		sets: map[domain.Emotion]*domain.RecommendationSet{
			domain.EmotionSadness:   setFor(domain.EmotionSadness),
			domain.EmotionHappiness: setFor(domain.EmotionHappiness),
		},
		blocks: map[domain.Emotion]chan struct{}{domain.EmotionSadness: blockA},
	}
	coord := recommend.NewCoordinator(client, &fakeTracker{}, &recordingOpener{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		coord.LoadFor(context.Background(), domain.EmotionSadness) // request A, stalls
	}()

	// request B is issued and resolves while A is still pending
	require.Eventually(t, coord.Loading, time.Second, time.Millisecond)
	coord.LoadFor(context.Background(), domain.EmotionHappiness)
	require.Equal(t, domain.EmotionHappiness, coord.Current().Emotion)

	// A's response arrives after B's and must not win
	close(blockA)
	wg.Wait()
	assert.Equal(t, domain.EmotionHappiness, coord.Current().Emotion)
	assert.False(t, coord.Loading())
}

func TestLoadFailureKeepsPreviousSet(t *testing.T) {
	client := &fakeRecClient{sets: map[domain.Emotion]*domain.RecommendationSet{
		domain.EmotionHappiness: setFor(domain.EmotionHappiness),
	}}
	coord := recommend.NewCoordinator(client, &fakeTracker{}, &recordingOpener{})

	coord.LoadFor(context.Background(), domain.EmotionHappiness)
	client.err = errors.New("service down")
	coord.LoadFor(context.Background(), domain.EmotionAnger)

	require.NotNil(t, coord.Current())
	assert.Equal(t, domain.EmotionHappiness, coord.Current().Emotion)
	assert.False(t, coord.Loading())
}

func TestClickOpensLinkEvenWhenTrackingFails(t *testing.T) {
	tracker := &fakeTracker{err: errors.New("sink down"), done: make(chan struct{})}
	opener := &recordingOpener{}
	coord := recommend.NewCoordinator(&fakeRecClient{}, tracker, opener)

	item := domain.RecommendationItem{
		Category: domain.CategoryMusic,
		Title:    "Lo-fi beats",
		Link:     "https://example.com/a",
	}
	coord.Click(context.Background(), item, "sess", domain.EmotionHappiness, "log-1")

	// link opened synchronously, before tracking resolved
	require.Equal(t, []string{"https://example.com/a"}, opener.opened)

	select {
	case <-tracker.done:
	case <-time.After(time.Second):
		t.Fatal("tracking call never happened")
	}

	ev := tracker.events[0]
	assert.Equal(t, domain.SessionID("sess"), ev.SessionID)
	assert.Equal(t, domain.CategoryMusic, ev.Category)
	assert.Equal(t, "Lo-fi beats", ev.Title)
}

func TestClickWithoutLinkStillTracks(t *testing.T) {
	tracker := &fakeTracker{done: make(chan struct{})}
	opener := &recordingOpener{}
	coord := recommend.NewCoordinator(&fakeRecClient{}, tracker, opener)

	item := domain.RecommendationItem{Category: domain.CategoryFood, Title: "Soto ayam"}
	coord.Click(context.Background(), item, "sess", domain.EmotionSadness, "")

	assert.Empty(t, opener.opened)
	select {
	case <-tracker.done:
	case <-time.After(time.Second):
		t.Fatal("tracking call never happened")
	}
}

func TestClearDropsSetAndInFlightLoad(t *testing.T) {
	block := make(chan struct{})
	client := &fakeRecClient{
		sets:   map[domain.Emotion]*domain.RecommendationSet{domain.EmotionFear: setFor(domain.EmotionFear)},
		blocks: map[domain.Emotion]chan struct{}{domain.EmotionFear: block},
	}
	coord := recommend.NewCoordinator(client, &fakeTracker{}, &recordingOpener{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		coord.LoadFor(context.Background(), domain.EmotionFear)
	}()

	require.Eventually(t, coord.Loading, time.Second, time.Millisecond)
	coord.Clear()
	close(block)
	wg.Wait()

	assert.Nil(t, coord.Current(), "a load cleared away must not resurface")
	assert.False(t, coord.Loading())
}
