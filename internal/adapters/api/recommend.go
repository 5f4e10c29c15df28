package api

import (
	"context"
	"fmt"

	"github.com/arkanhadi/temanrasa/internal/domain"
)

// RecommendationService calls the recommendation endpoints and the
// click-telemetry sink.
type RecommendationService struct {
	c *Client
}

func NewRecommendationService(c *Client) *RecommendationService {
	return &RecommendationService{c: c}
}

type recommendationsRequest struct {
	Emotion string `json:"emotion"`
}

type recommendationItemResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Link        string `json:"link,omitempty"`
}

type recommendationsResponse struct {
	Emotion  string                       `json:"emotion"`
	Music    []recommendationItemResponse `json:"music"`
	Food     []recommendationItemResponse `json:"food"`
	Activity []recommendationItemResponse `json:"activity"`
}

type trackClickRequest struct {
	Emotion      string `json:"emotion"`
	Category     string `json:"category"`
	Title        string `json:"title"`
	SessionID    string `json:"session_id"`
	EmotionLogID string `json:"emotion_log_id"`
}

type popularResponse struct {
	Popular []struct {
		Emotion    string `json:"emotion"`
		Category   string `json:"category"`
		Title      string `json:"title"`
		ClickCount int    `json:"click_count"`
	} `json:"popular"`
}

// Recommendations fetches the categorized suggestions for one emotion.
func (s *RecommendationService) Recommendations(ctx context.Context, emotion domain.Emotion) (*domain.RecommendationSet, error) {
	var resp recommendationsResponse
	if err := s.c.postJSON(ctx, "/api/recommendations/", recommendationsRequest{Emotion: string(emotion)}, &resp); err != nil {
		return nil, fmt.Errorf("fetch recommendations: %w", err)
	}

	return &domain.RecommendationSet{
		Emotion:  domain.Emotion(resp.Emotion),
		Music:    toItems(resp.Music, domain.CategoryMusic),
		Food:     toItems(resp.Food, domain.CategoryFood),
		Activity: toItems(resp.Activity, domain.CategoryActivity),
	}, nil
}

// TrackClick reports one recommendation click. Callers already opened
// the link; they only log a failure here.
func (s *RecommendationService) TrackClick(ctx context.Context, ev domain.ClickEvent) error {
	req := trackClickRequest{
		Emotion:      string(ev.Emotion),
		Category:     string(ev.Category),
		Title:        ev.Title,
		SessionID:    string(ev.SessionID),
		EmotionLogID: string(ev.EmotionLogID),
	}
	if err := s.c.postJSON(ctx, "/api/recommendations/track", req, nil); err != nil {
		return fmt.Errorf("track click: %w", err)
	}
	return nil
}

// PopularRecommendations returns the click leaderboard (admin only).
func (s *RecommendationService) PopularRecommendations(ctx context.Context) ([]domain.PopularRecommendation, error) {
	var resp popularResponse
	if err := s.c.getJSON(ctx, "/api/recommendations/popular", &resp); err != nil {
		return nil, fmt.Errorf("popular recommendations: %w", err)
	}

	popular := make([]domain.PopularRecommendation, 0, len(resp.Popular))
	for _, p := range resp.Popular {
		popular = append(popular, domain.PopularRecommendation{
			Emotion:    domain.Emotion(p.Emotion),
			Category:   domain.RecommendationCategory(p.Category),
			Title:      p.Title,
			ClickCount: p.ClickCount,
		})
	}
	return popular, nil
}

func toItems(items []recommendationItemResponse, cat domain.RecommendationCategory) []domain.RecommendationItem {
	out := make([]domain.RecommendationItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.RecommendationItem{
			Category:    cat,
			Title:       it.Title,
			Description: it.Description,
			Link:        it.Link,
		})
	}
	return out
}
