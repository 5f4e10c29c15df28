package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/arkanhadi/temanrasa/internal/domain"
)

// EmotionService calls the emotion-classification endpoints.
type EmotionService struct {
	c   *Client
	now func() time.Time
}

func NewEmotionService(c *Client) *EmotionService {
	return &EmotionService{c: c, now: time.Now}
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type detectRequest struct {
	Image     string `json:"image"`
	SessionID string `json:"session_id"`
}

type detectResponse struct {
	Emotion          string             `json:"emotion"`
	Confidence       float64            `json:"confidence"`
	AllProbabilities map[string]float64 `json:"all_probabilities"`
	SessionID        string             `json:"session_id"`
	InitialMessage   string             `json:"initial_message"`
	FaceDetected     bool               `json:"face_detected"`
	EmotionLogID     string             `json:"emotion_log_id,omitempty"`
}

type emotionLogResponse struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Emotion      string    `json:"emotion"`
	Confidence   float64   `json:"confidence"`
	FaceDetected bool      `json:"face_detected"`
	Timestamp    time.Time `json:"timestamp"`
}

type emotionStatsResponse struct {
	TotalDetections int            `json:"total_detections"`
	EmotionCounts   map[string]int `json:"emotion_counts"`
}

// DetectEmotion submits one frame for classification. The frame is
// wrapped as a JPEG data URL, which is the shape the webcam screenshot
// arrived in; the server strips the prefix before decoding.
func (s *EmotionService) DetectEmotion(ctx context.Context, frame []byte, sessionID domain.SessionID) (*domain.EmotionResult, error) {
	req := detectRequest{
		Image:     "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(frame),
		SessionID: string(sessionID),
	}

	var resp detectResponse
	if err := s.c.postJSON(ctx, "/api/emotion/detect", req, &resp); err != nil {
		return nil, fmt.Errorf("detect emotion: %w", err)
	}

	probs := make(map[domain.Emotion]float64, len(resp.AllProbabilities))
	for label, p := range resp.AllProbabilities {
		probs[domain.Emotion(label)] = p
	}

	return &domain.EmotionResult{
		LogID:            domain.EmotionLogID(resp.EmotionLogID),
		SessionID:        domain.SessionID(resp.SessionID),
		Emotion:          domain.Emotion(resp.Emotion),
		Confidence:       resp.Confidence,
		AllProbabilities: probs,
		FaceDetected:     resp.FaceDetected,
		InitialGreeting:  resp.InitialMessage,
		DetectedAt:       s.now(),
	}, nil
}

// EmotionHistory returns the server-side detection log for a session.
func (s *EmotionService) EmotionHistory(ctx context.Context, sessionID domain.SessionID) ([]domain.EmotionLog, error) {
	var resp []emotionLogResponse
	if err := s.c.getJSON(ctx, "/api/emotion/history/"+string(sessionID), &resp); err != nil {
		return nil, fmt.Errorf("emotion history: %w", err)
	}

	logs := make([]domain.EmotionLog, 0, len(resp))
	for _, l := range resp {
		logs = append(logs, domain.EmotionLog{
			ID:           domain.EmotionLogID(l.ID),
			SessionID:    domain.SessionID(l.SessionID),
			Emotion:      domain.Emotion(l.Emotion),
			Confidence:   l.Confidence,
			FaceDetected: l.FaceDetected,
			Timestamp:    l.Timestamp,
		})
	}
	return logs, nil
}

// EmotionStats returns detection counts across all sessions.
func (s *EmotionService) EmotionStats(ctx context.Context) (*domain.EmotionStats, error) {
	var resp emotionStatsResponse
	if err := s.c.getJSON(ctx, "/api/emotion/stats", &resp); err != nil {
		return nil, fmt.Errorf("emotion stats: %w", err)
	}

	counts := make(map[domain.Emotion]int, len(resp.EmotionCounts))
	for label, n := range resp.EmotionCounts {
		counts[domain.Emotion(label)] = n
	}

	return &domain.EmotionStats{
		TotalDetections: resp.TotalDetections,
		EmotionCounts:   counts,
	}, nil
}
