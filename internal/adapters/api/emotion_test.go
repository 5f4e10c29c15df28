package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkanhadi/temanrasa/internal/domain"
)

func TestDetectEmotionWiresFrameAsDataURL(t *testing.T) {
	var got detectRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/emotion/detect", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(detectResponse{
			Emotion:          "Happiness",
			Confidence:       0.91,
			AllProbabilities: map[string]float64{"Happiness": 0.91, "Neutral": 0.09},
			SessionID:        "session-1",
			InitialMessage:   "Halo! Senang melihatmu ceria.",
			FaceDetected:     true,
			EmotionLogID:     "log-42",
		})
	})

	svc := NewEmotionService(c)
	result, err := svc.DetectEmotion(context.Background(), []byte("jpeg-bytes"), "session-1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got.Image, "data:image/jpeg;base64,"))
	assert.Equal(t, "session-1", got.SessionID)

	assert.Equal(t, domain.EmotionHappiness, result.Emotion)
	assert.Equal(t, 0.91, result.Confidence)
	assert.Equal(t, domain.EmotionLogID("log-42"), result.LogID)
	assert.Equal(t, "Halo! Senang melihatmu ceria.", result.InitialGreeting)
	assert.True(t, result.FaceDetected)
	assert.Equal(t, 0.09, result.AllProbabilities[domain.EmotionNeutral])
	assert.False(t, result.DetectedAt.IsZero())
}

func TestEmotionHistoryPathCarriesSessionID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/emotion/history/session-7", r.URL.Path)
		w.Write([]byte(`[{"id":"log-1","session_id":"session-7","emotion":"Sadness","confidence":0.61,"face_detected":true,"timestamp":"2025-06-01T10:00:00Z"}]`))
	})

	svc := NewEmotionService(c)
	logs, err := svc.EmotionHistory(context.Background(), "session-7")
	require.NoError(t, err)

	require.Len(t, logs, 1)
	assert.Equal(t, domain.EmotionSadness, logs[0].Emotion)
	assert.Equal(t, domain.EmotionLogID("log-1"), logs[0].ID)
}

func TestEmotionStatsDecodesCounts(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/emotion/stats", r.URL.Path)
		w.Write([]byte(`{"total_detections":12,"emotion_counts":{"Happiness":7,"Anger":5}}`))
	})

	svc := NewEmotionService(c)
	stats, err := svc.EmotionStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, stats.TotalDetections)
	assert.Equal(t, 7, stats.EmotionCounts[domain.EmotionHappiness])
	assert.Equal(t, 5, stats.EmotionCounts[domain.EmotionAnger])
}
