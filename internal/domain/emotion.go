package domain

// EmotionResult is the outcome of one successful detection. Immutable
// once created; an append-only history of results accumulates per
// session and the most recent one is the "current" result.
type EmotionResult struct {
	LogID            EmotionLogID
	SessionID        SessionID
	Emotion          Emotion
	Confidence       float64
	AllProbabilities map[Emotion]float64
	FaceDetected     bool
	InitialGreeting  string
	DetectedAt       Timestamp
}

// EmotionLog is one server-side detection record, as returned by the
// per-session history endpoint.
type EmotionLog struct {
	ID           EmotionLogID
	SessionID    SessionID
	Emotion      Emotion
	Confidence   float64
	FaceDetected bool
	Timestamp    Timestamp
}

// EmotionStats aggregates detections across all sessions.
type EmotionStats struct {
	TotalDetections int
	EmotionCounts   map[Emotion]int
}
