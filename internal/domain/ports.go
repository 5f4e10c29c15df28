package domain

import "context"

// DetectionClient is the remote emotion-classification service. The
// frame is raw JPEG bytes at the source's native resolution; the
// adapter is responsible for the wire encoding.
type DetectionClient interface {
	DetectEmotion(ctx context.Context, frame []byte, sessionID SessionID) (*EmotionResult, error)
	EmotionHistory(ctx context.Context, sessionID SessionID) ([]EmotionLog, error)
	EmotionStats(ctx context.Context) (*EmotionStats, error)
}

// ChatTurnRequest is everything the conversational service needs for
// one turn. History holds all prior messages of the log, oldest first.
type ChatTurnRequest struct {
	Emotion      Emotion
	Message      string
	SessionID    SessionID
	EmotionLogID EmotionLogID
	History      []ChatHistoryEntry
}

// ChatReply is the conversational service's answer to one turn.
type ChatReply struct {
	Response  string
	Emergency bool
	Hotlines  []Hotline
}

// ChatClient is the remote conversational service.
type ChatClient interface {
	SendTurn(ctx context.Context, req ChatTurnRequest) (*ChatReply, error)
}

// RecommendationClient is the remote recommendation service.
type RecommendationClient interface {
	Recommendations(ctx context.Context, emotion Emotion) (*RecommendationSet, error)
	PopularRecommendations(ctx context.Context) ([]PopularRecommendation, error)
}

// ClickEvent describes one recommendation click for the telemetry sink.
type ClickEvent struct {
	SessionID    SessionID
	EmotionLogID EmotionLogID
	Emotion      Emotion
	Category     RecommendationCategory
	Title        string
}

// ClickTracker is the click-telemetry sink. Callers treat it as
// fire-and-forget: a tracking failure is logged, never surfaced.
type ClickTracker interface {
	TrackClick(ctx context.Context, ev ClickEvent) error
}

// AdminClient is the remote admin-auth/dashboard service.
type AdminClient interface {
	Login(ctx context.Context, username, password string) (*AdminSession, error)
	DashboardStats(ctx context.Context, timeRange string) (*DashboardStats, error)
}

// FrameSource produces one still frame from a live video source.
// Implementations must not downscale: downstream face detection needs
// the native resolution.
type FrameSource interface {
	Still(ctx context.Context) ([]byte, error)
}

// SessionStore persists the one session id of a browsing session.
// Load returns ("", nil) when no id has been persisted yet.
type SessionStore interface {
	Load() (SessionID, error)
	Save(id SessionID) error
}

// TokenStore keeps the admin bearer token across runs. Token returns
// "" when absent, which is normal for non-admin usage.
type TokenStore interface {
	Token() string
	SetToken(token string) error
	Clear() error
}

// LinkOpener hands a recommendation link to whatever shows it to the
// user (a browser, usually). Opening happens before click tracking.
type LinkOpener interface {
	Open(url string) error
}
