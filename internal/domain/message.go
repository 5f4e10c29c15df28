package domain

// Hotline is an emergency contact attached to a crisis reply.
type Hotline struct {
	Name   string
	Number string
}

// Message is one entry in a conversation log (user or assistant).
// The log is append-only: a message is never mutated or reordered
// after insertion.
type Message struct {
	ID        MessageID
	Author    Role
	Content   string
	CreatedAt Timestamp

	// Set only on assistant replies flagged by the server as a crisis.
	Emergency bool
	Hotlines  []Hotline
}

// ChatHistoryEntry is a prior message projected into the role/content
// shape the conversational service expects.
type ChatHistoryEntry struct {
	Role    string
	Content string
}

// ChatLog is one server-side chat record. Unlike Message it pairs the
// user text with the reply it got, which is how the backend stores
// turns.
type ChatLog struct {
	ID           MessageID
	EmotionLogID EmotionLogID
	SessionID    SessionID
	Message      string
	Response     string
	IsUser       bool
	IsCrisis     bool
	Timestamp    Timestamp
}
