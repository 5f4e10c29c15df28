package domain

import "time"

type SessionID string
type MessageID string
type EmotionLogID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Emotion is one of the seven labels the classification service knows.
type Emotion string

const (
	EmotionHappiness Emotion = "Happiness"
	EmotionSadness   Emotion = "Sadness"
	EmotionAnger     Emotion = "Anger"
	EmotionFear      Emotion = "Fear"
	EmotionSurprise  Emotion = "Surprise"
	EmotionDisgust   Emotion = "Disgust"
	EmotionNeutral   Emotion = "Neutral"
)

// Emotions lists every known label in a stable order.
func Emotions() []Emotion {
	return []Emotion{
		EmotionHappiness,
		EmotionSadness,
		EmotionAnger,
		EmotionFear,
		EmotionSurprise,
		EmotionDisgust,
		EmotionNeutral,
	}
}

// Known reports whether the label is one the model was trained on.
// The server owns the label set, so an unknown label is data, not an error.
func (e Emotion) Known() bool {
	for _, known := range Emotions() {
		if e == known {
			return true
		}
	}
	return false
}

type Timestamp = time.Time
