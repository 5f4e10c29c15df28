package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arkanhadi/temanrasa/internal/domain"
	"github.com/arkanhadi/temanrasa/internal/observability"
)

// fallbackMessage keeps the thread coherent when a turn fails; the
// log never shows a failed-request hole.
const fallbackMessage = "Maaf, terjadi kesalahan. Silakan coba lagi."

// ErrSendInFlight rejects a turn while the previous one has not
// resolved. Sends are strictly serialized so replies can never land in
// the log out of order.
var ErrSendInFlight = errors.New("a chat turn is already being sent")

// Manager exclusively owns the ordered conversation log. Messages are
// append-only, ordered by append time, and cleared only by Clear.
type Manager struct {
	mu      sync.Mutex
	client  domain.ChatClient
	now     func() time.Time
	log     []domain.Message
	sending bool
}

func NewManager(client domain.ChatClient) *Manager {
	return &Manager{
		client: client,
		now:    time.Now,
	}
}

// Messages returns a copy of the log in append order.
func (m *Manager) Messages() []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]domain.Message, len(m.log))
	copy(copied, m.log)
	return copied
}

// Sending reports whether a turn is in flight.
func (m *Manager) Sending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sending
}

// AddAssistantGreeting appends an assistant message directly,
// bypassing the network. Used for the post-detection greeting.
func (m *Manager) AddAssistantGreeting(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log = append(m.log, m.newMessage(domain.RoleAssistant, text))
}

// Clear empties the log unconditionally.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log = nil
}

// SendTurn appends the user message optimistically, then issues one
// conversational request carrying all prior messages as history. The
// assistant reply, or the fixed fallback when the request fails, is
// appended at the log's tail once the call resolves. A remote failure
// is absorbed into the fallback, not returned; the only error is
// ErrSendInFlight.
func (m *Manager) SendTurn(ctx context.Context, text string, emotion domain.Emotion, sessionID domain.SessionID, emotionLogID domain.EmotionLogID) error {
	m.mu.Lock()
	if m.sending {
		m.mu.Unlock()
		return ErrSendInFlight
	}

	// History covers everything before this turn's user message.
	history := make([]domain.ChatHistoryEntry, 0, len(m.log))
	for _, msg := range m.log {
		history = append(history, domain.ChatHistoryEntry{
			Role:    string(msg.Author),
			Content: msg.Content,
		})
	}

	// Optimistic append: visible before any network activity resolves.
	m.log = append(m.log, m.newMessage(domain.RoleUser, text))
	m.sending = true
	m.mu.Unlock()

	ctx = observability.WithSessionID(ctx, string(sessionID))
	log := observability.LoggerFromContext(ctx)

	reply, err := m.client.SendTurn(ctx, domain.ChatTurnRequest{
		Emotion:      emotion,
		Message:      text,
		SessionID:    sessionID,
		EmotionLogID: emotionLogID,
		History:      history,
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sending = false

	if err != nil {
		log.Error("chat turn failed", "error", err)
		m.log = append(m.log, m.newMessage(domain.RoleAssistant, fallbackMessage))
		return nil
	}

	assistant := m.newMessage(domain.RoleAssistant, reply.Response)
	assistant.Emergency = reply.Emergency
	assistant.Hotlines = reply.Hotlines
	m.log = append(m.log, assistant)

	if reply.Emergency {
		log.Warn("crisis reply", "hotline_count", len(reply.Hotlines))
	}
	return nil
}

func (m *Manager) newMessage(author domain.Role, content string) domain.Message {
	return domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		Author:    author,
		Content:   content,
		CreatedAt: m.now(),
	}
}
