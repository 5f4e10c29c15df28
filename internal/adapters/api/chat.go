package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/arkanhadi/temanrasa/internal/domain"
)

// ChatService calls the conversational endpoint.
type ChatService struct {
	c *Client
}

func NewChatService(c *Client) *ChatService {
	return &ChatService{c: c}
}

type chatHistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Emotion      string             `json:"emotion"`
	Message      string             `json:"message"`
	SessionID    string             `json:"session_id"`
	EmotionLogID string             `json:"emotion_log_id"`
	History      []chatHistoryEntry `json:"history"`
}

type chatResponse struct {
	Response  string   `json:"response"`
	Emergency bool     `json:"emergency"`
	Hotlines  []string `json:"hotlines,omitempty"`
}

// SendTurn sends one user message with its conversational context and
// returns the assistant reply.
func (s *ChatService) SendTurn(ctx context.Context, req domain.ChatTurnRequest) (*domain.ChatReply, error) {
	// emotion_log_id is required on the wire, empty string when unknown
	history := make([]chatHistoryEntry, 0, len(req.History))
	for _, h := range req.History {
		history = append(history, chatHistoryEntry{Role: h.Role, Content: h.Content})
	}

	wire := chatRequest{
		Emotion:      string(req.Emotion),
		Message:      req.Message,
		SessionID:    string(req.SessionID),
		EmotionLogID: string(req.EmotionLogID),
		History:      history,
	}

	var resp chatResponse
	if err := s.c.postJSON(ctx, "/api/chat/", wire, &resp); err != nil {
		return nil, fmt.Errorf("send chat turn: %w", err)
	}

	hotlines := make([]domain.Hotline, 0, len(resp.Hotlines))
	for _, raw := range resp.Hotlines {
		hotlines = append(hotlines, parseHotline(raw))
	}

	return &domain.ChatReply{
		Response:  resp.Response,
		Emergency: resp.Emergency,
		Hotlines:  hotlines,
	}, nil
}

type chatLogResponse struct {
	ID           string    `json:"id"`
	EmotionLogID string    `json:"emotion_log_id"`
	SessionID    string    `json:"session_id"`
	Message      string    `json:"message"`
	Response     string    `json:"response"`
	IsUser       bool      `json:"is_user"`
	IsCrisis     bool      `json:"is_crisis"`
	Timestamp    time.Time `json:"timestamp"`
}

type chatHistoryResponse struct {
	SessionID string            `json:"session_id"`
	Logs      []chatLogResponse `json:"logs"`
}

// History returns the server-side chat log for a session, newest
// first. limit <= 0 takes the server default.
func (s *ChatService) History(ctx context.Context, sessionID domain.SessionID, limit int) ([]domain.ChatLog, error) {
	path := "/api/chat/history/" + string(sessionID)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var resp chatHistoryResponse
	if err := s.c.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}

	logs := make([]domain.ChatLog, 0, len(resp.Logs))
	for _, l := range resp.Logs {
		logs = append(logs, domain.ChatLog{
			ID:           domain.MessageID(l.ID),
			EmotionLogID: domain.EmotionLogID(l.EmotionLogID),
			SessionID:    domain.SessionID(l.SessionID),
			Message:      l.Message,
			Response:     l.Response,
			IsUser:       l.IsUser,
			IsCrisis:     l.IsCrisis,
			Timestamp:    l.Timestamp,
		})
	}
	return logs, nil
}

// parseHotline splits the server's display string ("📞 Name: number")
// into a typed record. The leading emoji and whitespace are
// decoration, the first colon separates name from number.
func parseHotline(raw string) domain.Hotline {
	s := strings.TrimLeftFunc(strings.TrimSpace(raw), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	name, number, found := strings.Cut(s, ":")
	if !found {
		return domain.Hotline{Name: strings.TrimSpace(s)}
	}
	return domain.Hotline{
		Name:   strings.TrimSpace(name),
		Number: strings.TrimSpace(number),
	}
}
