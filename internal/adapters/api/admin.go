package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/arkanhadi/temanrasa/internal/domain"
)

// AdminService calls the admin auth and dashboard endpoints.
type AdminService struct {
	c *Client
}

func NewAdminService(c *Client) *AdminService {
	return &AdminService{c: c}
}

type adminLoginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	Email       string `json:"email"`
}

type dashboardStatsResponse struct {
	TotalDetections   int    `json:"total_detections"`
	UniqueSessions    int    `json:"unique_sessions"`
	TotalMessages     int    `json:"total_messages"`
	TotalClicks       int    `json:"total_clicks"`
	MostCommonEmotion string `json:"most_common_emotion"`
	Trends            struct {
		Detections string `json:"detections"`
		Sessions   string `json:"sessions"`
		Messages   string `json:"messages"`
		Clicks     string `json:"clicks"`
	} `json:"trends"`
}

// Login authenticates an admin. The endpoint takes form-encoded
// credentials, not JSON.
func (s *AdminService) Login(ctx context.Context, username, password string) (*domain.AdminSession, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var resp adminLoginResponse
	if err := s.c.postForm(ctx, "/api/admin/login", form, &resp); err != nil {
		return nil, fmt.Errorf("admin login: %w", err)
	}

	return &domain.AdminSession{
		AccessToken: resp.AccessToken,
		Username:    resp.Username,
		Email:       resp.Email,
	}, nil
}

// DashboardStats returns one snapshot of the dashboard counters.
func (s *AdminService) DashboardStats(ctx context.Context, timeRange string) (*domain.DashboardStats, error) {
	if timeRange == "" {
		timeRange = "30d"
	}

	var resp dashboardStatsResponse
	if err := s.c.getJSON(ctx, "/api/admin/dashboard?time_range="+url.QueryEscape(timeRange), &resp); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	return &domain.DashboardStats{
		TotalDetections:   resp.TotalDetections,
		UniqueSessions:    resp.UniqueSessions,
		TotalMessages:     resp.TotalMessages,
		TotalClicks:       resp.TotalClicks,
		MostCommonEmotion: domain.Emotion(resp.MostCommonEmotion),
		Trends: domain.DashboardTrends{
			Detections: resp.Trends.Detections,
			Sessions:   resp.Trends.Sessions,
			Messages:   resp.Trends.Messages,
			Clicks:     resp.Trends.Clicks,
		},
	}, nil
}
