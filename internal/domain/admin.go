package domain

// AdminSession is the authenticated admin identity plus its bearer token.
type AdminSession struct {
	AccessToken string
	Username    string
	Email       string
}

// DashboardTrends carries the period-over-period deltas the dashboard
// renders next to each counter (e.g. "+12%").
type DashboardTrends struct {
	Detections string
	Sessions   string
	Messages   string
	Clicks     string
}

// DashboardStats is one snapshot of the admin dashboard counters.
type DashboardStats struct {
	TotalDetections   int
	UniqueSessions    int
	TotalMessages     int
	TotalClicks       int
	MostCommonEmotion Emotion
	Trends            DashboardTrends
}
