// internal/models/stats.go
package models

// MonitoringStats is the aggregate shown on the dashboard overview.
// Purely presentational; the serving layer recomputes the counts that can be
// derived from the current store contents.
type MonitoringStats struct {
	TotalBusinesses  int          `json:"totalBusinesses"`
	ActiveAlerts     int          `json:"activeAlerts"`
	AvgRating        float64      `json:"avgRating"`
	ReviewsThisMonth int          `json:"reviewsThisMonth"`
	History          []TrendPoint `json:"history"`
}
