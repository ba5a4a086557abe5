package domain

import "time"

// MetricField names a counter of the engagement document.
type MetricField string

const (
	MetricViews          MetricField = "views"
	MetricLikes          MetricField = "likes"
	MetricComments       MetricField = "comments"
	MetricClickThroughs  MetricField = "clickThroughs"
	MetricEngagementTime MetricField = "engagementTime"
)

// Valid reports whether f is a known counter.
func (f MetricField) Valid() bool {
	switch f {
	case MetricViews, MetricLikes, MetricComments, MetricClickThroughs, MetricEngagementTime:
		return true
	}
	return false
}

// Metrics captures engagement counters of one portfolio. EngagementTime is in seconds.
type Metrics struct {
	ID             string
	PortfolioID    string
	UserID         string
	Views          int64
	Likes          int64
	Comments       int64
	ClickThroughs  int64
	EngagementTime int64
	LastUpdated    time.Time
}
