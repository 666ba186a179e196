package models

import "time"

// EntityCounts aggregates active entity totals for the dashboard.
type EntityCounts struct {
	Students  int `db:"students" json:"students"`
	Teachers  int `db:"teachers" json:"teachers"`
	Courses   int `db:"courses" json:"courses"`
	Rooms     int `db:"rooms" json:"rooms"`
	Schedules int `db:"schedules" json:"schedules"`
}

// DashboardSummary is the aggregate payload for the admin landing page.
type DashboardSummary struct {
	Counts         EntityCounts `json:"counts"`
	LatestSchedule *Schedule    `json:"latest_schedule,omitempty"`
	GeneratedAt    time.Time    `json:"generated_at"`
}
