package domain

import "time"

// AnalyticsDaily stores aggregated compile/submit metrics for a specific day.
type AnalyticsDaily struct {
	Day             time.Time
	Compilations    int
	CompileFailures int
	JobsSubmitted   int
	SubmitFailures  int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
