package entity

// Statistics represents aggregated tweet counts of a user
type Statistics struct {
	DraftCount     int     `json:"draft_count"`
	ScheduledCount int     `json:"scheduled_count"`
	PostedCount    int     `json:"posted_count"`
	Total          int     `json:"total"`
	AverageScore   float64 `json:"average_score"` // Mean analysis score of analyzed tweets
}
