package models

import "time"

// MatchResult records one pairing decision between a fact find and an
// automation form.
type MatchResult struct {
	ID              string    `json:"id"`
	CaseID          string    `json:"case_id,omitempty"`
	FactFindEmail   string    `json:"fact_find_email"`
	AutomationEmail string    `json:"automation_email"`
	ClientName      string    `json:"client_name,omitempty"`
	Confidence      float64   `json:"confidence"`
	Reasons         []string  `json:"match_reasons"`
	MatchedAt       time.Time `json:"matched_at"`
}

// MatchStatistics summarizes the matcher's state for the status endpoint.
type MatchStatistics struct {
	TotalFactFinds           int     `json:"total_fact_finds"`
	TotalAutomationForms     int     `json:"total_automation_forms"`
	TotalMatches             int     `json:"total_matches"`
	ConfidentMatches         int     `json:"confident_matches"`
	AverageConfidence        float64 `json:"average_confidence"`
	UnmatchedFactFinds       int     `json:"unmatched_fact_finds"`
	UnmatchedAutomationForms int     `json:"unmatched_automation_forms"`
}
