// Package model defines the core domain types for the totem raffle engine.
package model

import "time"

// Role classifies a participant for eligibility purposes.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleDirector Role = "director"
)

// Participant is a person standing at the kiosk. Owned by the external
// employee directory; the engine only reads it.
type Participant struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Role     Role       `json:"role"`
	HireDate *time.Time `json:"hire_date,omitempty"`
}

// PrizeDefinition is one catalog entry: a prize name and its total
// allotment for the event. Static once loaded.
type PrizeDefinition struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// PlayRecord is the append-only ledger entry written once per completed
// play. Prize is set iff Win is true.
type PlayRecord struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Name       string    `json:"name"`
	TenureDays *int      `json:"tenure_days,omitempty"`
	Win        bool      `json:"win"`
	Prize      *string   `json:"prize,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Outcome is what the kiosk shows the participant.
type Outcome struct {
	Win   bool   `json:"win"`
	Prize string `json:"prize,omitempty"`
}

// Stats summarises the event for the admin dashboard.
type Stats struct {
	TotalPlays     int            `json:"total_plays"`
	Winners        int            `json:"winners"`
	EmergencyMode  bool           `json:"emergency_mode"`
	RemainingStock map[string]int `json:"remaining_stock"`
}

// PlayRequest is the payload for a play attempt.
type PlayRequest struct {
	EmployeeID string `json:"employee_id"`
}

// EmergencyRequest is the payload for toggling emergency mode.
type EmergencyRequest struct {
	Enabled bool `json:"enabled"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
