package model

// Calendar event types as reported by the my-calendar endpoint.
const (
	EventTypeProject     = "project"
	EventTypeMaintenance = "maintenance"
)

// CalendarResponse is the full calendar payload for the current user.
// The event list is refreshed wholesale; the backend does not support
// incremental patches.
type CalendarResponse struct {
	UserRole       string            `json:"user_role"`
	UserName       string            `json:"user_name"`
	TotalEvents    int               `json:"total_events"`
	AppliedFilters map[string]string `json:"applied_filters"`
	Events         []CalendarEvent   `json:"events"`
}

// CalendarEvent is a single assignment on the employee's calendar,
// either a project engagement or a maintenance visit. Timestamps are
// kept as the backend's strings; the client never does date arithmetic
// on them beyond display.
type CalendarEvent struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`

	// Type is EventTypeProject or EventTypeMaintenance.
	Type string `json:"type"`

	ProjectID     int           `json:"project_id"`
	ProjectName   string        `json:"project_name"`
	ClientName    string        `json:"client_name"`
	ClientAddress ClientAddress `json:"client_address"`
	Team          []string      `json:"team"`

	Status     string `json:"status"`
	IsVerified *bool  `json:"is_verified"`

	// Project-specific fields.
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	DurationDays       *int     `json:"duration_days"`
	ProgressPercentage *float64 `json:"progress_percentage"`

	// Maintenance-specific fields.
	MaintenanceID        *int   `json:"maintenance_id"`
	MaintenanceType      string `json:"maintenance_type"`
	IsOverdue            *bool  `json:"is_overdue"`
	DaysUntilMaintenance *int   `json:"days_until_maintenance"`
}

// ClientAddress locates the client site an event takes place at.
type ClientAddress struct {
	Province   string `json:"province"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}
