package model

// Notification priorities.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// Notification is a single alert pushed to the employee, either over
// the live stream or fetched from the paginated list endpoint. Identity
// is the integer ID; a notification arriving with a known ID replaces
// the stored entry rather than duplicating it.
type Notification struct {
	ID int `json:"id"`

	// NotificationType and TypeAlias both exist because the backend
	// emits the type under "notification_type" on the REST list and
	// under "type" on the stream. Use Kind to read it.
	NotificationType string `json:"notification_type"`
	TypeAlias        string `json:"type"`

	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority string `json:"priority"`

	IsRead bool   `json:"is_read"`
	ReadAt string `json:"read_at"`

	IsConfirmed bool   `json:"is_confirmed"`
	ConfirmedAt string `json:"confirmed_at"`

	CreatedAt  string `json:"created_at"`
	SentAt     string `json:"sent_at"`
	LastSentAt string `json:"last_sent_at"`
	SendCount  *int   `json:"send_count"`

	// Data holds backend-specific extras (e.g. client_name).
	Data map[string]string `json:"data"`

	// Linkage to a project, either as a bare id plus denormalized
	// fields or as a nested object, depending on the emitting code
	// path on the backend.
	RelatedProject *int         `json:"related_project"`
	ProjectName    string       `json:"project_name"`
	ClientName     string       `json:"client_name"`
	Project        *ProjectInfo `json:"project"`

	RelatedMaintenance   *int   `json:"related_maintenance"`
	MaintenanceStartDate string `json:"maintenance_start_date"`

	RelatedProduct  *int   `json:"related_product"`
	ProductName     string `json:"product_name"`
	ProductQuantity *int   `json:"product_quantity"`

	AgeInSeconds         *int  `json:"age_in_seconds"`
	IsUrgent             *bool `json:"is_urgent"`
	RequiresConfirmation *bool `json:"requires_confirmation"`
}

// ProjectInfo is the nested project reference some notification types carry.
type ProjectInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Kind returns the notification type regardless of which field the
// backend populated, or "UNKNOWN" when neither is set.
func (n Notification) Kind() string {
	if n.TypeAlias != "" {
		return n.TypeAlias
	}
	if n.NotificationType != "" {
		return n.NotificationType
	}
	return "UNKNOWN"
}

// ProjectLabel returns the project name from whichever field carries it.
func (n Notification) ProjectLabel() string {
	if n.ProjectName != "" {
		return n.ProjectName
	}
	if n.Project != nil {
		return n.Project.Name
	}
	return ""
}

// ClientLabel returns the client name from the direct field or the data map.
func (n Notification) ClientLabel() string {
	if n.ClientName != "" {
		return n.ClientName
	}
	return n.Data["client_name"]
}

// calendarRefreshKinds are the notification types that invalidate the
// currently displayed calendar.
var calendarRefreshKinds = map[string]bool{
	"PROJECT_ASSIGNED":          true,
	"PROJECT_STARTING_SOON":     true,
	"PROJECT_MODIFIED":          true,
	"PROJECT_DELETED":           true,
	"MAINTENANCE_STARTING_SOON": true,
	"MAINTENANCE_ADDED":         true,
	"MAINTENANCE_MODIFIED":      true,
	"MAINTENANCE_DELETED":       true,
}

// TriggersCalendarRefresh reports whether this notification's type
// should cause the calendar view to re-fetch.
func (n Notification) TriggersCalendarRefresh() bool {
	return calendarRefreshKinds[n.Kind()]
}

// NotificationResponse is one page of the paginated notification list.
type NotificationResponse struct {
	Count    int            `json:"count"`
	Next     string         `json:"next"`
	Previous string         `json:"previous"`
	Results  []Notification `json:"results"`
}

// UnreadCountResponse is the unread-count endpoint payload.
type UnreadCountResponse struct {
	Count int `json:"count"`
}
