package domain

import "time"

// TicketStatus enumerates board columns a ticket can occupy.
type TicketStatus string

const (
	TicketStatusToDo       TicketStatus = "To Do"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusDone       TicketStatus = "Done"
	TicketStatusBlocked    TicketStatus = "Blocked"
)

// StatusOrder is the canonical left-to-right column order of the board.
var StatusOrder = []TicketStatus{
	TicketStatusToDo,
	TicketStatusInProgress,
	TicketStatusDone,
	TicketStatusBlocked,
}

// DefaultStatus is the fallback column for tickets carrying an
// unrecognized status value.
const DefaultStatus = TicketStatusToDo

// KnownStatus reports whether s is one of the board's columns.
func KnownStatus(s TicketStatus) bool {
	for _, candidate := range StatusOrder {
		if candidate == s {
			return true
		}
	}
	return false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// TicketType enumerates the kind of work a ticket tracks.
type TicketType string

const (
	TicketTypeBug     TicketType = "Bug"
	TicketTypeFeature TicketType = "Feature"
	TicketTypeTask    TicketType = "Task"
)

// Ticket is a single work item on the board.
type Ticket struct {
	ID          string         `json:"_id"`
	ProjectID   string         `json:"project"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority"`
	Type        TicketType     `json:"type"`
	AssigneeID  *string        `json:"assignee,omitempty"`
	ReporterID  string         `json:"reporter"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
