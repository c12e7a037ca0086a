package events

import (
	"time"

	"github.com/spec-kit/board-sync/internal/domain"
)

// Type enumerates event identifiers as they appear on the wire.
type Type string

const (
	// Inbound realtime events, names matching the channel protocol.
	TypeTicketCreated Type = "ticket-created"
	TypeTicketUpdated Type = "ticket-updated"
	TypeTicketDeleted Type = "ticket-deleted"
	TypeNotification  Type = "notification"

	// Local engine events published to the host.
	TypeEditConfirmed  Type = "edit-confirmed"
	TypeEditRolledBack Type = "edit-rolled-back"
)

// Envelope is the event payload exchanged over the realtime channel and
// re-published to host subscribers. Ticket is set for created/updated
// events; deleted events carry only TicketID.
type Envelope struct {
	ID           string         `json:"id"`
	Type         Type           `json:"type"`
	ProjectID    string         `json:"project"`
	Ticket       *domain.Ticket `json:"ticket,omitempty"`
	TicketID     string         `json:"ticketId,omitempty"`
	Notification *Notification  `json:"notification,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Notification is a human-readable message scoped to a project.
type Notification struct {
	ID             string    `json:"_id"`
	Message        string    `json:"message"`
	RelatedProject string    `json:"relatedProject"`
	RelatedTicket  string    `json:"relatedTicket,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SubjectTicketID returns the id of the ticket the envelope refers to,
// whichever field carries it.
func (e Envelope) SubjectTicketID() string {
	if e.Ticket != nil && e.Ticket.ID != "" {
		return e.Ticket.ID
	}
	return e.TicketID
}
