package board

import "github.com/spec-kit/board-sync/internal/domain"

// Column is one derived board column: a status and the tickets assigned
// to it, in sequence order. Columns are never persisted.
type Column struct {
	Status  domain.TicketStatus
	Tickets []domain.Ticket
}

// Project groups tickets into columns following statusOrder. Grouping
// is stable: within a column, tickets keep their relative order from
// the input sequence. Tickets with an unrecognized status are bucketed
// into the first column rather than dropped.
func Project(tickets []domain.Ticket, statusOrder []domain.TicketStatus) []Column {
	if len(statusOrder) == 0 {
		return nil
	}

	columns := make([]Column, len(statusOrder))
	position := make(map[domain.TicketStatus]int, len(statusOrder))
	for i, status := range statusOrder {
		columns[i] = Column{Status: status}
		position[status] = i
	}

	for _, t := range tickets {
		i, ok := position[t.Status]
		if !ok {
			i = 0 // fallback column
		}
		columns[i].Tickets = append(columns[i].Tickets, t)
	}
	return columns
}
