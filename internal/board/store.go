package board

import "github.com/spec-kit/board-sync/internal/domain"

// Store holds the ticket set for the active project. The sequence order
// is owned by the store: columns are projected from it, so reordering a
// column means splicing this sequence. The store is not goroutine-safe;
// the reconciliation engine's loop is its only writer.
type Store struct {
	tickets []domain.Ticket
	version uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Version increments on every mutation. Hosts compare versions to skip
// redundant re-renders.
func (s *Store) Version() uint64 {
	return s.version
}

// Get returns the ticket with the given id.
func (s *Store) Get(id string) (domain.Ticket, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tickets[i], true
	}
	return domain.Ticket{}, false
}

// Upsert replaces the ticket with the same id in place, keeping its
// position in the sequence. Unknown ids are appended.
func (s *Store) Upsert(t domain.Ticket) {
	if i := s.indexOf(t.ID); i >= 0 {
		s.tickets[i] = t
	} else {
		s.tickets = append(s.tickets, t)
	}
	s.version++
}

// Remove deletes the ticket with the given id. Unknown ids are a no-op.
func (s *Store) Remove(id string) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.tickets = append(s.tickets[:i], s.tickets[i+1:]...)
	s.version++
}

// All returns a copy of the ticket sequence.
func (s *Store) All() []domain.Ticket {
	out := make([]domain.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out
}

// Len returns the number of tickets held.
func (s *Store) Len() int {
	return len(s.tickets)
}

// Replace swaps the entire ticket set, in the given order. Used for the
// initial project load and for rollback refetch.
func (s *Store) Replace(tickets []domain.Ticket) {
	s.tickets = make([]domain.Ticket, len(tickets))
	copy(s.tickets, tickets)
	s.version++
}

// SetStatus moves a ticket to another column. The ticket keeps its
// slot in the underlying sequence; the projection regroups it.
func (s *Store) SetStatus(id string, status domain.TicketStatus) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tickets[i].Status = status
	s.version++
	return true
}

// MoveWithin moves activeID to the position currently occupied by
// overID among the tickets of one column, standard array-move
// semantics. Tickets in other columns keep their sequence slots.
// Returns false when either id is not in the column.
func (s *Store) MoveWithin(status domain.TicketStatus, activeID, overID string) bool {
	slots := make([]int, 0, len(s.tickets))
	ids := make([]string, 0, len(s.tickets))
	for i, t := range s.tickets {
		if t.Status == status {
			slots = append(slots, i)
			ids = append(ids, t.ID)
		}
	}

	oldIndex, newIndex := -1, -1
	for i, id := range ids {
		if id == activeID {
			oldIndex = i
		}
		if id == overID {
			newIndex = i
		}
	}
	if oldIndex < 0 || newIndex < 0 {
		return false
	}
	if oldIndex == newIndex {
		return true
	}

	moved := ids[oldIndex]
	ids = append(ids[:oldIndex], ids[oldIndex+1:]...)
	ids = append(ids[:newIndex], append([]string{moved}, ids[newIndex:]...)...)

	byID := make(map[string]domain.Ticket, len(ids))
	for _, slot := range slots {
		byID[s.tickets[slot].ID] = s.tickets[slot]
	}
	for i, slot := range slots {
		s.tickets[slot] = byID[ids[i]]
	}
	s.version++
	return true
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.tickets {
		if t.ID == id {
			return i
		}
	}
	return -1
}
