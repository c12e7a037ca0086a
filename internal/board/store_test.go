package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/board-sync/internal/domain"
)

func ticket(id string, status domain.TicketStatus) domain.Ticket {
	return domain.Ticket{ID: id, ProjectID: "p1", Title: "ticket " + id, Status: status}
}

func ids(tickets []domain.Ticket) []string {
	out := make([]string, len(tickets))
	for i, t := range tickets {
		out[i] = t.ID
	}
	return out
}

func TestStoreUpsertReplacesInPlace(t *testing.T) {
	s := NewStore()
	s.Upsert(ticket("a", domain.TicketStatusToDo))
	s.Upsert(ticket("b", domain.TicketStatusToDo))
	s.Upsert(ticket("c", domain.TicketStatusToDo))

	updated := ticket("b", domain.TicketStatusToDo)
	updated.Title = "renamed"
	s.Upsert(updated)

	require.Equal(t, []string{"a", "b", "c"}, ids(s.All()))
	got, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, "renamed", got.Title)
}

func TestStoreRemoveUnknownIsNoop(t *testing.T) {
	s := NewStore()
	s.Upsert(ticket("a", domain.TicketStatusToDo))
	before := s.Version()

	s.Remove("missing")

	assert.Equal(t, before, s.Version())
	assert.Equal(t, 1, s.Len())
}

func TestStoreMoveWithinArrayMoveSemantics(t *testing.T) {
	s := NewStore()
	s.Upsert(ticket("a", domain.TicketStatusInProgress))
	s.Upsert(ticket("x", domain.TicketStatusDone))
	s.Upsert(ticket("b", domain.TicketStatusInProgress))
	s.Upsert(ticket("c", domain.TicketStatusInProgress))

	// Drag c above a: [a b c] -> [c a b].
	require.True(t, s.MoveWithin(domain.TicketStatusInProgress, "c", "a"))

	cols := Project(s.All(), domain.StatusOrder)
	assert.Equal(t, []string{"c", "a", "b"}, ids(cols[1].Tickets))
	// The other column keeps its member and nothing is duplicated.
	assert.Equal(t, []string{"x"}, ids(cols[2].Tickets))
	assert.Equal(t, 4, s.Len())
}

func TestStoreMoveWithinRepeatedMoves(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"a", "b", "c", "d"} {
		s.Upsert(ticket(id, domain.TicketStatusToDo))
	}

	require.True(t, s.MoveWithin(domain.TicketStatusToDo, "a", "d")) // [b c d a]
	require.True(t, s.MoveWithin(domain.TicketStatusToDo, "c", "b")) // [c b d a]
	require.True(t, s.MoveWithin(domain.TicketStatusToDo, "d", "d")) // no-op

	cols := Project(s.All(), domain.StatusOrder)
	assert.Equal(t, []string{"c", "b", "d", "a"}, ids(cols[0].Tickets))
	assert.Equal(t, 4, s.Len())
}

func TestStoreMoveWithinOntoItself(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"a", "b", "c"} {
		s.Upsert(ticket(id, domain.TicketStatusToDo))
	}
	before := s.Version()

	// Dropping a ticket onto itself succeeds and changes nothing.
	require.True(t, s.MoveWithin(domain.TicketStatusToDo, "b", "b"))

	assert.Equal(t, []string{"a", "b", "c"}, ids(s.All()))
	assert.Equal(t, before, s.Version())
}

func TestStoreMoveWithinUnknownIDs(t *testing.T) {
	s := NewStore()
	s.Upsert(ticket("a", domain.TicketStatusToDo))
	s.Upsert(ticket("b", domain.TicketStatusDone))

	// b is in another column, so the move must not apply.
	assert.False(t, s.MoveWithin(domain.TicketStatusToDo, "a", "b"))
	assert.False(t, s.MoveWithin(domain.TicketStatusToDo, "missing", "a"))
}

func TestStoreReplaceDiscardsEverything(t *testing.T) {
	s := NewStore()
	s.Upsert(ticket("a", domain.TicketStatusToDo))
	s.Replace([]domain.Ticket{ticket("z", domain.TicketStatusDone)})

	assert.Equal(t, []string{"z"}, ids(s.All()))
	_, ok := s.Get("a")
	assert.False(t, ok)
}

func TestStoreUpsertIdempotent(t *testing.T) {
	s := NewStore()
	record := ticket("a", domain.TicketStatusDone)
	s.Upsert(record)
	first := s.All()

	// A duplicate acknowledgment replays the same record.
	s.Upsert(record)

	assert.Equal(t, first, s.All())
}
