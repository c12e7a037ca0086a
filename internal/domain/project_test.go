package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectMembership(t *testing.T) {
	p := &Project{ID: "p1", OwnerID: "owner", MemberIDs: []string{"u1"}}

	assert.True(t, p.IsMember("owner"), "owner is implicitly a member")
	assert.True(t, p.IsMember("u1"))
	assert.False(t, p.IsMember("stranger"))

	p.AddMember("u2")
	p.AddMember("u2") // dedupe
	p.AddMember("owner")
	assert.Equal(t, []string{"u1", "u2"}, p.MemberIDs)
}

func TestProjectOwnerNeverRemovable(t *testing.T) {
	p := &Project{ID: "p1", OwnerID: "owner", MemberIDs: []string{"owner", "u1"}}

	err := p.RemoveMember("owner")
	require.ErrorIs(t, err, ErrOwnerNotRemovable)
	assert.Contains(t, p.MemberIDs, "owner")

	require.NoError(t, p.RemoveMember("u1"))
	require.NoError(t, p.RemoveMember("u1")) // unknown member is a no-op
	assert.Equal(t, []string{"owner"}, p.MemberIDs)
}

func TestKnownStatus(t *testing.T) {
	for _, s := range StatusOrder {
		assert.True(t, KnownStatus(s))
	}
	assert.False(t, KnownStatus(TicketStatus("Archived")))
	assert.Equal(t, TicketStatusToDo, DefaultStatus)
}
