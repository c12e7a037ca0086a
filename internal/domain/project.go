package domain

import (
	"errors"
	"time"
)

// ProjectStatus enumerates project lifecycle states.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// ErrOwnerNotRemovable is returned when a membership change would strip
// the project owner.
var ErrOwnerNotRemovable = errors.New("project owner cannot be removed from team")

// Project groups tickets and the users allowed to work on them.
type Project struct {
	ID          string        `json:"_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	OwnerID     string        `json:"owner"`
	MemberIDs   []string      `json:"teamMembers"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// IsMember reports whether userID belongs to the project. The owner is
// a member whether or not it appears in MemberIDs.
func (p *Project) IsMember(userID string) bool {
	if userID == p.OwnerID {
		return true
	}
	for _, id := range p.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AddMember records a new team member. Adding an existing member or the
// owner is a no-op.
func (p *Project) AddMember(userID string) {
	if p.IsMember(userID) {
		return
	}
	p.MemberIDs = append(p.MemberIDs, userID)
}

// RemoveMember drops a team member. The owner is never removable.
func (p *Project) RemoveMember(userID string) error {
	if userID == p.OwnerID {
		return ErrOwnerNotRemovable
	}
	for i, id := range p.MemberIDs {
		if id == userID {
			p.MemberIDs = append(p.MemberIDs[:i], p.MemberIDs[i+1:]...)
			return nil
		}
	}
	return nil
}
