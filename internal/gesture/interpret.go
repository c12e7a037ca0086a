package gesture

import (
	"go.uber.org/zap"

	"github.com/spec-kit/board-sync/internal/domain"
	"github.com/spec-kit/board-sync/pkg/util"
)

// Gesture is the resolved output of the host's drag tracking: which
// item was dragged, what it was dropped over, and the containers the
// drag started and ended in. Collision detection happens upstream.
type Gesture struct {
	ActiveID        string
	OverID          string
	SourceContainer string
	DestContainer   string
}

// Intent is what a completed drag means, stripped of pointer mechanics.
type Intent interface {
	TicketID() string
}

// Transition moves a ticket to another column.
type Transition struct {
	ID         string
	FromStatus domain.TicketStatus
	ToStatus   domain.TicketStatus
}

// TicketID implements Intent.
func (t Transition) TicketID() string { return t.ID }

// Reorder moves a ticket to the position occupied by another ticket
// within the same column.
type Reorder struct {
	ID     string
	OverID string
	Status domain.TicketStatus
}

// TicketID implements Intent.
func (r Reorder) TicketID() string { return r.ID }

// Interpreter turns gestures into intents.
type Interpreter struct {
	logger *zap.Logger
}

// NewInterpreter creates an Interpreter.
func NewInterpreter(logger *zap.Logger) *Interpreter {
	return &Interpreter{logger: logger.Named("gesture")}
}

// Interpret resolves a gesture into an intent. Abandoned or malformed
// gestures produce no intent and never an error: the board state is
// simply left alone.
func (in *Interpreter) Interpret(g Gesture) (Intent, bool) {
	if g.OverID == "" {
		// Dropped outside any target: gesture abandoned.
		return nil, false
	}
	if g.ActiveID == "" || g.SourceContainer == "" || g.DestContainer == "" {
		in.logger.Debug("invalid drag gesture",
			zap.Error(util.NewInvalidGesture("drag gesture missing ids", map[string]any{
				"active_id": g.ActiveID,
				"source":    g.SourceContainer,
				"dest":      g.DestContainer,
			})))
		return nil, false
	}

	source := domain.TicketStatus(g.SourceContainer)
	dest := domain.TicketStatus(g.DestContainer)
	if !domain.KnownStatus(source) || !domain.KnownStatus(dest) {
		in.logger.Debug("drag gesture references unknown column",
			zap.String("source", g.SourceContainer),
			zap.String("dest", g.DestContainer))
		return nil, false
	}

	if source != dest {
		return Transition{ID: g.ActiveID, FromStatus: source, ToStatus: dest}, true
	}
	return Reorder{ID: g.ActiveID, OverID: g.OverID, Status: source}, true
}
