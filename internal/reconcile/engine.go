package reconcile

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/board-sync/internal/api"
	"github.com/spec-kit/board-sync/internal/board"
	"github.com/spec-kit/board-sync/internal/domain"
	"github.com/spec-kit/board-sync/internal/events"
	"github.com/spec-kit/board-sync/internal/gesture"
	"github.com/spec-kit/board-sync/internal/observability"
	"github.com/spec-kit/board-sync/internal/realtime"
	"github.com/spec-kit/board-sync/pkg/util"
)

// Backend is the slice of the remote API the engine drives.
type Backend interface {
	ListTickets(ctx context.Context, projectID string) ([]domain.Ticket, error)
	UpdateTicket(ctx context.Context, ticketID string, patch api.TicketPatch) (*domain.Ticket, error)
	CreateTicket(ctx context.Context, input api.TicketCreateInput) (*domain.Ticket, error)
	DeleteTicket(ctx context.Context, ticketID string) error
}

// pendingEdit marks a ticket with an unconfirmed optimistic mutation.
// Only the completion carrying the newest token resolves it; inbound
// create/update events for the ticket wait in buffered until then.
type pendingEdit struct {
	token    string
	buffered *events.Envelope
}

// Engine owns the ticket store for the active project. Every mutation
// - local intents, remote completions, refetch results, and inbound
// channel events - funnels through one run loop and is applied in
// arrival order, so no two mutations ever interleave mid-update.
type Engine struct {
	store      *board.Store
	backend    Backend
	channel    realtime.Channel
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics

	msgs          chan message
	quit          chan struct{}
	stopOnce      sync.Once
	errs          chan *util.ClientError
	changes       chan struct{}
	notifications chan events.Notification

	// Loop-owned state. Touched only inside step.
	projectID string
	epoch     uint64
	pending   map[string]*pendingEdit
}

// Dependencies bundles collaborators for the engine.
type Dependencies struct {
	Backend    Backend
	Channel    realtime.Channel
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	// Metrics is optional; a nil Metrics counts nothing.
	Metrics *observability.Metrics
}

// message is one unit of work for the run loop.
type message interface{ isMessage() }

type applyMsg struct{ intent gesture.Intent }

type completionMsg struct {
	ticketID string
	token    string
	epoch    uint64
	ticket   *domain.Ticket
	err      error
}

type refetchMsg struct {
	epoch   uint64
	tickets []domain.Ticket
	err     error
}

type selectMsg struct{ projectID string }

type inboundMsg struct{ envelope events.Envelope }

type localUpsertMsg struct{ ticket domain.Ticket }

type localRemoveMsg struct{ ticketID string }

type columnsMsg struct{ reply chan []board.Column }

type pendingQueryMsg struct {
	ticketID string
	reply    chan bool
}

func (applyMsg) isMessage()        {}
func (completionMsg) isMessage()   {}
func (refetchMsg) isMessage()      {}
func (selectMsg) isMessage()       {}
func (inboundMsg) isMessage()      {}
func (localUpsertMsg) isMessage()  {}
func (localRemoveMsg) isMessage()  {}
func (columnsMsg) isMessage()      {}
func (pendingQueryMsg) isMessage() {}

// NewEngine constructs the engine. Channel and Dispatcher may be nil:
// the engine then runs without realtime merge or host fan-out.
func NewEngine(deps Dependencies) *Engine {
	return &Engine{
		store:         board.NewStore(),
		backend:       deps.Backend,
		channel:       deps.Channel,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger.Named("engine"),
		metrics:       deps.Metrics,
		msgs:          make(chan message, 64),
		quit:          make(chan struct{}),
		errs:          make(chan *util.ClientError, 16),
		changes:       make(chan struct{}, 1),
		notifications: make(chan events.Notification, 16),
		pending:       make(map[string]*pendingEdit),
	}
}

// Start launches the run loop and the channel forwarder.
func (e *Engine) Start(ctx context.Context) {
	go e.run(ctx)
	if e.channel != nil {
		go e.forward()
	}
}

// Stop terminates the run loop. In-flight remote calls keep running
// until their context ends; their results are discarded.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.quit) })
}

// Errors streams retryable, user-visible failures: remote mutation
// failures after their rollback has been scheduled, and refetch errors.
func (e *Engine) Errors() <-chan *util.ClientError {
	return e.errs
}

// Changes signals that the board projection is out of date. Signals
// coalesce; the host re-reads Columns on each receive.
func (e *Engine) Changes() <-chan struct{} {
	return e.changes
}

// Notifications streams inbound notifications for the active project.
func (e *Engine) Notifications() <-chan events.Notification {
	return e.notifications
}

// SelectProject switches the active project: the store, all pending
// edits, and interest in every in-flight call for the old project are
// discarded, the channel room is switched, and a fresh ticket set is
// fetched. An empty id deselects without fetching.
func (e *Engine) SelectProject(projectID string) {
	e.post(selectMsg{projectID: projectID})
}

// Apply runs an intent against local state immediately and, for
// transitions, issues the matching remote mutation. In-column reorder
// is presentation-local: the arrangement lives only in this session and
// no remote call is made.
func (e *Engine) Apply(intent gesture.Intent) {
	if intent == nil {
		return
	}
	e.post(applyMsg{intent: intent})
}

// Columns returns the current board projection. The request round-trips
// through the run loop, so it observes every mutation posted before it.
func (e *Engine) Columns() []board.Column {
	reply := make(chan []board.Column, 1)
	e.post(columnsMsg{reply: reply})
	select {
	case cols := <-reply:
		return cols
	case <-e.quit:
		return nil
	}
}

// HasPendingEdit reports whether a ticket has an unconfirmed local
// mutation in flight. Hosts use it to render in-flight affordances.
func (e *Engine) HasPendingEdit(ticketID string) bool {
	reply := make(chan bool, 1)
	e.post(pendingQueryMsg{ticketID: ticketID, reply: reply})
	select {
	case ok := <-reply:
		return ok
	case <-e.quit:
		return false
	}
}

// CreateTicket creates a ticket remotely and applies the stored record
// locally on success. The result is identity-checked against the active
// project before it lands, so a slow response cannot leak into a board
// selected later.
func (e *Engine) CreateTicket(ctx context.Context, input api.TicketCreateInput) {
	go func() {
		ticket, err := e.backend.CreateTicket(ctx, input)
		if err != nil {
			e.reportError(err)
			return
		}
		e.post(localUpsertMsg{ticket: *ticket})
	}()
}

// DeleteTicket deletes a ticket remotely and removes it locally on
// success. Removal of an id no longer loaded is a no-op.
func (e *Engine) DeleteTicket(ctx context.Context, ticketID string) {
	go func() {
		if err := e.backend.DeleteTicket(ctx, ticketID); err != nil {
			e.reportError(err)
			return
		}
		e.post(localRemoveMsg{ticketID: ticketID})
	}()
}

func (e *Engine) run(ctx context.Context) {
	for {
		select {
		case msg := <-e.msgs:
			e.step(ctx, msg)
		case <-e.quit:
			return
		case <-ctx.Done():
			e.Stop()
			return
		}
	}
}

// forward feeds channel events into the loop until the stream closes.
func (e *Engine) forward() {
	for envelope := range e.channel.Events() {
		e.post(inboundMsg{envelope: envelope})
	}
}

// step is the single reducer: one message in, state mutated, signals
// out. Nothing else touches loop-owned state.
func (e *Engine) step(ctx context.Context, msg message) {
	switch m := msg.(type) {
	case applyMsg:
		e.applyIntent(ctx, m.intent)
	case completionMsg:
		e.applyCompletion(ctx, m)
	case refetchMsg:
		e.applyRefetch(m)
	case selectMsg:
		e.applySelect(ctx, m.projectID)
	case inboundMsg:
		e.applyInbound(ctx, m.envelope)
	case localUpsertMsg:
		if m.ticket.ProjectID == e.projectID {
			e.store.Upsert(m.ticket)
			e.signalChange()
		}
	case localRemoveMsg:
		e.store.Remove(m.ticketID)
		delete(e.pending, m.ticketID)
		e.signalChange()
	case columnsMsg:
		m.reply <- board.Project(e.store.All(), domain.StatusOrder)
	case pendingQueryMsg:
		_, ok := e.pending[m.ticketID]
		m.reply <- ok
	}
}

func (e *Engine) applyIntent(ctx context.Context, intent gesture.Intent) {
	switch it := intent.(type) {
	case gesture.Transition:
		if !e.store.SetStatus(it.ID, it.ToStatus) {
			e.logger.Debug("transition for unknown ticket ignored", zap.String("ticket_id", it.ID))
			return
		}
		e.signalChange()

		token := uuid.NewString()
		e.metrics.Inc(observability.MetricIntentsApplied)
		if pe, ok := e.pending[it.ID]; ok {
			// Second intent on an in-flight ticket: last intent wins
			// locally, and only the newest completion resolves the edit.
			pe.token = token
		} else {
			e.pending[it.ID] = &pendingEdit{token: token}
		}

		status := it.ToStatus
		epoch := e.epoch
		go func() {
			ticket, err := e.backend.UpdateTicket(ctx, it.ID, api.TicketPatch{Status: &status})
			e.post(completionMsg{ticketID: it.ID, token: token, epoch: epoch, ticket: ticket, err: err})
		}()

	case gesture.Reorder:
		if !e.store.MoveWithin(it.Status, it.ID, it.OverID) {
			e.logger.Debug("reorder references tickets outside column",
				zap.String("ticket_id", it.ID), zap.String("over_id", it.OverID))
			return
		}
		e.signalChange()
		e.metrics.Inc(observability.MetricIntentsApplied)

	default:
		e.logger.Debug("unknown intent ignored", zap.String("ticket_id", intent.TicketID()))
	}
}

func (e *Engine) applyCompletion(ctx context.Context, m completionMsg) {
	if m.epoch != e.epoch {
		// Response for a project that is no longer selected.
		e.logger.Debug("discarding stale completion", zap.String("ticket_id", m.ticketID))
		return
	}
	pe, ok := e.pending[m.ticketID]
	if !ok || pe.token != m.token {
		// Superseded by a newer intent on the same ticket; its own
		// completion will resolve the edit.
		return
	}
	delete(e.pending, m.ticketID)

	if m.err != nil {
		// RolledBack: last known good state wins over guessing a
		// partial undo. The buffered event, if any, is superseded by
		// the authoritative refetch.
		e.metrics.Inc(observability.MetricEditsRolledBack)
		e.reportError(m.err)
		e.publish(ctx, events.Envelope{Type: events.TypeEditRolledBack, ProjectID: e.projectID, TicketID: m.ticketID})
		e.refetch(ctx)
		return
	}

	// Confirmed: local state already reflects the outcome; merging the
	// authoritative record is idempotent and picks up server-set fields.
	if m.ticket != nil {
		e.store.Upsert(*m.ticket)
		e.signalChange()
	}
	e.metrics.Inc(observability.MetricEditsConfirmed)
	e.publish(ctx, events.Envelope{Type: events.TypeEditConfirmed, ProjectID: e.projectID, TicketID: m.ticketID})
	if pe.buffered != nil {
		e.applyInbound(ctx, *pe.buffered)
	}
}

func (e *Engine) applyRefetch(m refetchMsg) {
	if m.epoch != e.epoch {
		return
	}
	if m.err != nil {
		e.logger.Warn("refetch failed, keeping current state", zap.Error(m.err))
		e.reportError(m.err)
		return
	}
	e.store.Replace(m.tickets)
	e.signalChange()
	e.metrics.Inc(observability.MetricRefetches)
}

func (e *Engine) applySelect(ctx context.Context, projectID string) {
	previous := e.projectID
	if previous == projectID {
		return
	}
	e.epoch++
	e.projectID = projectID
	e.pending = make(map[string]*pendingEdit)
	e.store.Replace(nil)
	e.signalChange()

	epoch := e.epoch
	if e.channel != nil {
		go func() {
			if previous != "" {
				if err := e.channel.Leave(ctx, previous); err != nil {
					e.logger.Warn("failed to leave room", zap.String("project_id", previous), zap.Error(err))
				}
			}
			if projectID == "" {
				return
			}
			if err := e.channel.Join(ctx, projectID); err != nil {
				e.logger.Warn("realtime join failed, continuing without live updates",
					zap.String("project_id", projectID), zap.Error(err))
			}
		}()
	}
	if projectID != "" {
		go func() {
			tickets, err := e.backend.ListTickets(ctx, projectID)
			e.post(refetchMsg{epoch: epoch, tickets: tickets, err: err})
		}()
	}
}

func (e *Engine) applyInbound(ctx context.Context, envelope events.Envelope) {
	if e.projectID == "" || envelope.ProjectID != e.projectID {
		e.metrics.Inc(observability.MetricEventsDropped)
		e.logger.Debug("dropping event for inactive project",
			zap.String("type", string(envelope.Type)),
			zap.Error(util.NewStaleProject(envelope.ProjectID)))
		return
	}

	switch envelope.Type {
	case events.TypeNotification:
		if envelope.Notification != nil {
			select {
			case e.notifications <- *envelope.Notification:
			default:
				e.logger.Warn("notification feed full, dropping")
			}
		}
		e.publish(ctx, envelope)

	case events.TypeTicketDeleted:
		id := envelope.SubjectTicketID()
		if id == "" {
			return
		}
		// Deletion wins over any pending edit.
		delete(e.pending, id)
		e.store.Remove(id)
		e.signalChange()
		e.publish(ctx, envelope)

	case events.TypeTicketCreated, events.TypeTicketUpdated:
		if envelope.Ticket == nil {
			e.logger.Debug("ticket event without ticket payload", zap.String("type", string(envelope.Type)))
			return
		}
		if envelope.Ticket.ProjectID != e.projectID {
			return
		}
		if pe, ok := e.pending[envelope.Ticket.ID]; ok {
			// Echo or concurrent edit while ours is in flight: hold it
			// until our edit resolves. Last buffered event wins.
			held := envelope
			pe.buffered = &held
			e.metrics.Inc(observability.MetricEventsBuffered)
			return
		}
		e.store.Upsert(*envelope.Ticket)
		e.signalChange()
		e.metrics.Inc(observability.MetricEventsMerged)
		e.publish(ctx, envelope)

	default:
		e.logger.Debug("ignoring unknown event type", zap.String("type", string(envelope.Type)))
	}
}

// refetch reloads the active project's tickets from the backend and
// replaces the store wholesale when the result arrives.
func (e *Engine) refetch(ctx context.Context) {
	projectID := e.projectID
	if projectID == "" {
		return
	}
	epoch := e.epoch
	go func() {
		tickets, err := e.backend.ListTickets(ctx, projectID)
		e.post(refetchMsg{epoch: epoch, tickets: tickets, err: err})
	}()
}

func (e *Engine) post(msg message) {
	select {
	case e.msgs <- msg:
	case <-e.quit:
	}
}

func (e *Engine) signalChange() {
	select {
	case e.changes <- struct{}{}:
	default:
	}
}

func (e *Engine) reportError(err error) {
	ce := util.ToClientError(err)
	select {
	case e.errs <- ce:
	default:
		e.logger.Warn("error feed full, dropping", zap.Error(err))
	}
}

func (e *Engine) publish(ctx context.Context, envelope events.Envelope) {
	if e.dispatcher == nil {
		return
	}
	if envelope.ID == "" {
		envelope.ID = uuid.NewString()
	}
	_ = e.dispatcher.Publish(ctx, envelope)
}
