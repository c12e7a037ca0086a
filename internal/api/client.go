package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spec-kit/board-sync/internal/config"
	"github.com/spec-kit/board-sync/internal/domain"
	"github.com/spec-kit/board-sync/internal/session"
	"github.com/spec-kit/board-sync/pkg/util"
)

// Client is a thin JSON client for the authoritative ticket backend.
// Every mutation returns the full updated record; every failure carries
// the server's human-readable message when one was provided.
type Client struct {
	baseURL    string
	sess       *session.Session
	httpClient *http.Client
}

// NewClient builds a backend client scoped to one session.
func NewClient(cfg config.APIConfig, sess *session.Session) *Client {
	timeout := cfg.RequestTimeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		sess:       sess,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// TicketPatch is a partial update body for PUT /tickets/{id}. Nil
// fields are omitted and left untouched by the backend.
type TicketPatch struct {
	Title       *string                `json:"title,omitempty"`
	Description *string                `json:"description,omitempty"`
	Status      *domain.TicketStatus   `json:"status,omitempty"`
	Priority    *domain.TicketPriority `json:"priority,omitempty"`
	Type        *domain.TicketType     `json:"type,omitempty"`
	AssigneeID  *string                `json:"assignee,omitempty"`
	DueDate     *time.Time             `json:"dueDate,omitempty"`
}

// TicketCreateInput is the body for POST /tickets.
type TicketCreateInput struct {
	ProjectID   string                `json:"project"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Type        domain.TicketType     `json:"type"`
	AssigneeID  *string               `json:"assignee,omitempty"`
	DueDate     *time.Time            `json:"dueDate,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ListTickets fetches the full ticket set for a project, in the
// backend's arrival order. Used for initial load and rollback refetch.
func (c *Client) ListTickets(ctx context.Context, projectID string) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	if err := c.do(ctx, http.MethodGet, "/tickets/"+projectID, nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetProject fetches one project record.
func (c *Client) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	var project domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects fetches the projects visible to the session user.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateTicket applies a partial update and returns the updated record.
func (c *Client) UpdateTicket(ctx context.Context, ticketID string, patch TicketPatch) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := c.do(ctx, http.MethodPut, "/tickets/"+ticketID, patch, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// CreateTicket creates a ticket and returns the stored record.
func (c *Client) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := c.do(ctx, http.MethodPost, "/tickets", input, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// DeleteTicket removes a ticket.
func (c *Client) DeleteTicket(ctx context.Context, ticketID string) error {
	return c.do(ctx, http.MethodDelete, "/tickets/"+ticketID, nil, nil)
}

// AddMember adds a user to the project team.
func (c *Client) AddMember(ctx context.Context, projectID, userID string) (*domain.Project, error) {
	var project domain.Project
	body := map[string]string{"userId": userID}
	if err := c.do(ctx, http.MethodPut, "/projects/"+projectID+"/add-member", body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// RemoveMember removes a user from the project team. The owner is
// rejected locally before any request is made.
func (c *Client) RemoveMember(ctx context.Context, project *domain.Project, userID string) (*domain.Project, error) {
	if userID == project.OwnerID {
		return nil, domain.ErrOwnerNotRemovable
	}
	var updated domain.Project
	body := map[string]string{"userId": userID}
	if err := c.do(ctx, http.MethodPut, "/projects/"+project.ID+"/remove-member", body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// do builds the request, attaches bearer auth, and decodes the JSON
// response or the server's error payload.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.sess.Token())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return util.NewRemoteError("backend unreachable", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fmt.Sprintf("request failed with status %d", resp.StatusCode)
		var payload errorPayload
		if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr == nil && payload.Message != "" {
			message = payload.Message
		}
		return util.NewRemoteError(message, resp.StatusCode, nil)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
