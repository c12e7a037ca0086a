package util

import (
	"errors"
	"fmt"
)

// Error codes for the client-side failure taxonomy. Nothing here is
// fatal: every code degrades to "reload from the source of truth" or to
// ignoring the input that produced it.
const (
	CodeRemoteFailed   = "REMOTE_MUTATION_FAILED"
	CodeInvalidGesture = "INVALID_GESTURE"
	CodeChannelFailed  = "CHANNEL_FAILED"
	CodeStaleProject   = "STALE_PROJECT_EVENT"
)

// ClientError standardizes failures surfaced by the sync engine.
type ClientError struct {
	Code      string
	Message   string
	Retryable bool
	Details   map[string]any
	Err       error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientError constructs a ClientError.
func NewClientError(code, message string, retryable bool, details map[string]any) *ClientError {
	return &ClientError{Code: code, Message: message, Retryable: retryable, Details: details}
}

// NewRemoteError wraps a failed remote mutation. message is the
// human-readable text from the server's error payload when one was
// decodable, or a transport description otherwise.
func NewRemoteError(message string, statusCode int, err error) error {
	return &ClientError{
		Code:      CodeRemoteFailed,
		Message:   message,
		Retryable: true,
		Details:   map[string]any{"status_code": statusCode},
		Err:       err,
	}
}

// NewInvalidGesture marks malformed drag data. Never shown to the user.
func NewInvalidGesture(message string, details map[string]any) error {
	return NewClientError(CodeInvalidGesture, message, false, details)
}

// NewChannelError wraps a realtime transport failure. The session
// continues in degraded, non-realtime mode.
func NewChannelError(err error) error {
	return &ClientError{
		Code:      CodeChannelFailed,
		Message:   "realtime channel unavailable",
		Retryable: true,
		Err:       err,
	}
}

// NewStaleProject marks an event or response that arrived after its
// project was deselected.
func NewStaleProject(projectID string) error {
	return NewClientError(CodeStaleProject, "event for deselected project", false,
		map[string]any{"project_id": projectID})
}

// ToClientError converts generic errors to ClientError.
func ToClientError(err error) *ClientError {
	if err == nil {
		return nil
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr
	}
	return &ClientError{
		Code:      CodeRemoteFailed,
		Message:   "remote call failed",
		Retryable: true,
		Err:       err,
	}
}

// IsRetryable reports whether the failure is worth offering a retry for.
func IsRetryable(err error) bool {
	ce := ToClientError(err)
	return ce != nil && ce.Retryable
}
