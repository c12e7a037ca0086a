package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteErrorCarriesStatusAndRetries(t *testing.T) {
	err := NewRemoteError("ticket not found", 404, errors.New("404"))

	ce := ToClientError(err)
	require.NotNil(t, ce)
	assert.Equal(t, CodeRemoteFailed, ce.Code)
	assert.Equal(t, 404, ce.Details["status_code"])
	assert.True(t, IsRetryable(err))
}

func TestGestureAndStaleErrorsAreNotRetryable(t *testing.T) {
	assert.False(t, IsRetryable(NewInvalidGesture("missing ids", nil)))
	assert.False(t, IsRetryable(NewStaleProject("p2")))
}

func TestChannelErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewChannelError(cause)

	assert.ErrorIs(t, err, cause)
	ce := ToClientError(err)
	assert.Equal(t, CodeChannelFailed, ce.Code)
	assert.True(t, IsRetryable(err))
}

func TestToClientErrorWrapsGenericErrors(t *testing.T) {
	ce := ToClientError(fmt.Errorf("dial tcp: %w", errors.New("refused")))
	require.NotNil(t, ce)
	assert.Equal(t, CodeRemoteFailed, ce.Code)
	assert.True(t, ce.Retryable)

	assert.Nil(t, ToClientError(nil))
	assert.False(t, IsRetryable(nil))
}
