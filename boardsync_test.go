package boardsync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/board-sync/internal/domain"
	"github.com/spec-kit/board-sync/internal/observability"
)

func signedToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  "user-1",
		"name": "Dana",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestNewWiresMetricsIntoEngine(t *testing.T) {
	mr := miniredis.RunT(t)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/api/tickets/p1" {
			_ = json.NewEncoder(w).Encode([]domain.Ticket{
				{ID: "t1", ProjectID: "p1", Title: "first", Status: domain.TicketStatusToDo},
			})
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(backend.Close)

	t.Setenv("BOARD_API_URL", backend.URL+"/api")
	t.Setenv("REDIS_ADDR", mr.Addr())

	client, err := New(context.Background(), signedToken(t))
	require.NoError(t, err)
	t.Cleanup(client.Session.Close)

	require.NotNil(t, client.Metrics)

	// A project load runs through the engine's counted refetch path, so
	// the assembled client observes it without extra wiring.
	client.Engine.SelectProject("p1")
	require.Eventually(t, func() bool {
		return client.Metrics.Get(observability.MetricRefetches) == 1
	}, 2*time.Second, 5*time.Millisecond)

	cols := client.Engine.Columns()
	require.NotEmpty(t, cols)
	assert.Len(t, cols[0].Tickets, 1)
}
