package healthz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func status(t *testing.T, check *HTTP) int {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()

	check.ServeHTTP(rr, req)

	resp := rr.Result()
	defer resp.Body.Close()

	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	check := NewHTTP()

	// Sick until the server declares otherwise.
	require.Equal(t, http.StatusServiceUnavailable, status(t, check))
	require.False(t, check.IsHealthy())

	check.Healthy()
	require.Equal(t, http.StatusOK, status(t, check))
	require.True(t, check.IsHealthy())

	check.Sick()
	require.Equal(t, http.StatusServiceUnavailable, status(t, check))
}
