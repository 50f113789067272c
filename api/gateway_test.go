package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-school-app/api"
	"github.com/jrsteele09/go-school-app/credstore/storefakes"
	apperrors "github.com/jrsteele09/go-school-app/internal/errors"
	"github.com/jrsteele09/go-school-app/session"
)

const (
	testToken  = "abc1234567"
	testUserID = "42"
)

// testFixture wires a gateway against an httptest server with a request
// counter, so tests can assert on zero-transmission paths.
type testFixture struct {
	gateway  *api.Gateway
	sessions *session.Manager
	store    *storefakes.FakeStore
	server   *httptest.Server
	requests *atomic.Int64
}

func setupTestFixture(t *testing.T, handler http.HandlerFunc) *testFixture {
	t.Helper()

	requests := &atomic.Int64{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	store := storefakes.NewFakeStore()
	sessions := session.NewManager(store)

	gateway, err := api.NewGateway(api.Config{BaseURL: server.URL}, sessions)
	require.NoError(t, err)

	return &testFixture{
		gateway:  gateway,
		sessions: sessions,
		store:    store,
		server:   server,
		requests: requests,
	}
}

func (f *testFixture) signIn(t *testing.T) {
	t.Helper()
	require.True(t, f.sessions.SetSession(testToken, testUserID))
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestGateway_New(t *testing.T) {
	t.Run("requires base URL", func(t *testing.T) {
		_, err := api.NewGateway(api.Config{}, session.NewManager(storefakes.NewFakeStore()))
		require.Error(t, err)
	})

	t.Run("requires sessions", func(t *testing.T) {
		_, err := api.NewGateway(api.Config{BaseURL: "http://localhost"}, nil)
		require.Error(t, err)
	})
}

func TestGateway_PreSend(t *testing.T) {
	t.Run("protected call without session is blocked before transmission", func(t *testing.T) {
		f := setupTestFixture(t, jsonHandler(http.StatusOK, `{"status":true}`))

		err := f.gateway.Post(context.Background(), api.EndpointDashboard, struct{}{}, nil)
		require.True(t, apperrors.IsAuth(err), "expected auth error, got %v", err)
		require.EqualValues(t, 0, f.requests.Load(), "no network round-trip expected")
	})

	t.Run("protected call with invalid stored token is blocked", func(t *testing.T) {
		f := setupTestFixture(t, jsonHandler(http.StatusOK, `{"status":true}`))
		// Bypass SetSession validation to plant a too-short token.
		require.True(t, f.store.Set("AUTH_TOKEN", "short"))
		require.True(t, f.store.Set("USER_ID", testUserID))

		err := f.gateway.Post(context.Background(), api.EndpointDashboard, struct{}{}, nil)
		require.True(t, apperrors.IsAuth(err))
		require.EqualValues(t, 0, f.requests.Load())
	})

	t.Run("protected call attaches bearer header", func(t *testing.T) {
		var gotAuth string
		f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			jsonHandler(http.StatusOK, `{"status":true}`)(w, r)
		})
		f.signIn(t)

		err := f.gateway.Post(context.Background(), api.EndpointDashboard, struct{}{}, nil)
		require.NoError(t, err)
		require.Equal(t, "Bearer "+testToken, gotAuth)
	})

	t.Run("public call proceeds without session or header", func(t *testing.T) {
		var gotAuth string
		f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			jsonHandler(http.StatusOK, `{"status":true}`)(w, r)
		})

		err := f.gateway.Post(context.Background(), api.EndpointLogin, struct{}{}, nil)
		require.NoError(t, err)
		require.Empty(t, gotAuth)
		require.EqualValues(t, 1, f.requests.Load())
	})
}

func TestGateway_PostReceive(t *testing.T) {
	t.Run("401 clears session and returns auth error", func(t *testing.T) {
		f := setupTestFixture(t, jsonHandler(http.StatusUnauthorized, `{}`))
		f.signIn(t)

		err := f.gateway.Post(context.Background(), api.EndpointDashboard, struct{}{}, nil)
		require.True(t, apperrors.IsAuth(err))
		require.EqualError(t, err, api.SessionExpiredMessage)

		_, ok := f.sessions.GetSession()
		require.False(t, ok, "session must be cleared after 401")
	})

	t.Run("403 clears session and returns auth error", func(t *testing.T) {
		f := setupTestFixture(t, jsonHandler(http.StatusForbidden, `{}`))
		f.signIn(t)

		err := f.gateway.Post(context.Background(), api.EndpointDashboard, struct{}{}, nil)
		require.True(t, apperrors.IsAuth(err))

		_, ok := f.sessions.GetSession()
		require.False(t, ok, "session must be cleared after 403")
	})

	t.Run("server msg wins for non-auth HTTP errors", func(t *testing.T) {
		f := setupTestFixture(t, jsonHandler(http.StatusInternalServerError, `{"status":false,"msg":"database down"}`))

		err := f.gateway.Post(context.Background(), api.EndpointLogin, struct{}{}, nil)
		require.True(t, apperrors.IsAPI(err))

		var apiErr *apperrors.APIError
		require.True(t, apperrors.As(err, &apiErr))
		require.Equal(t, "database down", apiErr.Message)
		require.Equal(t, http.StatusInternalServerError, apiErr.Status)
	})

	t.Run("status line fallback when body has no msg", func(t *testing.T) {
		f := setupTestFixture(t, jsonHandler(http.StatusBadGateway, `<html>oops</html>`))

		err := f.gateway.Post(context.Background(), api.EndpointLogin, struct{}{}, nil)

		var apiErr *apperrors.APIError
		require.True(t, apperrors.As(err, &apiErr))
		require.Equal(t, http.StatusBadGateway, apiErr.Status)
		require.NotEmpty(t, apiErr.Message)
	})

	t.Run("non-auth errors leave the session alone", func(t *testing.T) {
		f := setupTestFixture(t, jsonHandler(http.StatusInternalServerError, `{}`))
		f.signIn(t)

		err := f.gateway.Post(context.Background(), api.EndpointDashboard, struct{}{}, nil)
		require.True(t, apperrors.IsAPI(err))

		_, ok := f.sessions.GetSession()
		require.True(t, ok)
	})

	t.Run("transport failure maps to api error without status", func(t *testing.T) {
		f := setupTestFixture(t, jsonHandler(http.StatusOK, `{}`))
		f.server.Close()

		err := f.gateway.Post(context.Background(), api.EndpointLogin, struct{}{}, nil)
		require.True(t, apperrors.IsAPI(err))

		var apiErr *apperrors.APIError
		require.True(t, apperrors.As(err, &apiErr))
		require.Equal(t, 0, apiErr.Status)
	})

	t.Run("undecodable success body maps to api error", func(t *testing.T) {
		f := setupTestFixture(t, jsonHandler(http.StatusOK, `not json`))

		var out struct{}
		err := f.gateway.Post(context.Background(), api.EndpointLogin, struct{}{}, &out)
		require.True(t, apperrors.IsAPI(err))
	})
}
