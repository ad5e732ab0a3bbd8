package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nribeiro/voyago/internal/upstream"
)

// amadeusStub serves the token endpoint and the flight-offers endpoint,
// counting calls to each.
func amadeusStub(t *testing.T, expiresIn int) (*httptest.Server, *atomic.Int32, *atomic.Int32) {
	t.Helper()
	var tokenCalls, searchCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "test-id", r.PostForm.Get("client_id"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-" + time.Now().Format("150405.000000000"),
			"expires_in":   expiresIn,
		})
	})
	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		searchCalls.Add(1)
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": []}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &tokenCalls, &searchCalls
}

func TestAmadeusTokenReused(t *testing.T) {
	srv, tokenCalls, searchCalls := amadeusStub(t, 1799)
	a := NewAmadeus(srv.URL, "test-id", "test-secret")

	for i := 0; i < 3; i++ {
		_, err := a.SearchOffers(context.Background(), nil)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), tokenCalls.Load(), "token fetched once, then cached")
	assert.Equal(t, int32(3), searchCalls.Load())
}

func TestAmadeusTokenRefreshedInsideMargin(t *testing.T) {
	srv, tokenCalls, _ := amadeusStub(t, 1799)
	a := NewAmadeus(srv.URL, "test-id", "test-secret")

	base := time.Now()
	a.now = func() time.Time { return base }

	_, err := a.SearchOffers(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, int32(1), tokenCalls.Load())

	// Still comfortably before the margin-adjusted expiry: cache hit.
	a.now = func() time.Time { return base.Add(10 * time.Minute) }
	_, err = a.SearchOffers(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), tokenCalls.Load())

	// 1799s lifetime minus the 120s margin has passed: refresh.
	a.now = func() time.Time { return base.Add(1700 * time.Second) }
	_, err = a.SearchOffers(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), tokenCalls.Load())
}

func TestAmadeusTokenRefreshCoalesced(t *testing.T) {
	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		// Hold the response so every searcher is in flight before the
		// first token call settles.
		time.Sleep(50 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 1799})
	})
	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": []}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	a := NewAmadeus(srv.URL, "test-id", "test-secret")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.SearchOffers(context.Background(), nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), tokenCalls.Load(), "concurrent cold-cache searches share one token request")
}

func TestAmadeusTokenFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code": "INVALID_CLIENT", "detail": "client credentials are invalid"}`))
	}))
	t.Cleanup(srv.Close)

	a := NewAmadeus(srv.URL, "bad-id", "bad-secret")
	_, err := a.SearchOffers(context.Background(), nil)

	var appErr *upstream.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	assert.Equal(t, "INVALID_CLIENT", appErr.Code)
	assert.Equal(t, "amadeus", appErr.Source)
}
