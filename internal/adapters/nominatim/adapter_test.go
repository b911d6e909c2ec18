package nominatim

import (
	"context"
	"listing-service/internal/core/domain"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *GeocoderAdapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := NewGeocoderAdapter(Config{BaseURL: srv.URL + "/", UserAgent: "listing-service-test/1.0", Timeout: timeout})
	require.NoError(t, err)
	return a
}

func TestSearch(t *testing.T) {
	t.Run("top match is parsed", func(t *testing.T) {
		var gotPath, gotQuery, gotUA, gotLimit, gotFormat string
		a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.Query().Get("q")
			gotLimit = r.URL.Query().Get("limit")
			gotFormat = r.URL.Query().Get("format")
			gotUA = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"lat":"-20.4697","lon":"-54.6201","display_name":"Rua das Flores"}]`))
		}, time.Second)

		c, err := a.Search(context.Background(), "Rua das Flores, 123, Centro, Campo Grande, MS, Brasil")
		require.NoError(t, err)
		require.Equal(t, -20.4697, c.Latitude)
		require.Equal(t, -54.6201, c.Longitude)
		require.Equal(t, "Rua das Flores, 123, Centro, Campo Grande, MS, Brasil", gotQuery)
		require.Equal(t, "/search", gotPath)
		require.Equal(t, "1", gotLimit)
		require.Equal(t, "json", gotFormat)
		require.Equal(t, "listing-service-test/1.0", gotUA)
	})

	t.Run("empty result is no match", func(t *testing.T) {
		a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}, time.Second)

		_, err := a.Search(context.Background(), "nowhere")
		require.ErrorIs(t, err, domain.ErrNoGeocodeMatch)
	})

	t.Run("same query can be repeated", func(t *testing.T) {
		var calls atomic.Int32
		a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`[{"lat":"-20.1","lon":"-54.1"}]`))
		}, time.Second)

		for i := 0; i < 2; i++ {
			_, err := a.Search(context.Background(), "Rua A")
			require.NoError(t, err)
		}
		require.Equal(t, int32(2), calls.Load())
	})

	t.Run("server error", func(t *testing.T) {
		a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}, time.Second)

		_, err := a.Search(context.Background(), "Rua A")
		require.Error(t, err)
		require.NotErrorIs(t, err, domain.ErrNoGeocodeMatch)
	})

	t.Run("malformed coordinates", func(t *testing.T) {
		a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"lat":"abc","lon":"-54.1"}]`))
		}, time.Second)

		_, err := a.Search(context.Background(), "Rua A")
		require.Error(t, err)
	})

	t.Run("slow collaborator hits the timeout", func(t *testing.T) {
		a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		}, 100*time.Millisecond)

		start := time.Now()
		_, err := a.Search(context.Background(), "Rua A")
		require.Error(t, err)
		require.Less(t, time.Since(start), 1500*time.Millisecond)
	})
}

func TestNewGeocoderAdapterValidation(t *testing.T) {
	_, err := NewGeocoderAdapter(Config{BaseURL: "", UserAgent: "x"})
	require.Error(t, err)

	_, err = NewGeocoderAdapter(Config{BaseURL: "https://nominatim.openstreetmap.org"})
	require.Error(t, err)
}
