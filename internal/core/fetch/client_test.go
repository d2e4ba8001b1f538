package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *httptest.Server) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(Options{BaseURL: srv.URL + "/", Path: "hiring.json", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

// roundTripFunc lets tests hand-craft responses the stdlib server never emits.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestFetchItems_Success(t *testing.T) {
	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1,"listId":1,"name":"Item 1"},{"id":2,"listId":2,"name":null}]`)
	}))
	defer srv.Close()

	items, err := newTestClient(t, srv).FetchItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "/hiring.json", gotPath)
	assert.Equal(t, DefaultUserAgent, gotUA)
	require.NotNil(t, items[0].Name)
	assert.Equal(t, "Item 1", *items[0].Name)
	assert.Nil(t, items[1].Name, "invalid items are returned untouched")
}

func TestFetchItems_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).FetchItems(context.Background())
	require.Error(t, err)

	pe, ok := AsProtocolError(err)
	require.True(t, ok, "expected protocol error, got %T", err)
	assert.Equal(t, 404, pe.StatusCode)
	assert.Equal(t, "Not Found", pe.StatusText)
}

func TestFetchItems_EmptyReasonPhrase(t *testing.T) {
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: 500,
			Status:     "500",
			Body:       io.NopCloser(strings.NewReader("")),
			Request:    r,
		}, nil
	})}

	c, err := NewHTTPClient(Options{HTTPClient: hc})
	require.NoError(t, err)

	_, err = c.FetchItems(context.Background())
	pe, ok := AsProtocolError(err)
	require.True(t, ok)
	assert.Equal(t, 500, pe.StatusCode)
	assert.Empty(t, pe.StatusText)
}

func TestFetchItems_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"not":"a list"`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).FetchItems(context.Background())
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, err.Error(), "decode items")
	_, isProtocol := AsProtocolError(err)
	assert.False(t, isProtocol)
}

func TestFetchItems_ConnectionFailure(t *testing.T) {
	hc := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("Network error")
	})}

	c, err := NewHTTPClient(Options{HTTPClient: hc})
	require.NoError(t, err)

	_, err = c.FetchItems(context.Background())
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Error(), "Network error")
}

func TestFetchItems_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, srv).FetchItems(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchItems_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewHTTPClient(Options{BaseURL: srv.URL + "/", Path: "hiring.json", Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = c.FetchItems(context.Background())
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	_, isProtocol := AsProtocolError(err)
	assert.False(t, isProtocol)

	var netErr interface{ Timeout() bool }
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestFetchItems_OneRequestPerCall(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).FetchItems(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load(), "no retries")
}

func TestFetchItems_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c, err := NewHTTPClient(Options{BaseURL: srv.URL, MinInterval: time.Hour})
	require.NoError(t, err)

	_, err = c.FetchItems(context.Background())
	require.NoError(t, err, "first request uses the burst token")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.FetchItems(ctx)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "defaults", want: "https://fetch-hiring.s3.amazonaws.com/hiring.json"},
		{name: "trailing slash base", base: "http://localhost:8080/api/", path: "items.json", want: "http://localhost:8080/api/items.json"},
		{name: "base without slash replaces last segment", base: "http://localhost:8080/api", path: "items.json", want: "http://localhost:8080/items.json"},
		{name: "absolute path", base: "http://example.com/a/b/", path: "/c.json", want: "http://example.com/c.json"},
		{name: "bad scheme", base: "ftp://example.com/", wantErr: true},
		{name: "missing host", base: "http:///x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveEndpoint(tt.base, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
