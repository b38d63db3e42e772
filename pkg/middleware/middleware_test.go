package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.values[key], nil
}

func (m *memoryStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

type fixedCounter struct {
	mu    sync.Mutex
	hits  map[string]int
	err   error
	calls int
}

func (c *fixedCounter) Hit(_ context.Context, key string, _ time.Duration) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return 0, c.err
	}
	c.hits[key]++
	return c.hits[key], nil
}

func TestIdempotency_ReplaysSuccessfulResponse(t *testing.T) {
	store := &memoryStore{values: map[string]string{}}
	calls := 0

	r := chi.NewRouter()
	r.Use(Idempotency(store, time.Hour))
	r.Post("/notify", func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/notify", nil)
		req.Header.Set("Idempotency-Key", "LPH-123456")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	}
	assert.Equal(t, 1, calls, "second request is served from the store")
}

func TestIdempotency_SameKeyDifferentBodies(t *testing.T) {
	store := &memoryStore{values: map[string]string{}}
	var seen []string

	r := chi.NewRouter()
	r.Use(Idempotency(store, time.Hour))
	r.Post("/notify", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		seen = append(seen, string(body))
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	})

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/notify", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "LPH-555555")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	a := send(`{"email":"maria@example.com"}`)
	b := send(`{"email":"other.guest@example.com"}`)
	again := send(`{"email":"other.guest@example.com"}`)

	assert.Equal(t, []string{`{"email":"maria@example.com"}`, `{"email":"other.guest@example.com"}`}, seen)
	assert.Equal(t, `{"email":"maria@example.com"}`, a.Body.String())
	assert.Equal(t, `{"email":"other.guest@example.com"}`, b.Body.String())
	assert.Empty(t, b.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, "true", again.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, `{"email":"other.guest@example.com"}`, again.Body.String())
}

func TestIdempotency_DoesNotCacheFailures(t *testing.T) {
	store := &memoryStore{values: map[string]string{}}
	calls := 0

	h := Idempotency(store, time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Idempotency-Key", "k")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, 2, calls)
}

func TestIdempotency_StoreErrorPassesThrough(t *testing.T) {
	store := &memoryStore{values: map[string]string{}, getErr: errors.New("redis down")}
	calls := 0
	h := Idempotency(store, time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Idempotency-Key", "k")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, 1, calls)
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	counter := &fixedCounter{hits: map[string]int{}}
	rl := NewRateLimiter(counter, RateLimitConfig{Requests: 2, Window: time.Minute})
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	counter := &fixedCounter{hits: map[string]int{}, err: errors.New("db down")}
	rl := NewRateLimiter(counter, RateLimitConfig{Requests: 0, Window: time.Minute})
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, counter.calls)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:5555"
	assert.Equal(t, "198.51.100.7", ClientIP(req))

	req.Header.Set("X-Real-IP", " 192.0.2.1 ")
	assert.Equal(t, "192.0.2.1", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value("request_id").(string)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Empty(t, seen, "the context key is typed, plain strings do not match")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestHealthAndMetrics(t *testing.T) {
	h := Health(Metrics(http.NotFoundHandler()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
