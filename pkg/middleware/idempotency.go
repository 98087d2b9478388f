package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"eventstay/pkg/logger"

	"github.com/go-redis/redis/v8"
)

const IdempotencyHeader = "Idempotency-Key"

const ReplayedHeader = "Idempotent-Replayed"

// inFlightTTL bounds how long a claimed key blocks retries when the request
// holding it never finishes.
const inFlightTTL = time.Minute

// IdempotencyStore keeps completed responses per key. Reserve claims a key
// before the handler runs so only one request per key reaches it; the claim
// ends with Set on success or Release otherwise.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*CachedResponse, bool, error)
	Reserve(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, response *CachedResponse) error
	Release(ctx context.Context, key string) error
	Stop()
}

// CachedResponse with a zero StatusCode marks a key that is still in flight.
type CachedResponse struct {
	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers,omitempty"`
	Body       []byte      `json:"body,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

func (c *CachedResponse) inFlight() bool {
	return c.StatusCode == 0
}

// expired reports whether the entry has outlived ttl, or inFlightTTL for a
// claim.
func (c *CachedResponse) expired(now time.Time, ttl time.Duration) bool {
	if c.inFlight() {
		ttl = min(ttl, inFlightTTL)
	}
	return now.Sub(c.CreatedAt) > ttl
}

type InMemoryIdempotencyStore struct {
	mu       sync.Mutex
	store    map[string]*CachedResponse
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		store:  make(map[string]*CachedResponse),
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}

	go store.cleanup()

	return store
}

func (s *InMemoryIdempotencyStore) Get(_ context.Context, key string) (*CachedResponse, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	response, exists := s.store[key]
	if !exists {
		return nil, false, nil
	}
	if response.expired(time.Now(), s.ttl) {
		delete(s.store, key)
		return nil, false, nil
	}
	if response.inFlight() {
		return nil, false, nil
	}
	return response, true, nil
}

func (s *InMemoryIdempotencyStore) Reserve(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, ok := s.store[key]; ok && !existing.expired(now, s.ttl) {
		return false, nil
	}
	s.store[key] = &CachedResponse{CreatedAt: now}
	return true, nil
}

func (s *InMemoryIdempotencyStore) Set(_ context.Context, key string, response *CachedResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	response.CreatedAt = time.Now()
	s.store[key] = response
	return nil
}

// Release drops an in-flight claim. A completed response is left alone.
func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.store[key]; ok && existing.inFlight() {
		delete(s.store, key)
	}
	return nil
}

func (s *InMemoryIdempotencyStore) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for key, response := range s.store {
				if response.expired(now, s.ttl) {
					delete(s.store, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InMemoryIdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// RedisIdempotencyStore shares cached responses between replicas. Claims are
// taken with SETNX on the same key the response is later stored under, and
// expiry is left to Redis.
type RedisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client: client,
		ttl:    ttl,
		prefix: "eventstay:idempotency:",
	}
}

func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (*CachedResponse, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var response CachedResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, false, err
	}
	if response.inFlight() {
		return nil, false, nil
	}
	return &response, true, nil
}

func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string) (bool, error) {
	raw, err := json.Marshal(&CachedResponse{CreatedAt: time.Now()})
	if err != nil {
		return false, err
	}
	return s.client.SetNX(ctx, s.prefix+key, raw, min(s.ttl, inFlightTTL)).Result()
}

func (s *RedisIdempotencyStore) Set(ctx context.Context, key string, response *CachedResponse) error {
	response.CreatedAt = time.Now()
	raw, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, raw, s.ttl).Err()
}

// Release deletes the claim. Only the request holding it calls Release, and
// it never stored a response under the key.
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Stop is a no-op; the Redis client is closed with the rest of the clients.
func (s *RedisIdempotencyStore) Stop() {}

type responseCapture struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (rc *responseCapture) WriteHeader(statusCode int) {
	rc.statusCode = statusCode
	rc.ResponseWriter.WriteHeader(statusCode)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency replays the stored 2xx response for a repeated POST carrying
// the same key. A repeat that arrives while the first request is still
// running gets 409. Store failures fall through to the handler.
func Idempotency(store IdempotencyStore, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			key = r.Method + " " + r.URL.Path + " " + key

			cached, found, err := store.Get(r.Context(), key)
			if err != nil {
				log.Warn("Idempotency lookup failed", "request_id", RequestID(r), "error", err)
			}
			if found {
				replayCachedResponse(w, cached)
				return
			}

			claimed := false
			if err == nil {
				claimed, err = store.Reserve(r.Context(), key)
				if err != nil {
					log.Warn("Idempotency reservation failed", "request_id", RequestID(r), "error", err)
				} else if !claimed {
					// the holder may have finished between Get and Reserve
					if cached, found, _ := store.Get(r.Context(), key); found {
						replayCachedResponse(w, cached)
						return
					}
					writeJSONError(w, http.StatusConflict, "A request with this Idempotency-Key is still in progress")
					return
				}
			}

			capture := &responseCapture{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				body:           &bytes.Buffer{},
			}
			ctx := context.WithoutCancel(r.Context())
			stored := false
			defer func() {
				if claimed && !stored {
					if err := store.Release(ctx, key); err != nil {
						log.Warn("Failed to release idempotency key", "request_id", RequestID(r), "error", err)
					}
				}
			}()
			next.ServeHTTP(capture, r)

			if !shouldCacheResponse(capture.statusCode) {
				return
			}
			response := &CachedResponse{
				StatusCode: capture.statusCode,
				Headers:    w.Header().Clone(),
				Body:       capture.body.Bytes(),
			}
			if err := store.Set(ctx, key, response); err != nil {
				log.Warn("Failed to store idempotent response", "request_id", RequestID(r), "error", err)
				return
			}
			stored = true
		})
	}
}

func replayCachedResponse(w http.ResponseWriter, cached *CachedResponse) {
	for key, values := range cached.Headers {
		if key == RequestIDHeader {
			continue
		}
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.Header().Set(ReplayedHeader, "true")
	w.WriteHeader(cached.StatusCode)
	_, _ = w.Write(cached.Body)
}

func shouldCacheResponse(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
