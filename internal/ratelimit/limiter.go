// Package ratelimit provides a small in-memory sliding-window limiter for the
// analyze endpoints, keyed by client IP. The scoring service does real work
// per request (chain lookups plus model inference), so the gateway throttles
// before forwarding.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Bucket defines the window for one endpoint group.
type Bucket struct {
	MaxRequests int
	Window      time.Duration
}

// DefaultBuckets throttle analysis separately from the cheap read endpoints.
var DefaultBuckets = map[string]Bucket{
	"analyze": {MaxRequests: 30, Window: time.Minute},
	"api":     {MaxRequests: 60, Window: time.Minute},
}

// Limiter tracks request timestamps per key.
type Limiter struct {
	mu   sync.Mutex
	hits map[string][]time.Time
}

// New creates an empty limiter.
func New() *Limiter {
	return &Limiter{hits: make(map[string][]time.Time)}
}

// Allow reports whether a request for key fits within bucket, recording it if
// so.
func (l *Limiter) Allow(key string, bucket Bucket) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-bucket.Window)
	kept := l.hits[key][:0]
	for _, ts := range l.hits[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= bucket.MaxRequests {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, time.Now())
	return true
}

// Check rejects the request with 429 if the client is over the limit for the
// named bucket. It returns true when the request was rejected and the caller
// should stop.
func (l *Limiter) Check(w http.ResponseWriter, r *http.Request, bucketName string) bool {
	bucket, ok := DefaultBuckets[bucketName]
	if !ok {
		bucket = Bucket{MaxRequests: 60, Window: time.Minute}
	}

	ip := r.RemoteAddr
	if fwd := r.Header.Get("X-Real-IP"); fwd != "" {
		ip = fwd
	}

	if l.Allow(bucketName+":"+ip, bucket) {
		return false
	}

	retryAfter := strconv.Itoa(int(bucket.Window.Seconds()))
	w.Header().Set("Retry-After", retryAfter)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(`{"error":"Rate limited","retry_after_seconds":` + retryAfter + `}`))
	return true
}
