// Package cache provides a cache abstraction for completion results.
// Supports both local (in-memory) and Redis backends for multi-instance
// deployments.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"codefill/internal/core"
)

// Entry is the cached outcome of one completion request: the full sample
// set delivered through the ready callback.
type Entry struct {
	Model     string                      `json:"model"`
	Items     []core.InlineCompletionItem `json:"items"`
	CreatedAt time.Time                   `json:"created_at"`
}

// Cache defines the interface for completion result storage.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a cached result by request key.
	// Returns nil, nil on a miss.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set stores a completion result under the request key.
	Set(ctx context.Context, key string, entry *Entry) error

	// Close releases any resources held by the cache.
	Close() error
}

// Key derives a stable cache key from a JSON-encodable request
// fingerprint. Two requests hash equal exactly when the fingerprint
// fields match.
func Key(fingerprint any) string {
	h := sha256.New()
	// Encoding plain fingerprint structs cannot fail.
	_ = json.NewEncoder(h).Encode(fingerprint)
	return hex.EncodeToString(h.Sum(nil))
}
