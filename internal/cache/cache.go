package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for TTL-keyed caching. Implementations
// must be safe for concurrent use. A cold or corrupted cache degrades
// to recomputation, never to incorrect results.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Invalidate(prefix string)
	Clear()
}

// URLKey generates a stable cache key fragment from a URL
func URLKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])
}
