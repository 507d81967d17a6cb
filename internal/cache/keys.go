package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

const (
	GlobalKeyPrefix = "ragtutor"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// EmbeddingKey addresses the cached vector of text under one embedding model.
func EmbeddingKey(model, text string) string {
	return GenerateCacheKey("embedding", model, HashString(text))
}

// TopicsKey addresses the derived topic list of one subject and year.
func TopicsKey(subject string, year int) string {
	return GenerateCacheKey("topics", "list", strings.ToLower(subject), strconv.Itoa(year))
}

// HashString returns the hex sha256 of s.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
