package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// GenerateKey creates a cache key with prefix and ID.
func GenerateKey(prefix string, id string) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}

// HashKey builds "prefix:<sha256 of v as JSON>", a stable key for request
// payloads. Map keys are sorted by encoding/json so equal values hash equally.
func HashKey(prefix string, v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash key: %w", err)
	}
	sum := sha256.Sum256(data)
	return GenerateKey(prefix, hex.EncodeToString(sum[:16])), nil
}
