package gotdt

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKeyExtended generates a cache key from a text hash, the language pair
// and the provider that produced the translation.
func CacheKeyExtended(hash, sourceLang, targetLang, provider string) string {
	return hash + ":" + sourceLang + ":" + targetLang + ":" + provider
}

// ChunkCacheKey is the cache key of a chunk translated by provider.
func ChunkCacheKey(chunk, sourceLang, targetLang, provider string) string {
	return CacheKeyExtended(HashText(chunk), sourceLang, targetLang, provider)
}
