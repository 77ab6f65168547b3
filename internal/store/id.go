package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// generatePrefixedID creates a globally unique ID in the format:
//
//	{prefix}_{unix_nano}_{12_hex_chars}
//
// The 12 hex characters are derived from 6 cryptographically random bytes,
// giving 48 bits of randomness to avoid collisions at the same nanosecond.
// If crypto/rand fails, the ID omits the random suffix and relies on the
// nanosecond timestamp alone.
func generatePrefixedID(prefix string) string {
	timestamp := time.Now().UnixNano()

	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%s_%d", prefix, timestamp)
	}

	return fmt.Sprintf("%s_%d_%s", prefix, timestamp, hex.EncodeToString(b[:]))
}

// GenerateProjectID generates a project ID using pattern: proj_<unix_nano>_<random_hex>.
func GenerateProjectID() string {
	return generatePrefixedID("proj")
}

// GenerateTaskID generates a task ID using pattern: task_<unix_nano>_<random_hex>.
// Task IDs are globally unique across projects; the flat id-indexed lookup
// is the canonical access path.
func GenerateTaskID() string {
	return generatePrefixedID("task")
}
