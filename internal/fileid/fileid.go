// Package fileid derives a deterministic document ID from a resume file path.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "resume:"

// DocID returns a stable document ID for the given absolute path.
// The same path always yields the same ID, so re-ingesting a changed resume
// replaces the previous document instead of duplicating the candidate.
func DocID(absolutePath string) string {
	normalized := filepath.Clean(absolutePath)
	hash := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(hash[:])
}
