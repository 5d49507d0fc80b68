package report

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"djlens/internal/inventory"
)

// StateDigest returns a short content-addressed identifier for one
// inventory snapshot. Two scans over identical trees produce the same
// digest, which makes report provenance comparable across runs.
func StateDigest(files []inventory.FileRecord) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		return ""
	}
	for _, f := range files {
		h.Write([]byte(f.Path))
		h.Write([]byte{0})
		h.Write([]byte(f.Content))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
