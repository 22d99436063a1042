package source

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is a BLAKE3-256 content hash.
type Digest [32]byte

// HashBytes returns the digest of content.
func HashBytes(content []byte) Digest {
	return blake3.Sum256(content)
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short is the first 12 hex digits, enough for logs.
func (d Digest) Short() string {
	return d.String()[:12]
}
