package chrono

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// DigestChunkSize is the buffer size used when streaming content through
// the digest.
const DigestChunkSize = 64 * 1024

// NewDigest returns the hash used for content digests.
func NewDigest() hash.Hash {
	return sha256.New()
}

// EncodeDigest formats a finished hash as lowercase hex.
func EncodeDigest(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// DigestReader streams r through the content digest in fixed-size chunks
// and returns the hex digest and the number of bytes read.
func DigestReader(r io.Reader) (string, int64, error) {
	h := NewDigest()
	buf := make([]byte, DigestChunkSize)
	n, err := io.CopyBuffer(h, r, buf)
	if err != nil {
		return "", n, err
	}
	return EncodeDigest(h), n, nil
}

// ShortDigest abbreviates a digest for display.
func ShortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
