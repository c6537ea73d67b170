package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// idLen is the number of hex digits kept in short content identifiers.
const idLen = 12

// SHA256 returns the hex digest of input.
func SHA256(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}

// ContentID returns a short stable identifier for rendered content, such as a node
// rendering or a script body.
func ContentID(input string) string {
	return SHA256(input)[:idLen]
}

// ReaderID is ContentID for content read from r.
func ReaderID(reader io.Reader) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, reader); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil))[:idLen], nil
}
