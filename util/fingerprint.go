package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const UnknownFingerprint = "unknown"

// Fingerprint derives a stable pseudo-identity from connection metadata.
// Same client, same string; that is the whole contract. It is not
// cryptographically unique: clients behind a shared NAT with identical
// user agents collide, which is an accepted limitation of identifying
// users without accounts.
func Fingerprint(remoteAddr, userAgent string) string {
	remoteAddr = strings.TrimSpace(remoteAddr)
	userAgent = strings.TrimSpace(userAgent)
	if remoteAddr == "" && userAgent == "" {
		return UnknownFingerprint
	}
	sum := sha256.Sum256([]byte(remoteAddr + "|" + userAgent))
	// hex keeps it alphanumeric and exactly 64 chars
	return hex.EncodeToString(sum[:])
}
