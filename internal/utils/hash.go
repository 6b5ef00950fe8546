package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// BodyHashHeader carries the hex HMAC-SHA256 of a request body when a hash
// key is configured on both sides.
const BodyHashHeader = "X-Body-Hash"

// HashBody returns the hex HMAC-SHA256 of body under key. It covers the exact
// bytes on the wire, so the server must verify before decoding.
func HashBody(body []byte, key string) string {
	return hex.EncodeToString(sum(body, key))
}

// VerifyBodyHash reports whether signature is the hex HMAC of body under key.
// The comparison is constant-time; malformed hex never verifies.
func VerifyBodyHash(body []byte, key, signature string) bool {
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(got, sum(body, key))
}

func sum(data []byte, key string) []byte {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(data)
	return mac.Sum(nil)
}
