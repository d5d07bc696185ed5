package eventsub_service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Prepended to the hex digest before comparing against the signature header.
const hmacPrefix = "sha256="

// ComputeSignature builds the signature Twitch is expected to send for a
// delivery: HMAC-SHA256 over messageID + timestamp + raw body, hex encoded,
// with the "sha256=" prefix. The body must be the exact bytes received,
// re-serialized JSON breaks the signature.
func ComputeSignature(secret, messageID, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(messageID))
	mac.Write([]byte(timestamp))
	mac.Write(body)

	return hmacPrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether the signature header matches the expected
// signature for the delivery. Comparison is constant time.
func VerifySignature(secret, messageID, timestamp string, body []byte, signature string) bool {
	expected := ComputeSignature(secret, messageID, timestamp, body)

	return hmac.Equal([]byte(expected), []byte(signature))
}
