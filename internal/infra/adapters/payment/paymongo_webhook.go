package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyWebhookSignature checks a PayMongo webhook signature header of the
// form "t=<timestamp>,te=<hex>" (test mode) or "t=<timestamp>,li=<hex>"
// (live mode) against the raw, unparsed request body. The signed payload is
// "<timestamp>.<body>" and the digest is HMAC-SHA256 with the webhook
// secret. Returns false when either header component is missing; never
// panics on malformed input.
func VerifyWebhookSignature(payload []byte, signatureHeader, secret string) bool {
	var timestamp, sig string
	for _, part := range strings.Split(signatureHeader, ",") {
		switch {
		case strings.HasPrefix(part, "t="):
			timestamp = part[len("t="):]
		case strings.HasPrefix(part, "te="):
			sig = part[len("te="):]
		case strings.HasPrefix(part, "li="):
			sig = part[len("li="):]
		}
	}
	if timestamp == "" || sig == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	// hex digests, so constant-time comparison over the encoded form is fine
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(sig)))
}
