package reconciler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// SignatureParts holds the ts and v1 fields of an X-Signature header,
// formatted as "ts=<unix>,v1=<hex hmac>".
type SignatureParts struct {
	Timestamp string
	Digest    string
}

// ParseSignatureHeader splits an X-Signature header into its parts.
// Returns false when either field is absent.
func ParseSignatureHeader(header string) (SignatureParts, bool) {
	var parts SignatureParts
	for _, field := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(field), "=")
		if !ok {
			continue
		}
		switch k {
		case "ts":
			parts.Timestamp = v
		case "v1":
			parts.Digest = v
		}
	}
	return parts, parts.Timestamp != "" && parts.Digest != ""
}

// VerifySignature checks the header digest against an HMAC-SHA256 of the
// canonical manifest "id:<payment-id>;ts:<timestamp>;" keyed with secret.
func VerifySignature(secret, paymentID, header string) bool {
	parts, ok := ParseSignatureHeader(header)
	if !ok {
		return false
	}
	manifest := fmt.Sprintf("id:%s;ts:%s;", paymentID, parts.Timestamp)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(strings.ToLower(parts.Digest)))
}
