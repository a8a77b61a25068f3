package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Verification failure reasons. Both resolve to invalid; they are kept
// distinct for diagnostics only.
const (
	ReasonMalformedSignature = "signature is not valid hex"
	ReasonLengthMismatch     = "signature length mismatch"
	ReasonDigestMismatch     = "signature mismatch"
)

type VerifyResult struct {
	Valid  bool
	Reason string
}

// Sign computes the lowercase hex HMAC-SHA256 of payload under secret,
// the format gateways put in the signature header.
func Sign(payload, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks signatureHeader against the HMAC-SHA256 of payload under
// secret. An optional algorithm tag ("sha256=") is stripped first. The
// digest comparison is constant-time; only the length check branches, and
// length is not secret-dependent.
func Verify(payload []byte, signatureHeader string, secret []byte) VerifyResult {
	sig := strings.TrimSpace(signatureHeader)
	if i := strings.IndexByte(sig, '='); i >= 0 {
		sig = sig[i+1:]
	}
	provided, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return VerifyResult{Reason: ReasonMalformedSignature}
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := mac.Sum(nil)
	if len(provided) != len(expected) {
		return VerifyResult{Reason: ReasonLengthMismatch}
	}
	if !hmac.Equal(provided, expected) {
		return VerifyResult{Reason: ReasonDigestMismatch}
	}
	return VerifyResult{Valid: true}
}
