package signature

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// SecretPrefix is the non-secret prefix carried by every signing secret
	SecretPrefix = "whsec_"

	// SignatureVersion tags the signature scheme; only v1 tokens are accepted
	SignatureVersion = "v1"

	// HeaderMessageID carries the producer-assigned delivery id
	HeaderMessageID = "x-signature-id"
	// HeaderTimestamp carries the delivery timestamp in unix seconds
	HeaderTimestamp = "x-signature-timestamp"
	// HeaderSignature carries the space-separated signature tokens
	HeaderSignature = "x-signature-v1"
)

// Verifier checks webhook deliveries against the producer's HMAC scheme.
// The zero value accepts any timestamp; set ToleranceSeconds to bound the
// age of accepted deliveries.
type Verifier struct {
	// ToleranceSeconds is the maximum allowed distance between the delivery
	// timestamp and now, in either direction. Zero disables the check.
	ToleranceSeconds int

	// now is swappable for tests
	now func() time.Time
}

// NewVerifier creates a verifier with the given timestamp tolerance in
// seconds (0 disables timestamp age checking).
func NewVerifier(toleranceSeconds int) *Verifier {
	return &Verifier{
		ToleranceSeconds: toleranceSeconds,
		now:              time.Now,
	}
}

// Verify checks a delivery against the secret on file for its endpoint.
// A nil return means the delivery is authentic. Any missing header, malformed
// secret, decode failure, stale timestamp, or token mismatch yields a
// *VerificationError; no other outcome exists.
//
// body must be the raw, byte-exact request body - any re-encoding breaks the
// signature.
func (v *Verifier) Verify(body []byte, messageID, timestamp, sigHeader, secret string) error {
	if messageID == "" {
		return NewVerificationError("missing message id header")
	}
	if timestamp == "" {
		return NewVerificationError("missing timestamp header")
	}
	if sigHeader == "" {
		return NewVerificationError("missing signature header")
	}

	if err := v.checkTimestamp(timestamp); err != nil {
		return err
	}

	key, err := decodeSecret(secret)
	if err != nil {
		return err
	}

	expected := computeDigest(key, messageID, timestamp, body)

	// The header may hold several space-separated "version,sig" tokens to
	// support secret rotation; any matching v1 token authenticates.
	for _, token := range strings.Split(sigHeader, " ") {
		version, sig, ok := strings.Cut(token, ",")
		if !ok || version != SignatureVersion {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}

	return NewVerificationError("no signature token matched")
}

// VerifyRequest is a convenience wrapper extracting the header triple from r.
// body must already have been read (and preserved) by the caller.
func (v *Verifier) VerifyRequest(r *http.Request, body []byte, secret string) error {
	return v.Verify(body,
		r.Header.Get(HeaderMessageID),
		r.Header.Get(HeaderTimestamp),
		r.Header.Get(HeaderSignature),
		secret,
	)
}

// Sign computes the v1 signature token for a payload. It is the producer
// side of Verify and exists for fixtures and outbound test traffic.
func Sign(secret, messageID, timestamp string, body []byte) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	return SignatureVersion + "," + computeDigest(key, messageID, timestamp, body), nil
}

// checkTimestamp bounds the delivery age when a tolerance is configured
func (v *Verifier) checkTimestamp(timestamp string) error {
	if v.ToleranceSeconds <= 0 {
		return nil
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return NewVerificationError("invalid timestamp %q", timestamp)
	}

	now := time.Now
	if v.now != nil {
		now = v.now
	}

	age := now().Sub(time.Unix(ts, 0))
	if age < 0 {
		age = -age
	}
	if age > time.Duration(v.ToleranceSeconds)*time.Second {
		return NewVerificationError("timestamp outside tolerance: %v", age)
	}

	return nil
}

// decodeSecret strips the whsec_ prefix and base64-decodes the key material
func decodeSecret(secret string) ([]byte, error) {
	if secret == "" {
		return nil, NewVerificationError("empty secret")
	}

	encoded := strings.TrimPrefix(secret, SecretPrefix)
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, NewVerificationError("malformed secret")
	}
	return key, nil
}

// computeDigest builds "{id}.{ts}.{body}" and returns the base64 HMAC-SHA256
func computeDigest(key []byte, messageID, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(messageID))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// PreserveRequestBody reads and preserves the request body so the same bytes
// feed both signature verification and payload decoding.
func PreserveRequestBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}
