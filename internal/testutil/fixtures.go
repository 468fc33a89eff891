package testutil

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"webhook-consumer/internal/signature"
)

// TestSecret decodes to 24 zero bytes and signs the canonical fixtures used
// across the test suite.
const TestSecret = "whsec_AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// SignedRequest builds a POST request for path with a valid signature header
// triple for body under secret.
func SignedRequest(t *testing.T, path, secret, messageID string, body []byte) *http.Request {
	t.Helper()

	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	token, err := signature.Sign(secret, messageID, timestamp, body)
	if err != nil {
		t.Fatalf("failed to sign fixture request: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set(signature.HeaderMessageID, messageID)
	r.Header.Set(signature.HeaderTimestamp, timestamp)
	r.Header.Set(signature.HeaderSignature, token)

	return r
}
