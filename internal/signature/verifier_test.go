package signature

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Canonical fixture for the verification scheme. The secret decodes to 24
// zero bytes; the digest below is the HMAC-SHA256 of
// "msg_1.1614265330.{\"test\": 2432232314}" under that key.
const (
	fixtureSecret    = "whsec_AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	fixtureMessageID = "msg_1"
	fixtureTimestamp = "1614265330"
	fixtureBody      = `{"test": 2432232314}`
	fixtureDigest    = "Bl1a0SVt78DCV06Rvr6oSEMbCaFysVu27en9cW0mNBI="
)

func TestVerify_CanonicalFixture(t *testing.T) {
	v := NewVerifier(0)

	err := v.Verify([]byte(fixtureBody), fixtureMessageID, fixtureTimestamp,
		"v1,"+fixtureDigest, fixtureSecret)
	assert.NoError(t, err)
}

func TestSign_CanonicalFixture(t *testing.T) {
	token, err := Sign(fixtureSecret, fixtureMessageID, fixtureTimestamp, []byte(fixtureBody))
	require.NoError(t, err)
	assert.Equal(t, "v1,"+fixtureDigest, token)
}

func TestVerify_SignRoundTrip(t *testing.T) {
	v := NewVerifier(0)
	secret := "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"
	body := []byte(`{"eventType":"transaction.deposit","data":{"amount":100}}`)

	token, err := Sign(secret, "msg_2EayM6", "1716470000", body)
	require.NoError(t, err)

	assert.NoError(t, v.Verify(body, "msg_2EayM6", "1716470000", token, secret))
}

func TestVerify_FlippedInputsAreForged(t *testing.T) {
	v := NewVerifier(0)
	sig := "v1," + fixtureDigest

	tests := []struct {
		name      string
		body      string
		messageID string
		timestamp string
		secret    string
	}{
		{"flipped body", `{"test": 2432232315}`, fixtureMessageID, fixtureTimestamp, fixtureSecret},
		{"flipped message id", fixtureBody, "msg_2", fixtureTimestamp, fixtureSecret},
		{"flipped timestamp", fixtureBody, fixtureMessageID, "1614265331", fixtureSecret},
		{"flipped secret", fixtureBody, fixtureMessageID, fixtureTimestamp, "whsec_AAAAAAAAAAAAAAAAAAAAAAAAAAAAAABB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify([]byte(tt.body), tt.messageID, tt.timestamp, sig, tt.secret)
			require.Error(t, err)
			assert.True(t, IsVerificationError(err))
		})
	}
}

func TestVerify_MissingHeaders(t *testing.T) {
	v := NewVerifier(0)
	sig := "v1," + fixtureDigest

	tests := []struct {
		name      string
		messageID string
		timestamp string
		sigHeader string
	}{
		{"missing message id", "", fixtureTimestamp, sig},
		{"missing timestamp", fixtureMessageID, "", sig},
		{"missing signature", fixtureMessageID, fixtureTimestamp, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify([]byte(fixtureBody), tt.messageID, tt.timestamp, tt.sigHeader, fixtureSecret)
			assert.True(t, IsVerificationError(err))
		})
	}
}

func TestVerify_MalformedSecret(t *testing.T) {
	v := NewVerifier(0)

	err := v.Verify([]byte(fixtureBody), fixtureMessageID, fixtureTimestamp,
		"v1,"+fixtureDigest, "whsec_not!!valid@@base64")
	require.Error(t, err)
	assert.True(t, IsVerificationError(err))
}

func TestVerify_RotationTokens(t *testing.T) {
	v := NewVerifier(0)

	// Several space-separated tokens; the valid one is not first
	header := strings.Join([]string{
		"v1,aW52YWxpZHNpZ25hdHVyZQ==",
		"v2," + fixtureDigest,
		"v1," + fixtureDigest,
	}, " ")

	assert.NoError(t, v.Verify([]byte(fixtureBody), fixtureMessageID, fixtureTimestamp, header, fixtureSecret))
}

func TestVerify_WrongVersionOnlyIsForged(t *testing.T) {
	v := NewVerifier(0)

	// Correct digest but tagged with an unknown version
	err := v.Verify([]byte(fixtureBody), fixtureMessageID, fixtureTimestamp,
		"v2,"+fixtureDigest, fixtureSecret)
	assert.True(t, IsVerificationError(err))
}

func TestVerify_Deterministic(t *testing.T) {
	v := NewVerifier(0)
	sig := "v1," + fixtureDigest

	for i := 0; i < 3; i++ {
		assert.NoError(t, v.Verify([]byte(fixtureBody), fixtureMessageID, fixtureTimestamp, sig, fixtureSecret))
	}
}

func TestVerify_TimestampTolerance(t *testing.T) {
	v := NewVerifier(300)
	v.now = func() time.Time { return time.Unix(1614265330, 0) }

	sign := func(ts string) string {
		token, err := Sign(fixtureSecret, fixtureMessageID, ts, []byte(fixtureBody))
		require.NoError(t, err)
		return token
	}

	// Inside the window, both directions
	assert.NoError(t, v.Verify([]byte(fixtureBody), fixtureMessageID, "1614265330", sign("1614265330"), fixtureSecret))
	assert.NoError(t, v.Verify([]byte(fixtureBody), fixtureMessageID, "1614265100", sign("1614265100"), fixtureSecret))
	assert.NoError(t, v.Verify([]byte(fixtureBody), fixtureMessageID, "1614265600", sign("1614265600"), fixtureSecret))

	// Outside the window
	err := v.Verify([]byte(fixtureBody), fixtureMessageID, "1614264000", sign("1614264000"), fixtureSecret)
	assert.True(t, IsVerificationError(err))

	// Garbage timestamp
	err = v.Verify([]byte(fixtureBody), fixtureMessageID, "yesterday", sign("yesterday"), fixtureSecret)
	assert.True(t, IsVerificationError(err))
}

func TestVerifyRequest(t *testing.T) {
	v := NewVerifier(0)

	r := httptest.NewRequest("POST", "/webhooks/acme/transactions", strings.NewReader(fixtureBody))
	r.Header.Set(HeaderMessageID, fixtureMessageID)
	r.Header.Set(HeaderTimestamp, fixtureTimestamp)
	r.Header.Set(HeaderSignature, "v1,"+fixtureDigest)

	body, err := PreserveRequestBody(r)
	require.NoError(t, err)

	assert.NoError(t, v.VerifyRequest(r, body, fixtureSecret))

	// The body must still be readable after preservation
	again, err := PreserveRequestBody(r)
	require.NoError(t, err)
	assert.Equal(t, fixtureBody, string(again))
}
