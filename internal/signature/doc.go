// Package signature implements webhook signature verification for the
// producer's time-bound HMAC scheme.
//
// Each delivery carries three headers: a message id, a unix-seconds
// timestamp, and one or more versioned signature tokens. The signed content
// is the raw request body joined with the id and timestamp:
//
//	{messageId}.{timestamp}.{body}
//
// The secret is an opaque string of the form "whsec_<base64>"; the prefix is
// not part of the key material. The signature header may carry several
// space-separated "version,base64sig" tokens so that deliveries signed during
// a secret rotation stay verifiable; a delivery is authentic when any
// v1-tagged token matches the computed HMAC-SHA256 digest.
//
// Verification is a pure function over its inputs. It never touches the
// secret store, and a failed check is returned as a value - callers decide
// how to reject the delivery.
package signature
