// Package signature verifies the X-Hub-Signature header that Facebook
// attaches to every webhook delivery. The header carries an HMAC-SHA1
// digest of the raw request body keyed with the app secret.
//
// Reference: https://developers.facebook.com/docs/messenger-platform/webhooks#security
package signature

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. A missing header and a mismatched digest both reject the
// request, but callers log them as distinct conditions.
var (
	// ErrMissingSignature indicates the request carried no signature header.
	ErrMissingSignature = errors.New("signature header missing")

	// ErrSignatureMismatch indicates the computed digest does not match the header.
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// Header is the request header Facebook sends the digest in.
const Header = "X-Hub-Signature"

// Verify checks headerValue (expected form "sha1=<hex digest>") against the
// HMAC-SHA1 of body keyed with secret. It returns nil when the digest
// matches, ErrMissingSignature for an empty header, ErrSignatureMismatch for
// a wrong digest, and a descriptive error for an unsupported algorithm or a
// malformed hex sequence.
func Verify(secret, body []byte, headerValue string) error {
	if headerValue == "" {
		return ErrMissingSignature
	}

	algo, digest, ok := strings.Cut(headerValue, "=")
	if !ok {
		return fmt.Errorf("malformed signature header: %w", ErrSignatureMismatch)
	}
	if !strings.EqualFold(algo, "sha1") {
		return fmt.Errorf("unsupported signature algorithm %q: %w", algo, ErrSignatureMismatch)
	}

	want, err := hex.DecodeString(digest)
	if err != nil || len(want) != sha1.Size {
		return fmt.Errorf("invalid signature hex sequence: %w", ErrSignatureMismatch)
	}

	mac := hmac.New(sha1.New, secret)
	mac.Write(body)
	if !hmac.Equal(mac.Sum(nil), want) {
		return ErrSignatureMismatch
	}

	return nil
}
