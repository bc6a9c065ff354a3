package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
)

// Supported signature digests
const (
	DigestSHA512 = "sha512"
	DigestSHA256 = "sha256"
)

// Verifier checks the HMAC signature the gateway sends with each notification
type Verifier struct {
	secret []byte
	digest func() hash.Hash
}

// NewVerifier creates a verifier for the given secret and digest name
func NewVerifier(secret, digest string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: webhook secret is empty", errs.ErrInvalidRequest)
	}

	var fn func() hash.Hash
	switch strings.ToLower(digest) {
	case "", DigestSHA512:
		fn = sha512.New
	case DigestSHA256:
		fn = sha256.New
	default:
		return nil, fmt.Errorf("%w: unsupported webhook digest %q", errs.ErrInvalidRequest, digest)
	}

	return &Verifier{secret: []byte(secret), digest: fn}, nil
}

// Sign returns the hex signature of body
func (v *Verifier) Sign(body []byte) string {
	mac := hmac.New(v.digest, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares signature against the HMAC of the raw body
func (v *Verifier) Verify(body []byte, signature string) error {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return errs.ErrMissingSignature
	}

	given, err := hex.DecodeString(signature)
	if err != nil {
		return errs.ErrInvalidSignature
	}

	mac := hmac.New(v.digest, v.secret)
	mac.Write(body)
	if !hmac.Equal(given, mac.Sum(nil)) {
		return errs.ErrInvalidSignature
	}
	return nil
}
