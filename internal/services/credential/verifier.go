package credential

import (
	"context"
	"crypto"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/neu-balayan/pageantscore/internal/model"
)

// Errors
var (
	ErrDigestUnavailable = errors.New("digest primitive unavailable")
	ErrDigestSize        = errors.New("digest must be 256 bits")
)

// digestSize is the size in bytes of every supported digest
const digestSize = sha256.Size

// Option configures a Verifier
type Option func(*Verifier)

// WithHash selects the hash used to digest secrets. It must be registered
// (linked into the binary) and produce 256-bit output.
func WithHash(h crypto.Hash) Option {
	return func(v *Verifier) {
		v.hash = h
	}
}

// Verifier checks a submitted identifier and secret against a fixed reference
type Verifier struct {
	ref  model.CredentialReference
	hash crypto.Hash
}

// New creates a Verifier for the given reference. Fails when the hash
// primitive is missing from this build, which callers should treat as fatal.
func New(ref model.CredentialReference, opts ...Option) (*Verifier, error) {
	v := &Verifier{
		ref:  ref,
		hash: crypto.SHA256,
	}
	for _, opt := range opts {
		opt(v)
	}

	if !v.hash.Available() {
		return nil, fmt.Errorf("%w: %s", ErrDigestUnavailable, v.hash)
	}
	if v.hash.Size() != digestSize {
		return nil, fmt.Errorf("%w: %s is %d bits", ErrDigestSize, v.hash, v.hash.Size()*8)
	}

	return v, nil
}

// Digest returns the lowercase hex digest of the UTF-8 bytes of secret
func (v *Verifier) Digest(secret string) string {
	h := v.hash.New()
	_, _ = h.Write([]byte(secret))
	return hex.EncodeToString(h.Sum(nil))
}

// Verify reports whether identifier and secret match the reference.
// Both comparisons are exact and case-sensitive over the full strings.
func (v *Verifier) Verify(identifier, secret string) bool {
	if identifier != v.ref.Identifier {
		return false
	}
	return v.Digest(secret) == v.ref.DigestHex
}

// VerifyAsync runs Verify in the background. The returned channel yields
// exactly one result and is then closed, or is closed without a value if
// ctx is done first.
func (v *Verifier) VerifyAsync(ctx context.Context, identifier, secret string) <-chan bool {
	out := make(chan bool, 1)
	go func() {
		defer close(out)
		ok := v.Verify(identifier, secret)
		select {
		case <-ctx.Done():
		default:
			out <- ok
		}
	}()
	return out
}

// Reference returns the identifier the verifier accepts. The digest is not exposed.
func (v *Verifier) Reference() string {
	return v.ref.Identifier
}
