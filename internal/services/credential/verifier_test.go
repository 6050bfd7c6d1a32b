package credential

import (
	"context"
	"crypto"
	_ "crypto/sha512"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	_ "golang.org/x/crypto/blake2s"

	"github.com/neu-balayan/pageantscore/internal/model"
)

// sha256("secret")
const secretDigest = "2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b"

type VerifierSuite struct {
	suite.Suite
	verifier *Verifier
}

func TestVerifierSuite(t *testing.T) {
	suite.Run(t, new(VerifierSuite))
}

func (s *VerifierSuite) SetupTest() {
	v, err := New(model.CredentialReference{Identifier: "admin", DigestHex: secretDigest})
	s.Require().NoError(err)
	s.verifier = v
}

// Digest tests

func (s *VerifierSuite) TestDigestIsLowercaseHexSHA256() {
	s.Equal(secretDigest, s.verifier.Digest("secret"))
	s.Equal("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", s.verifier.Digest(""))
}

func (s *VerifierSuite) TestDigestIsDeterministic() {
	first := s.verifier.Digest("secret")
	for range 5 {
		s.Equal(first, s.verifier.Digest("secret"))
	}
	s.Len(first, 64)
	s.Equal(strings.ToLower(first), first)
}

func (s *VerifierSuite) TestDigestEncodesMultiByteInput() {
	s.Equal("910b6afd2e21c049e2c0ee9bb9572983843e5768e8418ef1481eea9c492405ca", s.verifier.Digest("páss✓"))
	s.Equal(s.verifier.Digest("páss✓"), s.verifier.Digest("páss✓"))
}

// Verify tests

func (s *VerifierSuite) TestVerifyAcceptsReferencePair() {
	s.True(s.verifier.Verify("admin", "secret"))
}

func (s *VerifierSuite) TestVerifyRejectsWrongSecret() {
	s.False(s.verifier.Verify("admin", "Secret"))
	s.False(s.verifier.Verify("admin", "secret "))
}

func (s *VerifierSuite) TestVerifyRejectsOtherIdentifierWithCorrectSecret() {
	for _, id := range []string{"Admin", "admin ", "root", ""} {
		s.False(s.verifier.Verify(id, "secret"), "identifier %q", id)
	}
}

func (s *VerifierSuite) TestVerifyIsCaseSensitiveOnDigest() {
	// Flip the first hex letter to upper case
	idx := strings.IndexAny(secretDigest, "abcdef")
	s.Require().GreaterOrEqual(idx, 0)
	upper := secretDigest[:idx] + strings.ToUpper(secretDigest[idx:idx+1]) + secretDigest[idx+1:]

	v, err := New(model.CredentialReference{Identifier: "admin", DigestHex: upper})
	s.Require().NoError(err)
	s.False(v.Verify("admin", "secret"))
}

func (s *VerifierSuite) TestVerifyRequiresFullDigest() {
	v, err := New(model.CredentialReference{Identifier: "admin", DigestHex: secretDigest[:32]})
	s.Require().NoError(err)
	s.False(v.Verify("admin", "secret"))
}

// VerifyAsync tests

func (s *VerifierSuite) TestVerifyAsyncResolvesOnce() {
	ch := s.verifier.VerifyAsync(context.Background(), "admin", "secret")

	select {
	case ok := <-ch:
		s.True(ok)
	case <-time.After(time.Second):
		s.FailNow("verification did not resolve")
	}

	_, open := <-ch
	s.False(open)
}

func (s *VerifierSuite) TestVerifyAsyncCancelledContextYieldsNothing() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := s.verifier.VerifyAsync(ctx, "admin", "secret")
	select {
	case ok, open := <-ch:
		s.False(open, "expected closed channel, got %v", ok)
	case <-time.After(time.Second):
		s.FailNow("channel was not closed")
	}
}

// Construction tests

func (s *VerifierSuite) TestNewWithAlternative256BitHash() {
	v, err := New(model.CredentialReference{
		Identifier: "admin",
		DigestHex:  "66e754709229a1a76f12b770d612d4dba1d51e28894e2dce1b53ca15104f84c0",
	}, WithHash(crypto.BLAKE2s_256))
	s.Require().NoError(err)
	s.True(v.Verify("admin", "secret"))
}

func (s *VerifierSuite) TestNewFailsWhenHashNotLinked() {
	_, err := New(model.DefaultCredentialReference(), WithHash(crypto.MD4))
	s.ErrorIs(err, ErrDigestUnavailable)
}

func (s *VerifierSuite) TestNewFailsForWrongDigestSize() {
	_, err := New(model.DefaultCredentialReference(), WithHash(crypto.SHA512))
	s.ErrorIs(err, ErrDigestSize)
}

func (s *VerifierSuite) TestReferenceExposesIdentifierOnly() {
	s.Equal("admin", s.verifier.Reference())
}
