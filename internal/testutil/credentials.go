package testutil

import "github.com/neu-balayan/pageantscore/internal/model"

// Known administrator credentials for tests. The production digest's
// password is not known to the test suite, so tests inject this pair.
const (
	AdminUsername = "admin"
	AdminPassword = "secret"
	// sha256("secret")
	AdminDigestHex = "2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b"
)

// CredentialReference returns the reference matching AdminUsername/AdminPassword
func CredentialReference() model.CredentialReference {
	return model.CredentialReference{
		Identifier: AdminUsername,
		DigestHex:  AdminDigestHex,
	}
}
