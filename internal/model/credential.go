package model

import "crypto"

// CredentialReference is the fixed administrator identity the login gate checks against
type CredentialReference struct {
	Identifier string
	DigestHex  string // lowercase hex SHA-256 of the administrator password
}

// DefaultCredentialHash is the digest DefaultCredentialReference was made with
const DefaultCredentialHash = crypto.SHA256

// DefaultCredentialReference returns the reference compiled into the binary
func DefaultCredentialReference() CredentialReference {
	return CredentialReference{
		Identifier: "admin",
		DigestHex:  "a36aef5a11c4073fbe60314fc9df530a9d5f986533594d1f5190742ff9e0e408",
	}
}

// LoginAttempt is a submitted identifier/secret pair. Discarded after verification.
type LoginAttempt struct {
	Identifier string
	Secret     string
}

// Complete reports whether both fields were filled in
func (a LoginAttempt) Complete() bool {
	return a.Identifier != "" && a.Secret != ""
}
