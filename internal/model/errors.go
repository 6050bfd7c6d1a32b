package model

import "errors"

// Common errors used across the application
var (
	// Credential errors
	ErrMissingInput       = errors.New("enter username and password")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
