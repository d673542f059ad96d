package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for configuration validation.
var (
	ErrConfigRequired  = errors.New("config is required")
	ErrInvalidEndpoint = errors.New("invalid endpoint")
)

// Errors for input validation.
var (
	ErrNoIDs       = errors.New("no ids provided")
	ErrEmptyPath   = errors.New("path is required")
	ErrInvalidKind = errors.New("invalid media kind")
)

// ErrNotConfirmed is returned when the server accepted an upload but the new
// row does not show up in the listing. The media server redirects even when
// the object store rejected the file.
var ErrNotConfirmed = errors.New("upload not confirmed")
