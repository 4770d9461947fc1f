package domain

import "errors"

var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")
	// ErrContactLookupFailed indicates the session transport could not
	// resolve a contact profile.
	ErrContactLookupFailed = errors.New("contact lookup failed")
)
