package types

import "errors"

// Catalogue operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidName   = errors.New("invalid name")
	ErrInvalidSort   = errors.New("invalid sort option")
	ErrStoreClosed   = errors.New("store is closed")
	ErrDeclined      = errors.New("operation declined")
	ErrEmptyPrompt   = errors.New("provide at least a name or description for suggestions")
	ErrMissingAPIKey = errors.New("no API key configured; run 'forge config set-key'")
)
