package store

import "errors"

// Sentinel errors returned (wrapped with context via fmt.Errorf("%w: ...")) by every
// Store operation. Callers use errors.Is to classify failures per the error taxonomy.
var (
	ErrNotFound = errors.New("store: not found")
	ErrConflict = errors.New("store: conflict")
	ErrBackend  = errors.New("store: backend error")
)

// ErrUnknownScheme is returned by Open when db_path carries neither a sqlite:// nor a
// postgres:// scheme.
var ErrUnknownScheme = errors.New("store: unknown database URI scheme")
