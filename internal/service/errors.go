package service

import "errors"

// Sentinel errors services wrap so handlers can map them to HTTP statuses
// without string matching.
var (
	// ErrValidation — missing or malformed input (400).
	ErrValidation = errors.New("validation")
	// ErrNotFound — unknown provider/truck/session/item (404).
	ErrNotFound = errors.New("not found")
	// ErrConflict — duplicate provider/truck, already-open session,
	// duplicate out (409).
	ErrConflict = errors.New("conflict")
	// ErrUpstream — the weight service could not be reached from billing (502).
	ErrUpstream = errors.New("upstream")
)
