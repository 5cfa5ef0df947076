package repositories

import "errors"

// Domain errors surfaced by repositories so handlers can map them to
// the right HTTP status without string matching.
var (
	ErrRelationExists    = errors.New("relation already exists")
	ErrRelationNotFound  = errors.New("relation not found")
	ErrAlreadySubscribed = errors.New("subscription already exists")
	ErrNotSubscribed     = errors.New("subscription not found")
)
