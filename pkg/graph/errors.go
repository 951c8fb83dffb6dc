package graph

import "errors"

var (
	// ErrEmptyKey is returned when a node or link has no key
	ErrEmptyKey = errors.New("graph: empty key")
	// ErrDuplicateKey is returned when two nodes or two links share a key
	ErrDuplicateKey = errors.New("graph: duplicate key")
	// ErrUnknownEndpoint is returned when a link endpoint does not name a node
	ErrUnknownEndpoint = errors.New("graph: link endpoint not found")
	// ErrMissingPrimaryGroup is returned when a node or link has no group
	ErrMissingPrimaryGroup = errors.New("graph: missing primary group")
	// ErrGroupOutOfRange is returned when a group reference has no matching group
	ErrGroupOutOfRange = errors.New("graph: group index out of range")
)
