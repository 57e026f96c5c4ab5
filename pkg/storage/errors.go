package storage

import "errors"

var (
	// ErrNotFound if no solution matches a lookup.
	ErrNotFound = errors.New("not found")

	// ErrCollision if a solution with the same id already exists.
	ErrCollision = errors.New("item already exists")

	// ErrClosed if a writer is used after Close.
	ErrClosed = errors.New("writer closed")
)
