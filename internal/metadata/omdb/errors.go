package omdb

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog operations.
var (
	// ErrEmptyResult means the catalog answered but had nothing for the request.
	// It is a valid outcome, not a transport failure.
	ErrEmptyResult = errors.New("omdb: no results")

	ErrUnauthorized = errors.New("omdb: invalid or missing api key")
	ErrRateLimited  = errors.New("omdb: request limit reached")
	ErrBadRequest   = errors.New("omdb: bad request")
	ErrServer       = errors.New("omdb: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string // "search", "getByID", "getByTitle"
	Key string // query, id, or title
	Err error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("omdb %s [%s]: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("omdb %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, key string, err error) error {
	return &Error{Op: op, Key: key, Err: err}
}

// IsEmptyResult reports whether err means the catalog had no match.
func IsEmptyResult(err error) bool {
	return errors.Is(err, ErrEmptyResult)
}

// IsTransport reports whether err is a failure to get a usable answer from the catalog:
// network errors, non-2xx statuses, and undecodable bodies.
func IsTransport(err error) bool {
	return err != nil && !IsEmptyResult(err)
}
