package search

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDefinition = errors.New("invalid index definition")
	ErrInvalidRange      = errors.New("invalid pagination range")
	ErrUnavailable       = errors.New("search backend unavailable")
	ErrBackendNotFound   = errors.New("search backend not found")
)

// QueryError is a failure reported by the backend for a well-delivered request.
type QueryError struct {
	Engine Engine
	Op     string
	Status int
	Reason string
}

func (e *QueryError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s %s failed with status %d", e.Engine, e.Op, e.Status)
	}
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Engine, e.Op, e.Status, e.Reason)
}
