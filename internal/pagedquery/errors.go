package pagedquery

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Paginate matches exactly one of them
// with errors.Is, and also matches the underlying cause.
var (
	ErrDataSource   = errors.New("data source error")
	ErrConstruction = errors.New("pager construction error")
)

// Error records which step of the pagination recipe failed.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pagedquery: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }

func dataSourceError(op string, err error) error {
	return &Error{Kind: ErrDataSource, Op: op, Err: err}
}

func constructionError(err error) error {
	return &Error{Kind: ErrConstruction, Op: "pager", Err: err}
}
