package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
)

// Domain-level errors I prefer to bubble up from repository implementations.
var (
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery marks statements Postgres rejected before running them:
	// syntax errors and references to unknown tables or columns.
	ErrInvalidQuery = errors.New("invalid query")
)

// sqlStater is implemented by the PgError types of both pgx v4 and v5.
type sqlStater interface {
	SQLState() string
}

// MapPgError marks errors Postgres raises for statements it rejected.
// The original error stays in the chain so the message survives logging;
// every other error is returned unchanged.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr sqlStater
	if errors.As(err, &pgErr) {
		switch pgErr.SQLState() {
		case pgerrcode.SyntaxError,
			pgerrcode.UndefinedTable,
			pgerrcode.UndefinedColumn,
			pgerrcode.UndefinedFunction,
			pgerrcode.AmbiguousColumn:
			return errors.Join(ErrInvalidQuery, err)
		}
	}
	return err
}
