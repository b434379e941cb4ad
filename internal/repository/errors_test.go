package repository_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/maxviazov/pagedquery/internal/repository"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	syntax := &pgconn.PgError{Code: pgerrcode.SyntaxError, Message: "syntax error at or near \"FORM\""}
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"wrapped undefined column", fmt.Errorf("count: %w", &pgconn.PgError{Code: pgerrcode.UndefinedColumn}), repository.ErrInvalidQuery},
		{"syntax", syntax, repository.ErrInvalidQuery},
		{"undefined table", &pgconn.PgError{Code: pgerrcode.UndefinedTable}, repository.ErrInvalidQuery},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := repository.MapPgError(tc.in)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}

	assert.ErrorIs(t, repository.MapPgError(syntax), syntax, "original error stays in the chain")

	other := errors.New("boom")
	assert.Same(t, other, repository.MapPgError(other))
	deadlock := &pgconn.PgError{Code: pgerrcode.DeadlockDetected}
	assert.Same(t, deadlock, repository.MapPgError(deadlock))
	// reads never write, so constraint violations are not given their own kind
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	assert.Same(t, unique, repository.MapPgError(unique))
	assert.NotErrorIs(t, repository.MapPgError(unique), repository.ErrInvalidQuery)
}
