package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bjl5029/WSD-3/internal/database"
	"github.com/bjl5029/WSD-3/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, want: true},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, want: true},
		{name: "lock timeout", err: &pgconn.PgError{Code: "55P03"}, want: true},
		{name: "too many connections", err: &pgconn.PgError{Code: "53300"}, want: true},
		{name: "admin shutdown", err: &pgconn.PgError{Code: "57P01"}, want: true},
		{name: "connection exception class", err: &pgconn.PgError{Code: "08006"}, want: true},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: false},
		{name: "acquire timeout", err: fmt.Errorf("wrapped: %w", database.ErrAcquireTimeout), want: true},
		{name: "already classified", err: fmt.Errorf("op: %w", storage.ErrTransient), want: true},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("unique violation becomes conflict", func(t *testing.T) {
		err := classify(&pgconn.PgError{Code: "23505", ConstraintName: "applications_user_posting_key"}, "creating application")
		assert.ErrorIs(t, err, storage.ErrConflict)
		assert.Contains(t, err.Error(), "applications_user_posting_key")
	})

	t.Run("deadlock becomes transient and keeps cause", func(t *testing.T) {
		cause := &pgconn.PgError{Code: "40P01"}
		err := classify(cause, "inserting posting")
		assert.ErrorIs(t, err, storage.ErrTransient)
		var pgErr *pgconn.PgError
		assert.ErrorAs(t, err, &pgErr)
	})

	t.Run("cancellation is not transient", func(t *testing.T) {
		err := classify(context.Canceled, "searching")
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, storage.ErrTransient)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, classify(nil, "noop"))
	})
}
