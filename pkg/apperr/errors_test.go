package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeHelpers(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"validation", NewValidationError("bad amount"), IsValidationError},
		{"not found", NewNotFoundError("subscription not found"), IsNotFoundError},
		{"conflict", NewConflictError("already attached"), IsConflictError},
		{"unauthorized", NewUnauthorizedError("missing token"), IsUnauthorizedError},
		{"tx failure", NewTransactionFailure("save failed", errors.New("boom")), IsTransactionFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.True(t, tc.check(tc.err))
			require.True(t, tc.check(fmt.Errorf("outer: %w", tc.err)))
		})
	}
}

func TestWrap(t *testing.T) {
	require.NoError(t, Wrap(nil, "x"))

	nf := NewNotFoundError("gone")
	require.Same(t, nf, Wrap(nf, "x"))

	cause := errors.New("connection reset")
	wrapped := Wrap(cause, "record payment failed")
	require.True(t, IsTransactionFailure(wrapped))
	require.ErrorIs(t, wrapped, cause)
	require.Equal(t, "record payment failed", GetAppError(wrapped).Message)
}

func TestIsDuplicateError(t *testing.T) {
	require.True(t, IsDuplicateError(errors.New("UNIQUE constraint failed: pack_membership.member_id")))
	require.True(t, IsDuplicateError(errors.New(`ERROR: duplicate key value violates unique constraint "uq"`)))
	require.False(t, IsDuplicateError(errors.New("other")))
	require.False(t, IsDuplicateError(nil))
}
