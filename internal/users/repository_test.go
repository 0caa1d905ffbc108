package users

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

// Create must surface a duplicate email as ErrEmailTaken, not as a raw
// driver error, so the handler layer can map it to a conflict response.
func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped unique violation", fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"}), true},
		{"other pg error", &pgconn.PgError{Code: "23503"}, false},
		{"plain error", fmt.Errorf("connection refused"), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		if got := isUniqueViolation(tc.err); got != tc.want {
			t.Fatalf("%s: isUniqueViolation = %v, want %v", tc.name, got, tc.want)
		}
	}
}
