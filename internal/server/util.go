package server

import (
	"errors"

	"github.com/jackc/pgconn"
)

// pickAvatarColor assigns a stable color from a fixed palette to a newly
// claimed identity.
func pickAvatarColor(index int) string {
	palette := []string{
		"#ff6b6b",
		"#4dabf7",
		"#51cf66",
		"#ffa94d",
		"#ffd43b",
		"#845ef7",
		"#20c997",
		"#e64980",
	}
	if index < 0 {
		index = 0
	}
	return palette[index%len(palette)]
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
