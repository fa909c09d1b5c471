package repository

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code raised on unique constraint hits.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether the error is a unique-constraint failure,
// e.g. a business code collision. Callers treat it as retryable.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
