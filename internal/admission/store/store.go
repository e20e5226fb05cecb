// Package store holds error types and classification helpers shared by the
// per-aggregate store implementations.
//
// Stores are interface-driven to keep the lifecycle logic testable and to
// allow swapping in-memory and PostgreSQL persistence without rewiring
// business code. Both implementations of every store speak the same error
// dialect: sentinel errors for infrastructure facts, plus Conflict for
// field-attributable uniqueness violations.
package store

import (
	"errors"

	"github.com/lib/pq"

	"admissio/pkg/platform/sentinel"
)

// Conflict reports a uniqueness violation attributed to a named input field.
// It unwraps to sentinel.ErrAlreadyUsed so callers can match either way.
type Conflict struct {
	Field string
}

func (c *Conflict) Error() string {
	return c.Field + " is already in use"
}

func (c *Conflict) Unwrap() error { return sentinel.ErrAlreadyUsed }

// ConflictField extracts the conflicting field name from err, or "".
func ConflictField(err error) string {
	var c *Conflict
	if errors.As(err, &c) {
		return c.Field
	}
	return ""
}

// IsConflictOn reports whether err is a uniqueness violation on field.
func IsConflictOn(err error, field string) bool {
	return ConflictField(err) == field
}

// Postgres error classes (SQLSTATE prefix 23 = integrity constraint violation).
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// ClassifyPostgres translates a lib/pq error into the shared store error
// dialect. constraints maps constraint names (as declared in schema.sql) to
// the input field each one guards. Unknown errors pass through unchanged.
func ClassifyPostgres(err error, constraints map[string]string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch string(pqErr.Code) {
	case pqUniqueViolation:
		if field, ok := constraints[pqErr.Constraint]; ok {
			return &Conflict{Field: field}
		}
		return sentinel.ErrAlreadyUsed
	case pqForeignKeyViolation:
		// RESTRICT on delete and missing parent on insert both land here;
		// the operation distinguishes them.
		return sentinel.ErrReferenced
	}
	return err
}
