// Package tx scopes multi-step admission writes to one atomic unit. The
// submission protocol (profile, application, ledger entry) and every status
// update run through a Runner; SQL stores pick the ambient transaction out of
// the context so they all join the same unit.
package tx

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTx returns a context carrying the ambient transaction. A nil tx leaves
// the context untouched.
func WithTx(ctx context.Context, sqlTx *sql.Tx) context.Context {
	if sqlTx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, sqlTx)
}

// From reports the ambient transaction, if any. Stores fall back to the bare
// *sql.DB when none is present.
func From(ctx context.Context) (*sql.Tx, bool) {
	sqlTx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return sqlTx, ok
}
