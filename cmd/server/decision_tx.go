package main

import (
	"context"
	"database/sql"
	"time"

	dErrors "expenseai/pkg/domain-errors"
	"expenseai/pkg/platform/tx"
)

const defaultDecisionTxTimeout = 5 * time.Second

// decisionPostgresTx bounds proposal transactions that arrive without a
// deadline and refuses to begin once the caller has gone away.
type decisionPostgresTx struct {
	runner  *tx.SQLRunner
	timeout time.Duration
}

func newDecisionPostgresTx(db *sql.DB) *decisionPostgresTx {
	return &decisionPostgresTx{runner: tx.NewSQLRunner(db)}
}

func (t *decisionPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultDecisionTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return t.runner.RunInTx(ctx, fn)
}
