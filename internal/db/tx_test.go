package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
)

// stubTx embeds pgx.Tx for the methods WithTransaction never touches.
type stubTx struct {
	pgx.Tx
	commits   int
	rollbacks int
	commitErr error
}

func (t *stubTx) Commit(ctx context.Context) error {
	t.commits++
	return t.commitErr
}

func (t *stubTx) Rollback(ctx context.Context) error {
	t.rollbacks++
	return nil
}

type stubBeginner struct {
	tx       *stubTx
	beginErr error
}

func (b *stubBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func TestWithTransactionCommitsOnSuccess(t *testing.T) {
	tx := &stubTx{}
	beginner := &stubBeginner{tx: tx}

	var sawDeadline bool
	err := WithTransaction(context.Background(), beginner, func(ctx context.Context, got pgx.Tx) error {
		if got != tx {
			t.Error("fn received a different transaction")
		}
		_, sawDeadline = ctx.Deadline()
		return nil
	})
	if err != nil {
		t.Fatalf("WithTransaction() failed: %v", err)
	}
	if tx.commits != 1 || tx.rollbacks != 0 {
		t.Errorf("commits = %d, rollbacks = %d, want 1 and 0", tx.commits, tx.rollbacks)
	}
	if !sawDeadline {
		t.Error("fn ran without a deadline")
	}
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	tx := &stubTx{}
	beginner := &stubBeginner{tx: tx}

	sentinel := errors.New("statement failed")
	err := WithTransaction(context.Background(), beginner, func(ctx context.Context, tx pgx.Tx) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("WithTransaction() error = %v, want %v", err, sentinel)
	}
	if tx.commits != 0 || tx.rollbacks != 1 {
		t.Errorf("commits = %d, rollbacks = %d, want 0 and 1", tx.commits, tx.rollbacks)
	}
}

func TestWithTransactionBeginFailure(t *testing.T) {
	beginner := &stubBeginner{beginErr: errors.New("pool exhausted")}

	err := WithTransaction(context.Background(), beginner, func(ctx context.Context, tx pgx.Tx) error {
		t.Error("fn ran without a transaction")
		return nil
	})
	if err == nil {
		t.Fatal("WithTransaction() succeeded, want begin error")
	}
}

func TestWithTransactionCommitFailure(t *testing.T) {
	tx := &stubTx{commitErr: errors.New("connection lost")}
	beginner := &stubBeginner{tx: tx}

	err := WithTransaction(context.Background(), beginner, func(ctx context.Context, tx pgx.Tx) error {
		return nil
	})
	if err == nil {
		t.Fatal("WithTransaction() succeeded, want commit error")
	}
}

func TestWithTransactionRollsBackOnPanic(t *testing.T) {
	tx := &stubTx{}
	beginner := &stubBeginner{tx: tx}

	defer func() {
		if recover() == nil {
			t.Fatal("panic was swallowed")
		}
		if tx.rollbacks != 1 {
			t.Errorf("rollbacks = %d after panic, want 1", tx.rollbacks)
		}
	}()

	_ = WithTransaction(context.Background(), beginner, func(ctx context.Context, tx pgx.Tx) error {
		panic("boom")
	})
}
