package simpletxmanager

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avorotn/SBP-SchedulingService/pkg/txmanager"
)

// stub-драйвер: транзакции начинаются и завершаются без реальной БД,
// ошибки приходят из переданной в менеджер функции
type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return &stubConn{}, nil }

type stubConn struct{}

func (*stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (*stubConn) Close() error                        { return nil }
func (*stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

func (*stubConn) BeginTx(_ context.Context, _ driver.TxOptions) (driver.Tx, error) {
	return stubTx{}, nil
}

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func init() {
	sql.Register("stubtx", stubDriver{})
}

func newTestManager(t *testing.T) *TransactionManager {
	t.Helper()

	db, err := sql.Open("stubtx", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewTransactionManager(db)
}

func TestDoSerializable_ExhaustedRetriesReturnSharedSentinel(t *testing.T) {
	mgr := newTestManager(t)

	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(context.Context) error {
		attempts++
		return &pq.Error{Code: "40001"}
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, txmanager.ErrSerializationFailure)
	assert.Equal(t, maxSerializableRetries, attempts)
}

func TestDoSerializable_DeadlockAlsoRetried(t *testing.T) {
	mgr := newTestManager(t)

	err := mgr.DoSerializable(context.Background(), func(context.Context) error {
		return &pq.Error{Code: "40P01"}
	})

	assert.ErrorIs(t, err, txmanager.ErrSerializationFailure)
}

func TestDoSerializable_NonRetryableErrorReturnedAsIs(t *testing.T) {
	mgr := newTestManager(t)

	appErr := errors.New("constraint violation")
	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(context.Context) error {
		attempts++
		return appErr
	})

	assert.ErrorIs(t, err, appErr)
	assert.NotErrorIs(t, err, txmanager.ErrSerializationFailure)
	assert.Equal(t, 1, attempts)
}

func TestDoSerializable_SucceedsAfterRetry(t *testing.T) {
	mgr := newTestManager(t)

	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(context.Context) error {
		attempts++
		if attempts == 1 {
			return &pq.Error{Code: "40001"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestDo_RunsFunctionInTransaction(t *testing.T) {
	mgr := newTestManager(t)

	called := false
	err := mgr.Do(context.Background(), func(context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
}
