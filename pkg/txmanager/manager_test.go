package txmanager

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
)

const touchQuery = "UPDATE reservations SET updated_at = NOW() WHERE id = $1"

func newTestManager(t *testing.T, attempts int) (*TransactionManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := NewTransactionManager(dbmetrics.Wrap(db, nil), Config{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
	})
	return m, mock
}

func touch(ctx context.Context) error {
	executor := dbmetrics.GetExecutor(ctx, nil)
	_, err := executor.ExecContext(ctx, touchQuery, 1)
	return err
}

func TestDoSerializable_Commits(t *testing.T) {
	m, mock := newTestManager(t, 3)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(touchQuery)).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return touch(ctx)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_RetriesSerializationFailure(t *testing.T) {
	m, mock := newTestManager(t, 3)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(touchQuery)).WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(touchQuery)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return touch(ctx)
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_RetriesFailedCommit(t *testing.T) {
	m, mock := newTestManager(t, 3)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(touchQuery)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(touchQuery)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := m.DoSerializable(context.Background(), touch)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_GivesUpAfterMaxAttempts(t *testing.T) {
	m, mock := newTestManager(t, 2)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(touchQuery)).WillReturnError(&pq.Error{Code: "40P01"})
		mock.ExpectRollback()
	}

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return touch(ctx)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransient)
	assert.Equal(t, 2, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_BusinessErrorIsNotRetried(t *testing.T) {
	m, mock := newTestManager(t, 5)
	errSlotTaken := errors.New("slot taken")

	mock.ExpectBegin()
	mock.ExpectRollback()

	attempts := 0
	err := m.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errSlotTaken
	})

	assert.ErrorIs(t, err, errSlotTaken)
	assert.NotErrorIs(t, err, ErrTransient)
	assert.Equal(t, 1, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_NestedCallJoinsOuterTransaction(t *testing.T) {
	m, mock := newTestManager(t, 3)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(touchQuery)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, touch)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("boom")))
	assert.False(t, IsTransient(&pq.Error{Code: "23505"}))
	assert.True(t, IsTransient(&pq.Error{Code: "40001"}))
	assert.True(t, IsTransient(ErrTransient))
}
