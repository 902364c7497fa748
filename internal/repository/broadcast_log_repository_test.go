package repository

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karibuhq/wabroadcast-backend/internal/model"
)

func TestClaimPendingInsertsNewEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO broadcast_logs").
		WithArgs(1, 2, string(model.LogPending)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(99))

	repo := &BroadcastLogRepository{DB: db}
	id, claimed, err := repo.ClaimPending(1, 2)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, 99, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimPendingSkipsExistingEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// ON CONFLICT DO NOTHING returns no row when the pair already exists.
	mock.ExpectQuery("INSERT INTO broadcast_logs").
		WithArgs(1, 2, string(model.LogPending)).
		WillReturnError(sql.ErrNoRows)

	repo := &BroadcastLogRepository{DB: db}
	id, claimed, err := repo.ClaimPending(1, 2)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Zero(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkOutcomeWritesTerminalState(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	reason := "recipient opted out"
	mock.ExpectExec("UPDATE broadcast_logs").
		WithArgs(string(model.LogFailed), reason, nil, 99).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &BroadcastLogRepository{DB: db}
	require.NoError(t, repo.MarkOutcome(99, model.LogFailed, &reason, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByStatusFillsMissingStatuses(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT status, COUNT").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("sent", 8).
			AddRow("failed", 2))

	repo := &BroadcastLogRepository{DB: db}
	stats, err := repo.CountByStatus(1)
	require.NoError(t, err)
	assert.Equal(t, 8, stats["sent"])
	assert.Equal(t, 2, stats["failed"])
	assert.Equal(t, 0, stats["pending"])
	assert.Equal(t, 0, stats["delivered"])
}
