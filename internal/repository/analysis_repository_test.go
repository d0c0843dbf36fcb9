package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*AnalysisRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewAnalysisRepository(mock), mock
}

func TestAnalysisRepositoryEnsureSchema(t *testing.T) {
	t.Run("creates table and index", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS analysis_snapshots").
			WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
		mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_analysis_snapshots_symbol_generated").
			WillReturnResult(pgxmock.NewResult("CREATE INDEX", 0))

		require.NoError(t, repo.EnsureSchema(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ddl error surfaced", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS analysis_snapshots").
			WillReturnError(errors.New("permission denied"))

		err := repo.EnsureSchema(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
	})
}

func TestAnalysisRepositorySave(t *testing.T) {
	t.Run("stores payload and returns record", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now().UTC()
		payload := map[string]string{"symbol": "AAPL"}
		body, _ := json.Marshal(payload)

		mock.ExpectQuery("INSERT INTO analysis_snapshots").
			WithArgs("AAPL", "market", body, now).
			WillReturnRows(pgxmock.NewRows([]string{"id", "symbol", "kind", "payload", "generated_at", "created_at"}).
				AddRow(int64(1), "AAPL", "market", json.RawMessage(body), now, now))

		record, err := repo.Save(context.Background(), "AAPL", "market", payload, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), record.ID)
		assert.Equal(t, "market", record.Kind)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error surfaced", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("INSERT INTO analysis_snapshots").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("connection reset"))

		_, err := repo.Save(context.Background(), "AAPL", "market", map[string]string{}, time.Now())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestAnalysisRepositoryLatest(t *testing.T) {
	t.Run("returns newest snapshot", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now().UTC()
		body := json.RawMessage(`{"symbol":"AAPL"}`)

		mock.ExpectQuery("SELECT id, symbol, kind, payload, generated_at, created_at").
			WithArgs("AAPL", "risk").
			WillReturnRows(pgxmock.NewRows([]string{"id", "symbol", "kind", "payload", "generated_at", "created_at"}).
				AddRow(int64(7), "AAPL", "risk", body, now, now))

		record, err := repo.Latest(context.Background(), "AAPL", "risk")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, int64(7), record.ID)
	})

	t.Run("no rows yields nil without error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT id, symbol, kind, payload, generated_at, created_at").
			WithArgs("AAPL", "risk").
			WillReturnRows(pgxmock.NewRows([]string{"id", "symbol", "kind", "payload", "generated_at", "created_at"}))

		record, err := repo.Latest(context.Background(), "AAPL", "risk")
		require.NoError(t, err)
		assert.Nil(t, record)
	})
}

func TestAnalysisRepositoryHistory(t *testing.T) {
	t.Run("lists snapshots", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now().UTC()
		body := json.RawMessage(`{}`)

		mock.ExpectQuery("SELECT id, symbol, kind, payload, generated_at, created_at").
			WithArgs("AAPL", 20).
			WillReturnRows(pgxmock.NewRows([]string{"id", "symbol", "kind", "payload", "generated_at", "created_at"}).
				AddRow(int64(2), "AAPL", "market", body, now, now).
				AddRow(int64(1), "AAPL", "sentiment", body, now.Add(-time.Hour), now.Add(-time.Hour)))

		records, err := repo.History(context.Background(), "AAPL", 0)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, int64(2), records[0].ID)
	})
}

func TestAnalysisRepositoryPrune(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM analysis_snapshots").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	removed, err := repo.Prune(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
