package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetDecision_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, lookup_key, provider, location, decision, created_at, expires_at FROM decisions`).
		WithArgs("nobody|").
		WillReturnError(pgx.ErrNoRows)

	cd, err := s.GetDecision(context.Background(), "nobody|")
	require.NoError(t, err)
	assert.Nil(t, cd)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetDecision_Found(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	d := sampleDecision()
	decisionJSON, err := json.Marshal(d)
	require.NoError(t, err)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "lookup_key", "provider", "location", "decision", "created_at", "expires_at"}).
		AddRow("id-1", "dr. jane smith|austin, tx", "Dr. Jane Smith", "Austin, TX", decisionJSON, now, now.Add(time.Hour))

	mock.ExpectQuery(`SELECT id, lookup_key, provider, location, decision, created_at, expires_at FROM decisions`).
		WithArgs("dr. jane smith|austin, tx").
		WillReturnRows(rows)

	cd, err := s.GetDecision(context.Background(), "dr. jane smith|austin, tx")
	require.NoError(t, err)
	require.NotNil(t, cd)
	require.NotNil(t, cd.Decision.BestMatch)
	assert.Equal(t, "https://puredental.com", cd.Decision.BestMatch.URL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetDecision_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT`).
		WithArgs(pgxmock.AnyArg(), "dr. jane smith|", "Dr. Jane Smith", "",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SetDecision(context.Background(), "dr. jane smith|", "Dr. Jane Smith", "", sampleDecision(), time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteExpired(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM decisions WHERE expires_at`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := s.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS decisions`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
