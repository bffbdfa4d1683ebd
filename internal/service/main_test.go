package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// newMockDBAndTx returns a sqlx DB backed by sqlmock with one transaction
// already begun, so mock repositories can receive a real *sqlx.Tx.
func newMockDBAndTx(t *testing.T) (*sqlx.DB, *sqlx.Tx, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, smock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")

	smock.ExpectBegin()

	tx, err := sqlxDB.Beginx()
	require.NoError(t, err)

	return sqlxDB, tx, smock
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
