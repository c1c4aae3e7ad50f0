package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPostgresConfigDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5433, User: "workout", Password: "secret", Database: "plans"}
	require.Equal(t,
		"host=db port=5433 user=workout password=secret dbname=plans sslmode=disable application_name=workout-planner connect_timeout=5",
		cfg.DSN())
}

func TestMigrateCommitsAllStatements(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	ps := WrapDB(db, zap.NewNop())
	t.Cleanup(func() { _ = ps.Close() })

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX b")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, ps.Migrate(context.Background(), "CREATE TABLE a", "CREATE INDEX b"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	ps := WrapDB(db, zap.NewNop())
	t.Cleanup(func() { _ = ps.Close() })

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a")).WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err = ps.Migrate(context.Background(), "CREATE TABLE a", "CREATE INDEX b")
	require.ErrorContains(t, err, "permission denied")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	ps := WrapDB(db, nil)
	t.Cleanup(func() { _ = ps.Close() })

	mock.ExpectPing()
	require.NoError(t, ps.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	require.Error(t, ps.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
