package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/exambank/internal/config"
	"github.com/at-ishikawa/exambank/schemas"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
	}{
		{
			name: "creates connection with valid config",
			cfg: config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				Database: "exambank",
				Username: "testuser",
				Password: "testpass",
			},
		},
		{
			name: "creates connection with pool settings",
			cfg: config.DatabaseConfig{
				Host:            "db.example.com",
				Port:            3307,
				Database:        "exambank",
				Username:        "admin",
				Password:        "secret",
				MaxOpenConns:    10,
				MaxIdleConns:    2,
				ConnMaxLifetime: 60,
			},
		},
		{
			name: "creates connection with TLS and params",
			cfg: config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				Database: "exambank",
				Username: "testuser",
				TLS:      true,
				Params:   map[string]string{"charset": "utf8mb4"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Open(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, got)
			defer got.Close()

			assert.Equal(t, "mysql", got.DriverName())
		})
	}
}

var errInsertFailed = errors.New("insert failed")

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want func(t *testing.T, got *mysql.Config)
	}{
		{
			name: "defaults",
			cfg:  config.DatabaseConfig{Host: "localhost", Port: 3306, Database: "local", Username: "user", Password: "pass"},
			want: func(t *testing.T, got *mysql.Config) {
				assert.Equal(t, "localhost:3306", got.Addr)
				assert.Equal(t, "user", got.User)
				assert.Equal(t, "pass", got.Passwd)
				assert.Equal(t, "local", got.DBName)
				assert.Empty(t, got.TLSConfig)
			},
		},
		{
			name: "tls and params",
			cfg: config.DatabaseConfig{
				Host: "db.example.com", Port: 3307, Database: "exambank", Username: "admin",
				TLS: true, Params: map[string]string{"charset": "utf8mb4"},
			},
			want: func(t *testing.T, got *mysql.Config) {
				assert.Equal(t, "db.example.com:3307", got.Addr)
				assert.Equal(t, "true", got.TLSConfig)
				assert.Equal(t, "utf8mb4", got.Params["charset"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mysql.ParseDSN(DSN(tt.cfg))
			require.NoError(t, err)
			assert.Equal(t, "tcp", got.Net)
			assert.True(t, got.ParseTime)
			assert.True(t, got.MultiStatements)
			tt.want(t, got)
		})
	}
}

func TestRunInTx(t *testing.T) {
	tests := []struct {
		name      string
		fn        func(ctx context.Context, tx *sqlx.Tx) error
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   string
		wantErrIs error
	}{
		{
			name: "commits on success",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				_, err := tx.ExecContext(ctx, "DELETE FROM questions WHERE bank_id = ?", 1)
				return err
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM questions WHERE bank_id = \\?").
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 4))
				mock.ExpectCommit()
			},
		},
		{
			name: "rolls back on error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return fmt.Errorf("something failed")
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			wantErr: "something failed",
		},
		{
			name: "begin error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(fmt.Errorf("begin failed"))
			},
			wantErr: "begin transaction",
		},
		{
			name: "commit error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(fmt.Errorf("commit failed"))
			},
			wantErr: "commit transaction",
		},
		{
			name: "rollback error keeps the original error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return errInsertFailed
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(fmt.Errorf("connection lost"))
			},
			wantErr:   "rollback transaction: connection lost",
			wantErrIs: errInsertFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			sqlxDB := sqlx.NewDb(db, "mysql")
			tt.setupMock(mock)

			err = RunInTx(context.Background(), sqlxDB, tt.fn)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBuildMultiRowInsert(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		rows    int
		want    string
	}{
		{
			name:    "single row",
			columns: []string{"name", "source"},
			rows:    1,
			want:    "INSERT INTO question_banks (name, source) VALUES (?, ?)",
		},
		{
			name:    "multiple rows",
			columns: []string{"bank_id", "number", "text"},
			rows:    2,
			want:    "INSERT INTO question_banks (bank_id, number, text) VALUES (?, ?, ?), (?, ?, ?)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildMultiRowInsert("question_banks", tt.columns, tt.rows))
		})
	}
}

func TestMigrate(t *testing.T) {
	migrations := fstest.MapFS{
		"migrations/002_second.sql": {Data: []byte("CREATE TABLE IF NOT EXISTS b (id INT);\n")},
		"migrations/001_first.sql":  {Data: []byte("CREATE TABLE IF NOT EXISTS a (id INT);")},
		"migrations/003_empty.sql":  {Data: []byte("  \n")},
		"migrations/README.md":      {Data: []byte("not a migration")},
	}

	t.Run("applies files in name order", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS a (id INT);").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS b (id INT);").WillReturnResult(sqlmock.NewResult(0, 0))

		applied, err := Migrate(context.Background(), sqlx.NewDb(db, "mysql"), migrations)
		require.NoError(t, err)
		assert.Equal(t, []string{"migrations/001_first.sql", "migrations/002_second.sql"}, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS a (id INT);").WillReturnError(fmt.Errorf("access denied"))

		applied, err := Migrate(context.Background(), sqlx.NewDb(db, "mysql"), migrations)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "migrations/001_first.sql")
		assert.Empty(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("embedded schema creates both tables", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("(?s)CREATE TABLE IF NOT EXISTS question_banks.*CREATE TABLE IF NOT EXISTS questions").
			WillReturnResult(sqlmock.NewResult(0, 0))

		applied, err := Migrate(context.Background(), sqlx.NewDb(db, "mysql"), schemas.Migrations)
		require.NoError(t, err)
		assert.Equal(t, []string{"migrations/001_create_question_banks.sql"}, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
