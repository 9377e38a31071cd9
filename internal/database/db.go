// Package database provides MySQL connection management and schema migrations for stored question banks.
package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/exambank/internal/config"
)

// DSN builds the MySQL data source name for cfg. Times are parsed into
// time.Time and multi statements are allowed so a migration file runs as one Exec.
func DSN(cfg config.DatabaseConfig) string {
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mysqlCfg.User = cfg.Username
	mysqlCfg.Passwd = cfg.Password
	mysqlCfg.DBName = cfg.Database
	mysqlCfg.ParseTime = true
	mysqlCfg.MultiStatements = true
	if cfg.TLS {
		mysqlCfg.TLSConfig = "true"
	}
	if len(cfg.Params) > 0 {
		mysqlCfg.Params = cfg.Params
	}
	return mysqlCfg.FormatDSN()
}

// Open returns a lazily connecting handle to the question bank database.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	return db, nil
}

// RunInTx commits the work of fn, or rolls it back when fn fails.
// A failed rollback is joined with the error of fn so both stay matchable with errors.Is.
func RunInTx(ctx context.Context, db *sqlx.DB, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if fnErr := fn(ctx, tx); fnErr != nil {
		if err := tx.Rollback(); err != nil {
			return errors.Join(fnErr, fmt.Errorf("rollback transaction: %w", err))
		}
		return fnErr
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// BuildMultiRowInsert returns "INSERT INTO table (a, b) VALUES (?, ?), (?, ?)" for rows rows.
func BuildMultiRowInsert(table string, columns []string, rows int) string {
	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	values := make([]string, rows)
	for i := range values {
		values[i] = placeholders
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", table, strings.Join(columns, ", "), strings.Join(values, ", "))
}
