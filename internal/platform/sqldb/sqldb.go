// Package sqldb opens the record database and hides the few differences between
// the embedded SQLite file and a PostgreSQL server: driver name, placeholder
// syntax, schema types and unique-violation detection.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Dialect selects driver and SQL flavor.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect validates a configured driver name.
func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case DialectSQLite, DialectPostgres:
		return d, nil
	case "sqlite3":
		return DialectSQLite, nil
	case "postgresql":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", s)
}

func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// DB is a *sql.DB that knows its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects and verifies the connection. SQLite is limited to one open
// connection so writes are serialized by the pool.
func Open(ctx context.Context, dialect Dialect, dsn string) (*DB, error) {
	conn, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return &DB{DB: conn, Dialect: dialect}, nil
}

// Rebind rewrites '?' placeholders to '$n' for PostgreSQL. Queries must not
// contain literal question marks.
func (db *DB) Rebind(query string) string {
	return Rebind(db.Dialect, query)
}

// Rebind is the dialect-explicit form of DB.Rebind.
func Rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Migrate creates the schema if it does not exist.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema(db.Dialect) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Health pings the database.
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

func schema(dialect Dialect) []string {
	idType, tsType := "INTEGER", "TIMESTAMP"
	if dialect == DialectPostgres {
		idType, tsType = "BIGINT", "TIMESTAMPTZ"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id ` + idType + ` PRIMARY KEY,
			birth_date TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			patronymic TEXT NOT NULL,
			phone_number TEXT NOT NULL,
			military_spec TEXT NOT NULL,
			dental_sanation BOOLEAN NOT NULL,
			medical_certificates BOOLEAN NOT NULL,
			foreign_passport BOOLEAN NOT NULL,
			active_contracts BOOLEAN NOT NULL,
			registration_date ` + tsType + ` NOT NULL,
			is_banned BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_registration_date ON users (registration_date)`,
		`CREATE TABLE IF NOT EXISTS banned_identities (
			user_id ` + idType + ` PRIMARY KEY,
			reason TEXT NOT NULL,
			banned_at ` + tsType + ` NOT NULL
		)`,
	}
}

// IsUniqueViolation reports whether err is a primary key or unique constraint
// violation from either driver.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
