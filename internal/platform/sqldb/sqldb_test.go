package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{
		"sqlite":     DialectSQLite,
		"SQLite3":    DialectSQLite,
		"postgres":   DialectPostgres,
		"postgresql": DialectPostgres,
	} {
		got, err := ParseDialect(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDialect("mysql")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM users WHERE user_id = ? AND registration_date >= ?"
	assert.Equal(t, q, Rebind(DialectSQLite, q))
	assert.Equal(t, "SELECT * FROM users WHERE user_id = $1 AND registration_date >= $2", Rebind(DialectPostgres, q))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Run("postgres unique violation", func(t *testing.T) {
		assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
		assert.False(t, IsUniqueViolation(&pq.Error{Code: "23502"}))
	})

	t.Run("sqlite primary key violation", func(t *testing.T) {
		ctx := context.Background()
		db, err := Open(ctx, DialectSQLite, filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		defer db.Close()
		require.NoError(t, db.Migrate(ctx))
		// Migrate is idempotent.
		require.NoError(t, db.Migrate(ctx))

		insert := `INSERT INTO banned_identities (user_id, reason, banned_at) VALUES (?, ?, CURRENT_TIMESTAMP)`
		_, err = db.ExecContext(ctx, insert, 1, "spam")
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, insert, 1, "spam")
		require.Error(t, err)
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("other errors", func(t *testing.T) {
		assert.False(t, IsUniqueViolation(errors.New("boom")))
		assert.False(t, IsUniqueViolation(nil))
	})
}

func TestRunInTx(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DialectSQLite, filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate(ctx))

	insert := `INSERT INTO banned_identities (user_id, reason, banned_at) VALUES (?, ?, CURRENT_TIMESTAMP)`
	count := func() int {
		var n int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM banned_identities`).Scan(&n))
		return n
	}

	t.Run("commits on success", func(t *testing.T) {
		err := db.RunInTx(ctx, func(ctx context.Context) error {
			_, ok := TxFrom(ctx)
			assert.True(t, ok)
			_, err := db.Executor(ctx).ExecContext(ctx, insert, 1, "spam")
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := db.RunInTx(ctx, func(ctx context.Context) error {
			if _, err := db.Executor(ctx).ExecContext(ctx, insert, 2, "spam"); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, count())
	})

	t.Run("nested calls join the outer transaction", func(t *testing.T) {
		err := db.RunInTx(ctx, func(outer context.Context) error {
			outerTx, _ := TxFrom(outer)
			return db.RunInTx(outer, func(inner context.Context) error {
				innerTx, _ := TxFrom(inner)
				assert.Same(t, outerTx, innerTx)
				return nil
			})
		})
		assert.NoError(t, err)
	})

	t.Run("pool outside a transaction", func(t *testing.T) {
		_, ok := db.Executor(ctx).(*sql.DB)
		assert.True(t, ok)
	})
}
