package record

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"recruitbot/internal/platform/sqldb"
	"recruitbot/internal/registration/models"
	"recruitbot/pkg/platform/sentinel"
)

// SQLStore persists registration records in SQLite or PostgreSQL.
// This store is pure I/O; attempt limits and ban policy live in the services.
type SQLStore struct {
	db *sqldb.DB
}

// NewSQL constructs a database-backed record store. The schema must already be migrated.
func NewSQL(db *sqldb.DB) *SQLStore {
	return &SQLStore{db: db}
}

const recordColumns = `user_id, birth_date, last_name, first_name, patronymic, phone_number,
	military_spec, dental_sanation, medical_certificates, foreign_passport,
	active_contracts, registration_date, is_banned`

// Create inserts a new record. A second record for the same identity is rejected
// with sentinel.ErrConflict and never merged.
func (s *SQLStore) Create(ctx context.Context, rec *models.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	query := s.db.Rebind(`
		INSERT INTO users (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, FALSE)
	`)
	_, err := s.db.Executor(ctx).ExecContext(ctx, query,
		rec.UserID,
		rec.BirthDate,
		rec.LastName,
		rec.FirstName,
		rec.Patronymic,
		rec.PhoneNumber,
		rec.MilitarySpec,
		rec.DentalSanation,
		rec.MedicalCertificates,
		rec.ForeignPassport,
		rec.ActiveContracts,
		rec.RegisteredAt.UTC(),
	)
	if err != nil {
		if sqldb.IsUniqueViolation(err) {
			return fmt.Errorf("create record for user %d: %w", rec.UserID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

// CountByUser returns the number of completed records for userID.
func (s *SQLStore) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := s.db.Executor(ctx).QueryRowContext(ctx, s.db.Rebind(`SELECT COUNT(*) FROM users WHERE user_id = ?`), userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// IsBanned reports whether userID is banned either on its record or in the
// identity ban list.
func (s *SQLStore) IsBanned(ctx context.Context, userID int64) (bool, error) {
	query := s.db.Rebind(`
		SELECT
			EXISTS (SELECT 1 FROM users WHERE user_id = ? AND is_banned)
			OR EXISTS (SELECT 1 FROM banned_identities WHERE user_id = ?)
	`)
	var banned bool
	if err := s.db.Executor(ctx).QueryRowContext(ctx, query, userID, userID).Scan(&banned); err != nil {
		return false, fmt.Errorf("check ban: %w", err)
	}
	return banned, nil
}

// Ban flags the identity's record (if any) and adds it to the ban list.
// Banning twice is a no-op.
func (s *SQLStore) Ban(ctx context.Context, userID int64, reason string, at time.Time) error {
	return s.db.RunInTx(ctx, func(ctx context.Context) error {
		exec := s.db.Executor(ctx)
		if _, err := exec.ExecContext(ctx, s.db.Rebind(`UPDATE users SET is_banned = TRUE WHERE user_id = ?`), userID); err != nil {
			return fmt.Errorf("flag banned record: %w", err)
		}
		insert := s.db.Rebind(`
			INSERT INTO banned_identities (user_id, reason, banned_at)
			VALUES (?, ?, ?)
			ON CONFLICT (user_id) DO NOTHING
		`)
		if _, err := exec.ExecContext(ctx, insert, userID, reason, at.UTC()); err != nil {
			return fmt.Errorf("insert ban: %w", err)
		}
		return nil
	})
}

// ListSince returns records registered at or after cutoff, newest first.
func (s *SQLStore) ListSince(ctx context.Context, cutoff time.Time) ([]*models.Record, error) {
	query := s.db.Rebind(`
		SELECT ` + recordColumns + `
		FROM users
		WHERE registration_date >= ?
		ORDER BY registration_date DESC
	`)
	rows, err := s.db.Executor(ctx).QueryContext(ctx, query, cutoff.UTC())
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []*models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// Get returns the record for userID or sentinel.ErrNotFound.
func (s *SQLStore) Get(ctx context.Context, userID int64) (*models.Record, error) {
	query := s.db.Rebind(`SELECT ` + recordColumns + ` FROM users WHERE user_id = ?`)
	rec, err := scanRecord(s.db.Executor(ctx).QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

type recordRow interface {
	Scan(dest ...any) error
}

func scanRecord(row recordRow) (*models.Record, error) {
	var rec models.Record
	if err := row.Scan(
		&rec.UserID,
		&rec.BirthDate,
		&rec.LastName,
		&rec.FirstName,
		&rec.Patronymic,
		&rec.PhoneNumber,
		&rec.MilitarySpec,
		&rec.DentalSanation,
		&rec.MedicalCertificates,
		&rec.ForeignPassport,
		&rec.ActiveContracts,
		&rec.RegisteredAt,
		&rec.IsBanned,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}
