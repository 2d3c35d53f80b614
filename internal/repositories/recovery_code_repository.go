package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"pastelrecipes/internal/models"
)

// The store's key space disallows a handful of characters; every one of them is
// mapped to an underscore so the same email always yields the same key.
var keySanitizer = strings.NewReplacer(".", "_", "#", "_", "$", "_", "[", "_", "]", "_", "/", "_")

// AccountKey derives the recovery-record key for an account from its email.
func AccountKey(email string) string {
	return keySanitizer.Replace(email)
}

// RecoveryCodeRepository holds at most one pending recovery record per account.
// Put overwrites unconditionally (last write wins); ListAll exists only for the
// cleanup sweep.
type RecoveryCodeRepository interface {
	Get(accountKey string) (*models.RecoveryCode, error)
	Put(rec *models.RecoveryCode) error
	Delete(accountKey string) error
	ListAll() ([]*models.RecoveryCode, error)
}

type recoveryCodeRepository struct {
	DB *sql.DB
}

func NewRecoveryCodeRepository(db *sql.DB) RecoveryCodeRepository {
	return &recoveryCodeRepository{DB: db}
}

func (r *recoveryCodeRepository) Get(accountKey string) (*models.RecoveryCode, error) {
	const q = `
		SELECT account_key, code, method, phone, created_at, expires_at, attempts
		FROM recovery_codes
		WHERE account_key = $1
	`
	rec := &models.RecoveryCode{}
	err := r.DB.QueryRow(q, accountKey).Scan(
		&rec.AccountKey, &rec.Code, &rec.Method, &rec.Phone, &rec.CreatedAt, &rec.ExpiresAt, &rec.Attempts,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get recovery code: %w", err)
	}
	return rec, nil
}

func (r *recoveryCodeRepository) Put(rec *models.RecoveryCode) error {
	const q = `
		INSERT INTO recovery_codes (account_key, code, method, phone, created_at, expires_at, attempts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (account_key) DO UPDATE SET
			code = EXCLUDED.code,
			method = EXCLUDED.method,
			phone = EXCLUDED.phone,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at,
			attempts = EXCLUDED.attempts
	`
	if _, err := r.DB.Exec(q,
		rec.AccountKey, rec.Code, rec.Method, rec.Phone, rec.CreatedAt, rec.ExpiresAt, rec.Attempts,
	); err != nil {
		return fmt.Errorf("put recovery code: %w", err)
	}
	return nil
}

func (r *recoveryCodeRepository) Delete(accountKey string) error {
	if _, err := r.DB.Exec(`DELETE FROM recovery_codes WHERE account_key = $1`, accountKey); err != nil {
		return fmt.Errorf("delete recovery code: %w", err)
	}
	return nil
}

func (r *recoveryCodeRepository) ListAll() ([]*models.RecoveryCode, error) {
	const q = `
		SELECT account_key, code, method, phone, created_at, expires_at, attempts
		FROM recovery_codes
	`
	rows, err := r.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("list recovery codes: %w", err)
	}
	defer rows.Close()

	var records []*models.RecoveryCode
	for rows.Next() {
		rec := &models.RecoveryCode{}
		if err := rows.Scan(
			&rec.AccountKey, &rec.Code, &rec.Method, &rec.Phone, &rec.CreatedAt, &rec.ExpiresAt, &rec.Attempts,
		); err != nil {
			return nil, fmt.Errorf("scan recovery code: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
