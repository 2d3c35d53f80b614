package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"pastelrecipes/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdateProfile(user *models.User) error
	UpdatePassword(userID int, passwordHash string) error
	Delete(id int) error

	// refresh helpers
	UpdateRefresh(userID int, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error)
	ClearRefresh(userID int) error
	GetByRefreshToken(token string) (*models.User, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, email, display_name, COALESCE(bio,''), COALESCE(photo_url,''), COALESCE(phone,''),
	password_hash, refresh_token, refresh_expires_at, refresh_revoked, created_at
`

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		rt  sql.NullString
		rte sql.NullTime
		rr  sql.NullBool
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.Bio, &u.PhotoURL, &u.Phone,
		&u.PasswordHash, &rt, &rte, &rr, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if rt.Valid {
		s := rt.String
		u.RefreshToken = &s
	}
	if rte.Valid {
		t := rte.Time
		u.RefreshExpiresAt = &t
	}
	if rr.Valid {
		u.RefreshRevoked = rr.Bool
	}
	return u, nil
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (email, display_name, bio, photo_url, phone, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q,
		user.Email, user.DisplayName, user.Bio, user.PhotoURL, user.Phone, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.DB.QueryRow(q, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return r.scanUser(r.DB.QueryRow(q, email))
}

func (r *userRepository) UpdateProfile(user *models.User) error {
	const q = `
		UPDATE users
		SET display_name = $1, bio = $2, photo_url = $3, phone = $4
		WHERE id = $5
	`
	if _, err := r.DB.Exec(q, user.DisplayName, user.Bio, user.PhotoURL, user.Phone, user.ID); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	if _, err := r.DB.Exec(`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (r *userRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *userRepository) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET refresh_token = $1, refresh_expires_at = $2, refresh_revoked = FALSE
		WHERE id = $3
	`
	if _, err := r.DB.Exec(q, token, expiresAt, userID); err != nil {
		return fmt.Errorf("update refresh: %w", err)
	}
	return nil
}

func (r *userRepository) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	const q = `
		UPDATE users
		SET refresh_token = $1, refresh_expires_at = $2
		WHERE refresh_token = $3 AND refresh_revoked = FALSE
		RETURNING ` + userColumns
	return r.scanUser(r.DB.QueryRow(q, newToken, newExpiresAt, oldToken))
}

func (r *userRepository) ClearRefresh(userID int) error {
	const q = `
		UPDATE users
		SET refresh_token = NULL, refresh_expires_at = NULL, refresh_revoked = TRUE
		WHERE id = $1
	`
	if _, err := r.DB.Exec(q, userID); err != nil {
		return fmt.Errorf("clear refresh: %w", err)
	}
	return nil
}

func (r *userRepository) GetByRefreshToken(token string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE refresh_token = $1`
	return r.scanUser(r.DB.QueryRow(q, token))
}
