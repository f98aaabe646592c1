package repository

import (
	"context"
	"database/sql"
	"fmt"

	"heavymachines/internal/models"
)

type PasswordResetRepository interface {
	Upsert(ctx context.Context, token *models.PasswordResetToken) error
	GetByEmail(ctx context.Context, email string) (*models.PasswordResetToken, error)
	Delete(ctx context.Context, email string) error
}

type passwordResetRepository struct {
	db *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

// Upsert inserts the token row for the email, replacing any outstanding
// token in the same statement so the supersede is atomic.
func (r *passwordResetRepository) Upsert(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (email, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at
	`

	_, err := r.db.ExecContext(ctx, query, token.Email, token.Token, token.ExpiresAt)
	return err
}

func (r *passwordResetRepository) GetByEmail(ctx context.Context, email string) (*models.PasswordResetToken, error) {
	query := `
		SELECT email, token, expires_at
		FROM password_reset_tokens
		WHERE email = $1
	`

	var t models.PasswordResetToken
	err := r.db.QueryRowContext(ctx, query, email).Scan(&t.Email, &t.Token, &t.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("reset token not found")
		}
		return nil, err
	}
	return &t, nil
}

func (r *passwordResetRepository) Delete(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE email = $1`, email)
	return err
}
