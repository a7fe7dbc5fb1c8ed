package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/versefinder/versefinder/internal/models"
)

// Balance returns the user's credit balance. found is false when the user
// has no account yet.
func (s *Store) Balance(ctx context.Context, userID string) (credits int, found bool, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT credits FROM user_accounts WHERE user_id = ?", userID,
	).Scan(&credits)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read credits: %w", err)
	}
	return credits, true, nil
}

// Decrement removes one credit in a single conditional statement, so the
// balance can never go below zero however many searches race on it.
// charged is false when nothing was deducted (no account, or already zero).
func (s *Store) Decrement(ctx context.Context, userID string) (charged bool, err error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE user_accounts SET credits = credits - 1 WHERE user_id = ? AND credits > 0", userID)
	if err != nil {
		return false, fmt.Errorf("failed to deduct credit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return rows == 1, nil
}

// Account returns the stored account for userID.
func (s *Store) Account(ctx context.Context, userID string) (models.CreditAccount, error) {
	var acct models.CreditAccount
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, credits, name, email, photo_url, created_at
		FROM user_accounts
		WHERE user_id = ?`, userID,
	).Scan(
		&acct.UserID,
		&acct.Credits,
		&acct.Name,
		&acct.Email,
		&acct.PhotoURL,
		&acct.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CreditAccount{}, ErrAccountNotFound
	}
	if err != nil {
		return models.CreditAccount{}, fmt.Errorf("failed to read account: %w", err)
	}
	return acct, nil
}

// Provision creates the account on first sign-in with acct.Credits as the
// starting allotment. An existing account is left untouched. The stored
// account is returned in both cases.
func (s *Store) Provision(ctx context.Context, acct models.CreditAccount) (models.CreditAccount, error) {
	if acct.UserID == "" {
		return models.CreditAccount{}, errors.New("user id is required")
	}
	if acct.Credits < 0 {
		return models.CreditAccount{}, errors.New("starting credits cannot be negative")
	}

	query := s.dialect.InsertIgnore + `
		user_accounts (user_id, credits, name, email, photo_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		acct.UserID, acct.Credits, acct.Name, acct.Email, acct.PhotoURL, s.timestamp())
	if err != nil {
		return models.CreditAccount{}, fmt.Errorf("failed to provision account: %w", err)
	}

	return s.Account(ctx, acct.UserID)
}

// Grant adds amount credits to an existing account and returns the new balance.
func (s *Store) Grant(ctx context.Context, userID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("grant amount must be positive, got %d", amount)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE user_accounts SET credits = credits + ? WHERE user_id = ?", amount, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to grant credits: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return 0, ErrAccountNotFound
	}

	var balance int
	if err := tx.QueryRowContext(ctx,
		"SELECT credits FROM user_accounts WHERE user_id = ?", userID,
	).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to read new balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit grant: %w", err)
	}
	return balance, nil
}
