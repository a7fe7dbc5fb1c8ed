package models

import "time"

// CreditAccount defines the model for the 'user_accounts' table.
// One row per signed-in identity; Credits is the remaining search balance.
type CreditAccount struct {
	UserID    string    `json:"userId" db:"user_id"`
	Credits   int       `json:"credits" db:"credits"`
	Name      *string   `json:"name,omitempty" db:"name"`
	Email     *string   `json:"email,omitempty" db:"email"`
	PhotoURL  *string   `json:"photoURL,omitempty" db:"photo_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// IsLow reports whether the balance is positive but at or below threshold.
func (a CreditAccount) IsLow(threshold int) bool {
	return a.Credits >= 1 && a.Credits <= threshold
}
