package models

import "time"

// NotFoundScripture is the value stored in (and sent for) the 'scripture'
// field when no passage matched the story. Only the wire and storage layers
// should compare against it; everything else uses HistoryEntry.Found.
const NotFoundScripture = "not found"

// HistoryEntry defines the model for the 'history_entries' table.
type HistoryEntry struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"-" db:"user_id"`
	Story         string    `json:"story" db:"story"`
	Time          time.Time `json:"time" db:"time"`
	Scripture     string    `json:"scripture" db:"scripture"`
	ScriptureText *string   `json:"scriptureText,omitempty" db:"scripture_text"`
}

// Found reports whether the entry holds a real reference.
func (e HistoryEntry) Found() bool {
	return e.Scripture != "" && e.Scripture != NotFoundScripture
}

// Complete reports whether the entry holds a reference and its text.
// Incomplete entries can be re-submitted for another attempt.
func (e HistoryEntry) Complete() bool {
	return e.Found() && e.ScriptureText != nil
}
