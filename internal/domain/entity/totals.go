package entity

import (
	"time"
)

// Totals holds the aggregates derived from the full transaction history.
// It is recomputed on every render and never persisted.
type Totals struct {
	Balance    int64 `json:"balance"`
	DayIncome  int64 `json:"day_income"`
	DayExpense int64 `json:"day_expense"`
	DayCount   int   `json:"day_count"`
	Week       int64 `json:"week"`
	Month      int64 `json:"month"`
	Year       int64 `json:"year"`
}

// FocusInfo describes the focused day for display
type FocusInfo struct {
	Date          time.Time `json:"date"`
	DayNumber     int       `json:"day_number"`
	DayLabel      string    `json:"day_label"`
	FormattedDate string    `json:"formatted_date"`
	PrevDisabled  bool      `json:"prev_disabled"`
}

// Snapshot is everything a view needs after an action
type Snapshot struct {
	Totals Totals
	Items  []Transaction
	Focus  FocusInfo
}
