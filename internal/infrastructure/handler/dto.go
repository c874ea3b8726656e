package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/damon-houk/kas-tracker/internal/domain/calendar"
	"github.com/damon-houk/kas-tracker/internal/domain/entity"
	"github.com/damon-houk/kas-tracker/internal/infrastructure/format"
)

// EmptyDayMessage is shown when the focused day has no transactions
const EmptyDayMessage = "Belum ada catatan hari ini"

// FormAmount is an amount as typed into the form, e.g. "15.000". Plain
// JSON numbers are accepted as well.
type FormAmount int64

// UnmarshalJSON implements json.Unmarshaler
func (a *FormAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = FormAmount(format.CleanNumber(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number or a string: %w", err)
	}

	// Numbers carry no thousand separators; fractions are truncated
	if i, err := n.Int64(); err == nil {
		*a = FormAmount(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return fmt.Errorf("amount %s is out of range", n.String())
	}
	*a = FormAmount(int64(f))
	return nil
}

// AddTransactionRequest is the body of POST /transactions
type AddTransactionRequest struct {
	Description string     `json:"description"`
	Amount      FormAmount `json:"amount"`
	Type        string     `json:"type"`
}

// AddProfitRequest is the body of POST /transactions/profit
type AddProfitRequest struct {
	Name string     `json:"name"`
	Cost FormAmount `json:"cost"`
	Sell FormAmount `json:"sell"`
}

// FocusRequest is the body of POST /focus. Date, when set, wins over Offset.
type FocusRequest struct {
	Offset int    `json:"offset"`
	Date   string `json:"date,omitempty"`
}

// MoneyResponse is a value together with its display form
type MoneyResponse struct {
	Value     int64       `json:"value"`
	Formatted string      `json:"formatted"`
	Tone      format.Tone `json:"tone"`
}

// DayResponse describes the focused day
type DayResponse struct {
	Date          string `json:"date"`
	Number        int    `json:"number"`
	Label         string `json:"label"`
	FormattedDate string `json:"formatted_date"`
	PrevDisabled  bool   `json:"prev_disabled"`
}

// ItemResponse is one row of the day list
type ItemResponse struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	Meta        string      `json:"meta"`
	Amount      int64       `json:"amount"`
	Formatted   string      `json:"formatted"`
	Tone        format.Tone `json:"tone"`
	IsProfit    bool        `json:"is_profit"`
	Detail      string      `json:"detail,omitempty"`
}

// LedgerResponse is the whole screen for the focused day
type LedgerResponse struct {
	Day             DayResponse    `json:"day"`
	Balance         MoneyResponse  `json:"balance"`
	BalanceNegative bool           `json:"balance_negative"`
	DayIncome       MoneyResponse  `json:"day_income"`
	DayExpense      MoneyResponse  `json:"day_expense"`
	ItemCount       int            `json:"item_count"`
	ItemCountLabel  string         `json:"item_count_label"`
	Week            MoneyResponse  `json:"week"`
	Month           MoneyResponse  `json:"month"`
	Year            MoneyResponse  `json:"year"`
	Items           []ItemResponse `json:"items"`
	EmptyMessage    string         `json:"empty_message,omitempty"`
}

// AddResponse is returned after a transaction was recorded
type AddResponse struct {
	Transaction ItemResponse   `json:"transaction"`
	Ledger      LedgerResponse `json:"ledger"`
}

// DeleteResponse is returned after a delete, whether or not the id existed
type DeleteResponse struct {
	Removed bool           `json:"removed"`
	Ledger  LedgerResponse `json:"ledger"`
}

// FocusResponse is returned after navigation
type FocusResponse struct {
	Moved  bool           `json:"moved"`
	Ledger LedgerResponse `json:"ledger"`
}

// PreviewResponse is the live profit preview of the sale form
type PreviewResponse struct {
	Visible bool          `json:"visible"`
	Profit  MoneyResponse `json:"profit"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

func newLedgerResponse(s entity.Snapshot) LedgerResponse {
	items := make([]ItemResponse, 0, len(s.Items))
	for _, tx := range s.Items {
		items = append(items, newItemResponse(tx))
	}

	resp := LedgerResponse{
		Day: DayResponse{
			Date:          s.Focus.Date.Format(calendar.DateLayout),
			Number:        s.Focus.DayNumber,
			Label:         s.Focus.DayLabel,
			FormattedDate: s.Focus.FormattedDate,
			PrevDisabled:  s.Focus.PrevDisabled,
		},
		Balance:         money(s.Totals.Balance),
		BalanceNegative: s.Totals.Balance < 0,
		DayIncome:       money(s.Totals.DayIncome),
		DayExpense:      money(s.Totals.DayExpense),
		ItemCount:       s.Totals.DayCount,
		ItemCountLabel:  fmt.Sprintf("%d TRANSAKSI", s.Totals.DayCount),
		Week:            money(s.Totals.Week),
		Month:           money(s.Totals.Month),
		Year:            money(s.Totals.Year),
		Items:           items,
	}
	if len(items) == 0 {
		resp.EmptyMessage = EmptyDayMessage
	}

	return resp
}

func newItemResponse(tx entity.Transaction) ItemResponse {
	value := tx.SignedValue()
	plus := value >= 0

	tone := format.TonePositive
	if !plus {
		tone = format.ToneNegative
	}

	recordedAt := tx.RecordedAt
	if recordedAt == "" {
		recordedAt = "--:--"
	}
	source := "KAS"
	if tx.IsProfit {
		source = "PROFIT"
	}

	item := ItemResponse{
		ID:          tx.ID,
		Description: tx.Description,
		Meta:        strings.Join([]string{"Pukul " + recordedAt, source}, " • "),
		Amount:      value,
		Formatted:   format.Signed(value, plus),
		Tone:        tone,
		IsProfit:    tx.IsProfit,
	}
	if tx.IsProfit {
		item.Detail = fmt.Sprintf("M: %s | J: %s", format.Thousands(tx.Cost), format.Thousands(tx.Sell))
	}

	return item
}

func money(n int64) MoneyResponse {
	return MoneyResponse{
		Value:     n,
		Formatted: format.Rupiah(n),
		Tone:      format.ToneOf(n),
	}
}
