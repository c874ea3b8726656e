// Package aggregation derives the displayed totals from the full
// transaction history in a single pass.
package aggregation

import (
	"time"

	"github.com/damon-houk/kas-tracker/internal/domain/calendar"
	"github.com/damon-houk/kas-tracker/internal/domain/entity"
)

// Aggregate computes the totals for focused as seen at now, together with the
// focused day's transactions in their original (newest first) order.
//
// Balance covers every transaction. Week counts transactions dated on or after
// the Monday of now's week, Month and Year those sharing now's month / year.
// Aggregate does not modify txs.
func Aggregate(cal *calendar.Calendar, txs []entity.Transaction, focused, now time.Time) (entity.Totals, []entity.Transaction) {
	var totals entity.Totals
	items := make([]entity.Transaction, 0)

	weekStart := cal.WeekStart(now)

	for _, t := range txs {
		val := t.SignedValue()

		totals.Balance += val

		if !cal.Midnight(t.OccursOn).Before(weekStart) {
			totals.Week += val
		}
		if cal.SameMonth(t.OccursOn, now) {
			totals.Month += val
		}
		if cal.SameYear(t.OccursOn, now) {
			totals.Year += val
		}

		if cal.SameDay(t.OccursOn, focused) {
			totals.DayCount++
			if val >= 0 {
				totals.DayIncome += val
			} else {
				totals.DayExpense += -val
			}
			items = append(items, t)
		}
	}

	return totals, items
}
