package service

import (
	"context"
	"sync"
	"time"

	"github.com/damon-houk/kas-tracker/internal/application/aggregation"
	"github.com/damon-houk/kas-tracker/internal/domain/calendar"
	"github.com/damon-houk/kas-tracker/internal/domain/entity"
	domain "github.com/damon-houk/kas-tracker/internal/domain/service"
	"github.com/damon-houk/kas-tracker/internal/infrastructure/logger"
)

// Renderer consumes the state after every change
type Renderer interface {
	Render(snapshot entity.Snapshot)
}

// RendererFunc adapts a function to the Renderer interface
type RendererFunc func(snapshot entity.Snapshot)

// Render calls f(snapshot)
func (f RendererFunc) Render(snapshot entity.Snapshot) {
	f(snapshot)
}

// Session holds the application state: the ledger and the focused day.
// Every action runs to completion under the session lock before the next
// one starts.
type Session struct {
	mutex     sync.Mutex
	ledger    *LedgerService
	cal       *calendar.Calendar
	clock     domain.Clock
	logger    logger.Logger
	focus     time.Time
	renderers []Renderer
}

// NewSession creates a session focused on today, or on the start date when
// today precedes it.
func NewSession(ledger *LedgerService, cal *calendar.Calendar, clock domain.Clock, log logger.Logger) *Session {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}

	focus := cal.Midnight(clock.Now())
	if focus.Before(cal.Epoch()) {
		focus = cal.Epoch()
	}

	return &Session{
		ledger: ledger,
		cal:    cal,
		clock:  clock,
		logger: log,
		focus:  focus,
	}
}

// Subscribe registers r to be called after every state change. Renderers
// run after the session lock is released, so they may call back into the
// session.
func (s *Session) Subscribe(r Renderer) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.renderers = append(s.renderers, r)
}

// Focus returns the focused day at midnight
func (s *Session) Focus() time.Time {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.focus
}

// Location is the time zone days are counted in
func (s *Session) Location() *time.Location {
	return s.cal.Location()
}

// ShiftFocus moves the focused day by offsetDays. Moving before the start
// date is ignored. It reports whether the focus changed, along with the
// state right after the move.
func (s *Session) ShiftFocus(offsetDays int) (bool, entity.Snapshot) {
	s.mutex.Lock()
	moved := s.setFocusLocked(s.cal.AddDays(s.focus, offsetDays))
	return s.finish(moved)
}

// SetFocus jumps to date under the same start date guard as ShiftFocus
func (s *Session) SetFocus(date time.Time) (bool, entity.Snapshot) {
	s.mutex.Lock()
	moved := s.setFocusLocked(s.cal.Midnight(date))
	return s.finish(moved)
}

// AddPlain records a plain transaction on the focused day and returns it
// with the state right after the addition
func (s *Session) AddPlain(ctx context.Context, desc string, amount int64, kind entity.Kind) (*entity.Transaction, entity.Snapshot, error) {
	s.mutex.Lock()

	tx, err := s.ledger.AddPlain(ctx, desc, amount, kind, s.focus)
	if err != nil {
		s.mutex.Unlock()
		return nil, entity.Snapshot{}, err
	}

	_, snapshot := s.finish(true)
	return tx, snapshot, nil
}

// AddProfit records a profit transaction on the focused day and returns it
// with the state right after the addition
func (s *Session) AddProfit(ctx context.Context, name string, cost, sell int64) (*entity.Transaction, entity.Snapshot, error) {
	s.mutex.Lock()

	tx, err := s.ledger.AddProfit(ctx, name, cost, sell, s.focus)
	if err != nil {
		s.mutex.Unlock()
		return nil, entity.Snapshot{}, err
	}

	_, snapshot := s.finish(true)
	return tx, snapshot, nil
}

// Delete removes a transaction by id; unknown ids are ignored
func (s *Session) Delete(ctx context.Context, id int64) (bool, entity.Snapshot, error) {
	s.mutex.Lock()

	removed, err := s.ledger.Remove(ctx, id)
	if err != nil {
		s.mutex.Unlock()
		return false, entity.Snapshot{}, err
	}

	_, snapshot := s.finish(removed)
	return removed, snapshot, nil
}

// Snapshot aggregates the whole history for the focused day as of now
func (s *Session) Snapshot() entity.Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.snapshotLocked()
}

// Close writes the ledger one last time
func (s *Session) Close(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.ledger.Persist(ctx)
}

// finish takes the snapshot of the action that holds the lock, releases the
// lock and, when the state changed, hands the snapshot to the renderers.
func (s *Session) finish(changed bool) (bool, entity.Snapshot) {
	snapshot := s.snapshotLocked()
	var renderers []Renderer
	if changed {
		renderers = append(renderers, s.renderers...)
	}
	s.mutex.Unlock()

	for _, r := range renderers {
		r.Render(snapshot)
	}
	return changed, snapshot
}

func (s *Session) setFocusLocked(candidate time.Time) bool {
	if candidate.Before(s.cal.Epoch()) {
		s.logger.Debug("Navigation before start date ignored", map[string]interface{}{
			"focus":     s.focus.Format(calendar.DateLayout),
			"candidate": candidate.Format(calendar.DateLayout),
		})
		return false
	}

	s.focus = candidate
	return true
}

func (s *Session) snapshotLocked() entity.Snapshot {
	totals, items := aggregation.Aggregate(s.cal, s.ledger.Transactions(), s.focus, s.clock.Now())
	dayNumber := s.cal.DayNumber(s.focus)

	return entity.Snapshot{
		Totals: totals,
		Items:  items,
		Focus: entity.FocusInfo{
			Date:          s.focus,
			DayNumber:     dayNumber,
			DayLabel:      s.cal.DayLabel(s.focus),
			FormattedDate: s.cal.FormatFull(s.focus),
			PrevDisabled:  dayNumber <= 1,
		},
	}
}
