// Package service internal/application/service/ledger_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/damon-houk/kas-tracker/internal/domain/calendar"
	"github.com/damon-houk/kas-tracker/internal/domain/entity"
	"github.com/damon-houk/kas-tracker/internal/domain/repository"
	domain "github.com/damon-houk/kas-tracker/internal/domain/service"
	"github.com/damon-houk/kas-tracker/internal/infrastructure/logger"
	"github.com/damon-houk/kas-tracker/internal/infrastructure/middleware"
)

const (
	// DefaultStorageKey is the blob key used by earlier versions of the tracker
	DefaultStorageKey = "kas_v11_journey"
	// DefaultProfitName labels profit records entered without a name
	DefaultProfitName = "Jualan"
)

// LedgerConfig holds the tunables of a LedgerService
type LedgerConfig struct {
	StorageKey        string
	DefaultProfitName string
}

// LedgerService owns the transaction sequence and its persisted blob.
// Transactions are kept newest first. It is not safe for concurrent use;
// Session serialises access.
type LedgerService struct {
	repo         repository.BlobRepository
	cal          *calendar.Calendar
	clock        domain.Clock
	logger       logger.Logger
	key          string
	profitName   string
	transactions []entity.Transaction
	lastID       int64
}

// NewLedgerService creates a new ledger service. Call Load before use.
func NewLedgerService(repo repository.BlobRepository, cal *calendar.Calendar, clock domain.Clock, cfg LedgerConfig, log logger.Logger) *LedgerService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = DefaultStorageKey
	}
	if cfg.DefaultProfitName == "" {
		cfg.DefaultProfitName = DefaultProfitName
	}

	return &LedgerService{
		repo:         repo,
		cal:          cal,
		clock:        clock,
		logger:       log,
		key:          cfg.StorageKey,
		profitName:   cfg.DefaultProfitName,
		transactions: []entity.Transaction{},
	}
}

// Load reads the persisted blob. A missing or unreadable blob yields an
// empty ledger; the failure is logged, never returned.
func (s *LedgerService) Load(ctx context.Context) {
	s.transactions = []entity.Transaction{}
	s.lastID = 0

	data, err := s.repo.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, repository.ErrBlobNotFound) {
			s.logger.Warn("Failed to read ledger, starting empty", map[string]interface{}{
				"key":   s.key,
				"error": err.Error(),
			})
		}
		return
	}

	var txs []entity.Transaction
	if err := json.Unmarshal(data, &txs); err != nil {
		s.logger.Warn("Ledger blob is not valid JSON, starting empty", map[string]interface{}{
			"key":   s.key,
			"error": err.Error(),
		})
		return
	}

	if txs != nil {
		s.transactions = txs
	}
	for _, tx := range s.transactions {
		if tx.ID > s.lastID {
			s.lastID = tx.ID
		}
	}

	s.logger.Info("Ledger loaded", map[string]interface{}{
		"key":          s.key,
		"transactions": len(s.transactions),
	})
}

// Transactions returns a copy of the sequence, newest first
func (s *LedgerService) Transactions() []entity.Transaction {
	out := make([]entity.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Append prepends tx and persists the full sequence. The in-memory ledger
// only changes once the blob has been written.
func (s *LedgerService) Append(ctx context.Context, tx entity.Transaction) error {
	next := make([]entity.Transaction, 0, len(s.transactions)+1)
	next = append(next, tx)
	next = append(next, s.transactions...)

	if err := s.persist(ctx, next); err != nil {
		return err
	}

	s.transactions = next
	if tx.ID > s.lastID {
		s.lastID = tx.ID
	}

	s.logger.Info("Transaction added", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"id":         tx.ID,
		"amount":     tx.Amount,
		"type":       tx.Kind,
		"is_profit":  tx.IsProfit,
		"date":       tx.OccursOn.Format(calendar.DateLayout),
	})

	return nil
}

// Remove deletes the transaction with the given id. It reports whether a
// transaction was removed; an unknown id is not an error.
func (s *LedgerService) Remove(ctx context.Context, id int64) (bool, error) {
	idx := -1
	for i, tx := range s.transactions {
		if tx.ID == id {
			idx = i
			break
		}
	}

	if idx < 0 {
		s.logger.Debug("Delete of unknown transaction ignored", map[string]interface{}{
			"request_id": middleware.GetRequestID(ctx),
			"id":         id,
		})
		return false, nil
	}

	next := make([]entity.Transaction, 0, len(s.transactions)-1)
	next = append(next, s.transactions[:idx]...)
	next = append(next, s.transactions[idx+1:]...)

	if err := s.persist(ctx, next); err != nil {
		return false, err
	}

	s.transactions = next

	s.logger.Info("Transaction deleted", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"id":         id,
	})

	return true, nil
}

// AddPlain records a cash movement on occursOn. Invalid input is rejected
// with a validation error and leaves the ledger untouched.
func (s *LedgerService) AddPlain(ctx context.Context, desc string, amount int64, kind entity.Kind, occursOn time.Time) (*entity.Transaction, error) {
	if kind != entity.KindIncrease {
		kind = entity.KindDecrease
	}

	tx := entity.Transaction{
		Description: strings.TrimSpace(desc),
		Amount:      amount,
		Kind:        kind,
	}

	return s.add(ctx, tx, occursOn)
}

// AddProfit records a sale on occursOn. The amount is sell - cost and may be
// negative; the record is always tagged as an increase.
func (s *LedgerService) AddProfit(ctx context.Context, name string, cost, sell int64, occursOn time.Time) (*entity.Transaction, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.profitName
	}

	tx := entity.Transaction{
		Description: name,
		Amount:      sell - cost,
		Cost:        cost,
		Sell:        sell,
		Kind:        entity.KindIncrease,
		IsProfit:    true,
	}

	return s.add(ctx, tx, occursOn)
}

// Persist writes the current sequence to the blob
func (s *LedgerService) Persist(ctx context.Context) error {
	return s.persist(ctx, s.transactions)
}

func (s *LedgerService) add(ctx context.Context, tx entity.Transaction, occursOn time.Time) (*entity.Transaction, error) {
	if s.cal.BeforeEpoch(occursOn) {
		return nil, entity.ErrBeforeEpoch
	}

	if err := tx.Validate(); err != nil {
		s.logger.Debug("Transaction rejected", map[string]interface{}{
			"request_id": middleware.GetRequestID(ctx),
			"error":      err.Error(),
		})
		return nil, err
	}

	now := s.clock.Now()
	tx.ID = s.nextID(now)
	tx.OccursOn = s.cal.Midnight(occursOn)
	tx.RecordedAt = now.In(s.cal.Location()).Format("15:04")

	if err := s.Append(ctx, tx); err != nil {
		return nil, err
	}

	return &tx, nil
}

// nextID derives the id from the clock in milliseconds, bumped past the
// newest known id so ids stay unique and increasing.
func (s *LedgerService) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	return id
}

func (s *LedgerService) persist(ctx context.Context, txs []entity.Transaction) error {
	if txs == nil {
		txs = []entity.Transaction{}
	}

	data, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	if err := s.repo.Save(ctx, s.key, data); err != nil {
		s.logger.Error("Failed to persist ledger", map[string]interface{}{
			"request_id": middleware.GetRequestID(ctx),
			"key":        s.key,
			"error":      err.Error(),
		})
		return fmt.Errorf("failed to persist ledger: %w", err)
	}

	return nil
}
