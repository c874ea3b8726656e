// Package handler exposes the ledger session over HTTP
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/damon-houk/kas-tracker/internal/application/service"
	"github.com/damon-houk/kas-tracker/internal/domain/calendar"
	"github.com/damon-houk/kas-tracker/internal/domain/entity"
	"github.com/damon-houk/kas-tracker/internal/infrastructure/format"
	"github.com/damon-houk/kas-tracker/internal/infrastructure/logger"
	"github.com/damon-houk/kas-tracker/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// LedgerHandler handles HTTP requests against a Session
type LedgerHandler struct {
	session *service.Session
	logger  logger.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(session *service.Session, log logger.Logger) *LedgerHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &LedgerHandler{
		session: session,
		logger:  log,
	}
}

// RegisterRoutes registers the ledger routes
func (h *LedgerHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ledger", h.GetLedger).Methods(http.MethodGet)
	router.HandleFunc("/transactions", h.AddTransaction).Methods(http.MethodPost)
	router.HandleFunc("/transactions/profit", h.AddProfit).Methods(http.MethodPost)
	router.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods(http.MethodDelete)
	router.HandleFunc("/focus", h.MoveFocus).Methods(http.MethodPost)
	router.HandleFunc("/profit/preview", h.PreviewProfit).Methods(http.MethodGet)

	h.logger.Info("Ledger routes registered", map[string]interface{}{
		"routes": []string{
			"GET /ledger",
			"POST /transactions",
			"POST /transactions/profit",
			"DELETE /transactions/{id}",
			"POST /focus",
			"GET /profit/preview",
		},
	})
}

// GetLedger returns the screen for the focused day
func (h *LedgerHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, newLedgerResponse(h.session.Snapshot()))
}

// AddTransaction records a plain cash movement on the focused day
func (h *LedgerHandler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req AddTransactionRequest
	if !h.decode(w, r, &req) {
		return
	}

	tx, snapshot, err := h.session.AddPlain(r.Context(), req.Description, int64(req.Amount), entity.Kind(req.Type))
	if err != nil {
		h.sendAddError(w, err, requestID)
		return
	}

	sendJSON(w, http.StatusCreated, AddResponse{
		Transaction: newItemResponse(*tx),
		Ledger:      newLedgerResponse(snapshot),
	})
}

// AddProfit records a sale on the focused day
func (h *LedgerHandler) AddProfit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req AddProfitRequest
	if !h.decode(w, r, &req) {
		return
	}

	tx, snapshot, err := h.session.AddProfit(r.Context(), req.Name, int64(req.Cost), int64(req.Sell))
	if err != nil {
		h.sendAddError(w, err, requestID)
		return
	}

	sendJSON(w, http.StatusCreated, AddResponse{
		Transaction: newItemResponse(*tx),
		Ledger:      newLedgerResponse(snapshot),
	})
}

// DeleteTransaction removes a transaction. Unknown ids succeed with
// removed=false.
func (h *LedgerHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.logger.Warn("Invalid transaction id", map[string]interface{}{
			"request_id": requestID,
			"id":         mux.Vars(r)["id"],
		})
		sendErrorResponse(w, h.logger, "Invalid transaction id",
			"The transaction id must be an integer", http.StatusBadRequest, requestID)
		return
	}

	removed, snapshot, err := h.session.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to delete transaction", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"The ledger could not be saved", http.StatusInternalServerError, requestID)
		return
	}

	sendJSON(w, http.StatusOK, DeleteResponse{
		Removed: removed,
		Ledger:  newLedgerResponse(snapshot),
	})
}

// MoveFocus shifts or sets the focused day. Moving before the start date
// leaves the focus where it was and reports moved=false.
func (h *LedgerHandler) MoveFocus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req FocusRequest
	if !h.decode(w, r, &req) {
		return
	}

	var (
		moved    bool
		snapshot entity.Snapshot
	)
	if req.Date != "" {
		date, err := time.ParseInLocation(calendar.DateLayout, req.Date, h.session.Location())
		if err != nil {
			h.logger.Warn("Invalid focus date", map[string]interface{}{
				"request_id": requestID,
				"date":       req.Date,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Invalid date format",
				"Date must be in YYYY-MM-DD format", http.StatusBadRequest, requestID)
			return
		}
		moved, snapshot = h.session.SetFocus(date)
	} else {
		moved, snapshot = h.session.ShiftFocus(req.Offset)
	}

	sendJSON(w, http.StatusOK, FocusResponse{
		Moved:  moved,
		Ledger: newLedgerResponse(snapshot),
	})
}

// PreviewProfit computes the live profit of the sale form without recording
// anything
func (h *LedgerHandler) PreviewProfit(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	cost := format.CleanNumber(query.Get("cost"))
	sell := format.CleanNumber(query.Get("sell"))

	sendJSON(w, http.StatusOK, PreviewResponse{
		Visible: cost > 0 || sell > 0,
		Profit:  money(sell - cost),
	})
}

func (h *LedgerHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		requestID := middleware.GetRequestID(r.Context())
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return false
	}
	return true
}

func (h *LedgerHandler) sendAddError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, entity.ErrBeforeEpoch):
		sendErrorResponse(w, h.logger, "Date out of range", err.Error(),
			http.StatusUnprocessableEntity, requestID)
	case entity.IsValidationError(err):
		sendErrorResponse(w, h.logger, "Invalid transaction", err.Error(),
			http.StatusUnprocessableEntity, requestID)
	default:
		h.logger.Error("Failed to record transaction", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"The ledger could not be saved", http.StatusInternalServerError, requestID)
	}
}

func sendJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	sendJSON(w, statusCode, ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	})
}
