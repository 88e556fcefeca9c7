// Package handler is the HTTP boundary: it decodes and validates
// requests, delegates to the ledger service, and maps engine error
// kinds to status codes. No ledger logic lives here.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evenup/evenup/internal/calculator"
	"github.com/evenup/evenup/internal/metrics"
	"github.com/evenup/evenup/internal/middleware"
	"github.com/evenup/evenup/internal/models"
	"github.com/evenup/evenup/internal/money"
	"github.com/evenup/evenup/internal/service"
	"github.com/evenup/evenup/internal/storage"
	"github.com/evenup/evenup/internal/validator"
)

// Handler serves the ledger API.
type Handler struct {
	svc     *service.LedgerService
	metrics *metrics.Metrics
}

// New creates a Handler around the given service.
func New(svc *service.LedgerService, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

// Routes builds the API router. Metrics instrumentation lives on the
// router so it can label observations with the chi route pattern;
// logging, request IDs and CORS wrap the router from the outside.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Metrics(h.metrics))

	r.Route("/groups", func(r chi.Router) {
		r.Post("/", h.createGroup)
		r.Get("/", h.listGroups)
		r.Route("/{groupID}", func(r chi.Router) {
			r.Get("/", h.getGroup)
			r.Post("/expenses", h.addExpense)
			r.Get("/expenses", h.listExpenses)
			r.Get("/balances", h.getBalances)
			r.Post("/settlements", h.recordSettlement)
			r.Get("/settlements", h.listSettlements)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	names := make([]string, len(req.Users))
	for i, u := range req.Users {
		names[i] = u.Name
	}

	group, err := h.svc.CreateGroup(r.Context(), req.Name, names)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.metrics.IncrementWrite("group")
	writeJSON(w, http.StatusCreated, group)
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.ListGroups(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	group, err := h.svc.GetGroup(r.Context(), groupID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *Handler) addExpense(w http.ResponseWriter, r *http.Request) {
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	var req addExpenseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	amount, err := money.Parse(req.Amount.String())
	if err != nil {
		writeErrorKind(w, http.StatusBadRequest, "invalid_argument", "amount must be a positive decimal with at most two fraction digits")
		return
	}

	splits := make([]calculator.SplitInput, len(req.Splits))
	for i, s := range req.Splits {
		splits[i] = calculator.SplitInput{MemberID: s.UserID, Percentage: s.Percentage}
	}

	expense, err := h.svc.AddExpense(r.Context(), groupID, service.ExpenseInput{
		Description: req.Description,
		Amount:      amount,
		PaidBy:      req.PaidBy,
		SplitType:   models.SplitType(req.SplitType),
		Splits:      splits,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.metrics.IncrementWrite("expense")
	writeJSON(w, http.StatusCreated, expense)
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	expenses, err := h.svc.ListExpenses(r.Context(), groupID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (h *Handler) getBalances(w http.ResponseWriter, r *http.Request) {
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	transfers, err := h.svc.GetBalances(r.Context(), groupID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.metrics.IncrementBalanceQuery()
	writeJSON(w, http.StatusOK, transfers)
}

func (h *Handler) recordSettlement(w http.ResponseWriter, r *http.Request) {
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	var req recordSettlementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	amount, err := money.Parse(req.Amount.String())
	if err != nil {
		writeErrorKind(w, http.StatusBadRequest, "invalid_argument", "amount must be a positive decimal with at most two fraction digits")
		return
	}

	settlement, err := h.svc.RecordSettlement(r.Context(), groupID, req.From, req.To, amount, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.metrics.IncrementWrite("settlement")
	writeJSON(w, http.StatusCreated, settlement)
}

func (h *Handler) listSettlements(w http.ResponseWriter, r *http.Request) {
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	settlements, err := h.svc.ListSettlements(r.Context(), groupID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if settlements == nil {
		settlements = []*models.Settlement{}
	}
	writeJSON(w, http.StatusOK, settlements)
}

// groupIDParam parses the {groupID} URL segment.
func groupIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "groupID"), 10, 64)
	if err != nil || id <= 0 {
		writeErrorKind(w, http.StatusBadRequest, "invalid_argument", "group id must be a positive integer")
		return 0, false
	}
	return id, true
}

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation, writing the error response itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		writeErrorKind(w, http.StatusBadRequest, "invalid_argument", "malformed JSON body")
		return false
	}
	if err := validator.Validate.Struct(dst); err != nil {
		writeErrorKind(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return false
	}
	return true
}

// errorResponse is the error envelope for every non-2xx response.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// writeError translates engine error kinds to HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var kind string
	switch {
	case errors.Is(err, storage.ErrGroupNotFound):
		status, kind = http.StatusNotFound, "unknown_group"
	case errors.Is(err, storage.ErrMemberNotFound):
		status, kind = http.StatusNotFound, "unknown_member"
	case errors.Is(err, storage.ErrDuplicateGroup):
		status, kind = http.StatusConflict, "duplicate_group"
	case errors.Is(err, calculator.ErrInvalidSplit):
		status, kind = http.StatusBadRequest, "invalid_split"
	case errors.Is(err, service.ErrInvalidArgument):
		status, kind = http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, calculator.ErrLedgerInconsistency):
		status, kind = http.StatusInternalServerError, "ledger_inconsistency"
	default:
		status, kind = http.StatusInternalServerError, "internal"
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "kind", kind, "error", err,
			"request_id", middleware.GetRequestID(r.Context()))
	}
	writeErrorKind(w, status, kind, err.Error())
}

func writeErrorKind(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Kind: kind, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
