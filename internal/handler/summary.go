package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/natan23f3/finfam/internal/model"
	"github.com/natan23f3/finfam/internal/summary"
	"github.com/natan23f3/finfam/internal/validate"
)

// SummaryHandler serves the dashboard aggregates: per-category planned
// vs. actual spend for one family, optionally restricted to a month.
type SummaryHandler struct {
	budgets  EntryStore
	expenses EntryStore
	families FamilyStore
	logger   *slog.Logger
}

func NewSummaryHandler(budgets, expenses EntryStore, families FamilyStore, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{budgets: budgets, expenses: expenses, families: families, logger: logger}
}

func (h *SummaryHandler) Family(w http.ResponseWriter, r *http.Request) {
	familyID, ok := idParam(r, "familyId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid family id")
		return
	}

	month := r.URL.Query().Get("month")
	var monthStart time.Time
	if month != "" {
		start, ok := validate.Month(month)
		if !ok {
			writeValidation(w, validate.Errors{"month": "month must be YYYY-MM"})
			return
		}
		monthStart = start
	}

	decision, err := checkFamilyAccess(r.Context(), h.families, familyID, false)
	if err != nil {
		h.logger.Error("authorize", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !decision.allowed() {
		writeError(w, decision.status, decision.message)
		return
	}

	budgets, err := h.list(h.budgets, familyID, monthStart)
	if err != nil {
		h.logger.Error("list budgets", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	expenses, err := h.list(h.expenses, familyID, monthStart)
	if err != nil {
		h.logger.Error("list expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, summary.Compute(familyID, month, budgets, expenses))
}

func (h *SummaryHandler) list(s EntryStore, familyID int64, monthStart time.Time) ([]model.Entry, error) {
	if monthStart.IsZero() {
		return s.ListByFamily(familyID)
	}
	return s.ListByFamilyMonth(familyID, monthStart)
}
