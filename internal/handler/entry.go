package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/natan23f3/finfam/internal/model"
	"github.com/natan23f3/finfam/internal/validate"
	"github.com/natan23f3/finfam/internal/ws"
)

// Broadcaster pushes change notifications to connected clients.
// Satisfied by *ws.Hub; may be nil.
type Broadcaster interface {
	Broadcast(msg ws.Message)
}

// EntryHandler serves one of the two entry resources. Budgets and
// expenses expose identical endpoints, so a single handler
// parameterized by store and entity name serves both.
type EntryHandler struct {
	entries  EntryStore
	families FamilyStore
	entity   string
	hub      Broadcaster
	logger   *slog.Logger
}

func NewEntryHandler(entries EntryStore, families FamilyStore, entity string, hub Broadcaster, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{entries: entries, families: families, entity: entity, hub: hub, logger: logger}
}

func (h *EntryHandler) broadcast(action string, id, familyID int64) {
	if h.hub != nil {
		h.hub.Broadcast(ws.NewMessage(h.entity, action, id, familyID))
	}
}

type entryRequest struct {
	Category *string `json:"category"`
	Value    *int64  `json:"value"`
	Date     *string `json:"date"`
	FamilyID *int64  `json:"familyId"`
}

func (h *EntryHandler) authorize(w http.ResponseWriter, r *http.Request, familyID int64, write bool) bool {
	decision, err := checkFamilyAccess(r.Context(), h.families, familyID, write)
	if err != nil {
		h.logger.Error("authorize", "error", err, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return false
	}
	if !decision.allowed() {
		writeError(w, decision.status, decision.message)
		return false
	}
	return true
}

func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	errs := validate.Errors{}
	var (
		category string
		value    int64
		date     time.Time
		familyID int64
	)
	if req.Category == nil {
		errs.Add("category", "category is required")
	} else if c, ok := validate.Category(*req.Category); ok {
		category = c
	} else {
		errs.Add("category", "category must be a non-empty string")
	}
	if req.Value == nil {
		errs.Add("value", "value is required")
	} else if validate.Value(*req.Value) {
		value = *req.Value
	} else {
		errs.Add("value", "value must be a positive number")
	}
	if req.Date == nil {
		errs.Add("date", "date is required")
	} else if d, ok := validate.Date(*req.Date); ok {
		date = d
	} else {
		errs.Add("date", "date must be YYYY-MM-DD")
	}
	if req.FamilyID == nil || *req.FamilyID <= 0 {
		errs.Add("familyId", "familyId is required")
	} else {
		familyID = *req.FamilyID
	}
	if !errs.OK() {
		writeValidation(w, errs)
		return
	}

	if !h.authorize(w, r, familyID, true) {
		return
	}

	entry, err := h.entries.Create(familyID, category, value, date)
	if err != nil {
		h.logger.Error("create entry", "error", err, "entity", h.entity)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.broadcast("created", entry.ID, entry.FamilyID)
	writeJSON(w, http.StatusCreated, entry)
}

func (h *EntryHandler) ListByFamily(w http.ResponseWriter, r *http.Request) {
	familyID, ok := idParam(r, "familyId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid family id")
		return
	}

	if !h.authorize(w, r, familyID, false) {
		return
	}

	entries, err := h.entries.ListByFamily(familyID)
	if err != nil {
		h.logger.Error("list entries", "error", err, "entity", h.entity)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	entry, err := h.entries.GetByID(id)
	if err != nil {
		h.logger.Error("get entry", "error", err, "entity", h.entity)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, h.entity+" not found")
		return
	}

	if !h.authorize(w, r, entry.FamilyID, false) {
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Update accepts partial bodies: absent fields keep their stored
// values. The entry's family cannot be changed.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.entries.GetByID(id)
	if err != nil {
		h.logger.Error("get entry", "error", err, "entity", h.entity)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, h.entity+" not found")
		return
	}

	if !h.authorize(w, r, existing.FamilyID, true) {
		return
	}

	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	errs := validate.Errors{}
	category, value, date := existing.Category, existing.Value, existing.Date
	if req.Category != nil {
		if c, ok := validate.Category(*req.Category); ok {
			category = c
		} else {
			errs.Add("category", "category must be a non-empty string")
		}
	}
	if req.Value != nil {
		if validate.Value(*req.Value) {
			value = *req.Value
		} else {
			errs.Add("value", "value must be a positive number")
		}
	}
	if req.Date != nil {
		if d, ok := validate.Date(*req.Date); ok {
			date = d
		} else {
			errs.Add("date", "date must be YYYY-MM-DD")
		}
	}
	if !errs.OK() {
		writeValidation(w, errs)
		return
	}

	// The family id in the WHERE clause re-asserts ownership, so a
	// row that moved since the check above simply matches nothing
	entry, err := h.entries.Update(id, existing.FamilyID, category, value, date)
	if err != nil {
		h.logger.Error("update entry", "error", err, "entity", h.entity)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, h.entity+" not found")
		return
	}

	h.broadcast("updated", entry.ID, entry.FamilyID)
	writeJSON(w, http.StatusOK, entry)
}

func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.entries.GetByID(id)
	if err != nil {
		h.logger.Error("get entry", "error", err, "entity", h.entity)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, h.entity+" not found")
		return
	}

	if !h.authorize(w, r, existing.FamilyID, true) {
		return
	}

	deleted, err := h.entries.Delete(id, existing.FamilyID)
	if err != nil {
		h.logger.Error("delete entry", "error", err, "entity", h.entity)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, h.entity+" not found")
		return
	}

	h.broadcast("deleted", id, existing.FamilyID)
	writeJSON(w, http.StatusOK, map[string]string{"message": h.entity + " deleted"})
}
