package handler

import (
	"log/slog"
	"net/http"

	"github.com/natan23f3/finfam/internal/auth"
	"github.com/natan23f3/finfam/internal/model"
	"github.com/natan23f3/finfam/internal/validate"
	"github.com/natan23f3/finfam/internal/ws"
)

type FamilyHandler struct {
	families FamilyStore
	users    UserStore
	hub      Broadcaster
	logger   *slog.Logger
}

func NewFamilyHandler(families FamilyStore, users UserStore, hub Broadcaster, logger *slog.Logger) *FamilyHandler {
	return &FamilyHandler{families: families, users: users, hub: hub, logger: logger}
}

func (h *FamilyHandler) broadcast(action string, id, familyID int64) {
	if h.hub != nil {
		h.hub.Broadcast(ws.NewMessage("family_member", action, id, familyID))
	}
}

func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	name, ok := validate.Name(req.Name)
	if !ok {
		writeValidation(w, validate.Errors{"name": "name must be at least 2 characters"})
		return
	}

	family, err := h.families.Create(name, ac.UserID)
	if err != nil {
		h.logger.Error("create family", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.logger.Info("family created", "family_id", family.ID, "admin_id", ac.UserID)
	writeJSON(w, http.StatusCreated, family)
}

func (h *FamilyHandler) List(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	families, err := h.families.ListForUser(ac.UserID)
	if err != nil {
		h.logger.Error("list families", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if families == nil {
		families = []model.Family{}
	}
	writeJSON(w, http.StatusOK, families)
}

func (h *FamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	familyID, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid family id")
		return
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

	family, err := h.families.GetByID(familyID)
	if err != nil {
		h.logger.Error("get family", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if family == nil {
		writeError(w, http.StatusNotFound, "family not found")
		return
	}
	writeJSON(w, http.StatusOK, family)
}

func (h *FamilyHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	familyID, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid family id")
		return
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

	members, err := h.families.ListMembers(familyID)
	if err != nil {
		h.logger.Error("list members", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if members == nil {
		members = []model.FamilyMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *FamilyHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	familyID, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid family id")
		return
	}

	decision, err := checkFamilyAccess(r.Context(), h.families, familyID, true)
	if err != nil {
		h.logger.Error("authorize", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !decision.allowed() {
		writeError(w, decision.status, decision.message)
		return
	}

	var req struct {
		UserID int64  `json:"userId"`
		Role   string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	errs := validate.Errors{}
	if req.UserID <= 0 {
		errs.Add("userId", "userId is required")
	}
	role, ok := validate.MemberRole(req.Role)
	if !ok {
		errs.Add("role", "role must be admin or member")
	}
	if !errs.OK() {
		writeValidation(w, errs)
		return
	}

	user, err := h.users.GetByID(req.UserID)
	if err != nil {
		h.logger.Error("member lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	existing, err := h.families.GetMember(familyID, req.UserID)
	if err != nil {
		h.logger.Error("member lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "user is already a member")
		return
	}

	member, err := h.families.AddMember(familyID, req.UserID, role)
	if err != nil {
		h.logger.Error("add member", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.broadcast("added", member.ID, familyID)
	writeJSON(w, http.StatusCreated, member)
}

func (h *FamilyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	familyID, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid family id")
		return
	}
	userID, ok := idParam(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	decision, err := checkFamilyAccess(r.Context(), h.families, familyID, true)
	if err != nil {
		h.logger.Error("authorize", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !decision.allowed() {
		writeError(w, decision.status, decision.message)
		return
	}

	family, err := h.families.GetByID(familyID)
	if err != nil {
		h.logger.Error("get family", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if family != nil && family.AdminID == userID {
		writeError(w, http.StatusBadRequest, "the family admin cannot be removed")
		return
	}

	member, err := h.families.GetMember(familyID, userID)
	if err != nil {
		h.logger.Error("member lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	if err := h.families.RemoveMember(familyID, userID); err != nil {
		h.logger.Error("remove member", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.broadcast("removed", member.ID, familyID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "member removed"})
}
