package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/natan23f3/finfam/internal/auth"
	"github.com/natan23f3/finfam/internal/model"
	"github.com/natan23f3/finfam/internal/ws"
)

// In-memory store fakes shared by the handler tests.

type fakeUserStore struct {
	nextID int64
	users  map[int64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: make(map[int64]*model.User)}
}

func (f *fakeUserStore) Create(name, email, passwordHash, role string) (*model.User, error) {
	u := &model.User{
		ID:           f.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	f.nextID++
	return u, nil
}

func (f *fakeUserStore) GetByID(id int64) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) GetByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type fakeSessionStore struct {
	nextID   int64
	sessions map[int64]*model.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{nextID: 1, sessions: make(map[int64]*model.Session)}
}

func (f *fakeSessionStore) Create(userID int64, ttl time.Duration) (*model.Session, error) {
	s := &model.Session{
		ID:        f.nextID,
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}
	f.sessions[s.ID] = s
	f.nextID++
	return s, nil
}

func (f *fakeSessionStore) Delete(id int64) error {
	delete(f.sessions, id)
	return nil
}

type fakeFamilyStore struct {
	nextID   int64
	families map[int64]*model.Family
	members  map[int64][]*model.FamilyMember
}

func newFakeFamilyStore() *fakeFamilyStore {
	return &fakeFamilyStore{
		nextID:   1,
		families: make(map[int64]*model.Family),
		members:  make(map[int64][]*model.FamilyMember),
	}
}

func (f *fakeFamilyStore) Create(name string, adminID int64) (*model.Family, error) {
	fam := &model.Family{ID: f.nextID, Name: name, AdminID: adminID}
	f.families[fam.ID] = fam
	f.nextID++
	f.AddMember(fam.ID, adminID, model.MemberRoleAdmin)
	return fam, nil
}

func (f *fakeFamilyStore) GetByID(id int64) (*model.Family, error) {
	return f.families[id], nil
}

func (f *fakeFamilyStore) ListForUser(userID int64) ([]model.Family, error) {
	var out []model.Family
	for _, fam := range f.families {
		if fam.AdminID == userID {
			out = append(out, *fam)
			continue
		}
		for _, m := range f.members[fam.ID] {
			if m.UserID == userID {
				out = append(out, *fam)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeFamilyStore) AddMember(familyID, userID int64, role string) (*model.FamilyMember, error) {
	m := &model.FamilyMember{
		ID:       int64(len(f.members[familyID]) + 1),
		FamilyID: familyID,
		UserID:   userID,
		Role:     role,
	}
	f.members[familyID] = append(f.members[familyID], m)
	return m, nil
}

func (f *fakeFamilyStore) RemoveMember(familyID, userID int64) error {
	kept := f.members[familyID][:0]
	for _, m := range f.members[familyID] {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	f.members[familyID] = kept
	return nil
}

func (f *fakeFamilyStore) GetMember(familyID, userID int64) (*model.FamilyMember, error) {
	for _, m := range f.members[familyID] {
		if m.UserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeFamilyStore) ListMembers(familyID int64) ([]model.FamilyMember, error) {
	var out []model.FamilyMember
	for _, m := range f.members[familyID] {
		out = append(out, *m)
	}
	return out, nil
}

type fakeEntryStore struct {
	nextID  int64
	entries map[int64]*model.Entry
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{nextID: 1, entries: make(map[int64]*model.Entry)}
}

func (f *fakeEntryStore) Create(familyID int64, category string, value int64, date time.Time) (*model.Entry, error) {
	e := &model.Entry{ID: f.nextID, FamilyID: familyID, Category: category, Value: value, Date: date}
	f.entries[e.ID] = e
	f.nextID++
	return e, nil
}

func (f *fakeEntryStore) GetByID(id int64) (*model.Entry, error) {
	return f.entries[id], nil
}

func (f *fakeEntryStore) ListByFamily(familyID int64) ([]model.Entry, error) {
	var out []model.Entry
	for _, e := range f.entries {
		if e.FamilyID == familyID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEntryStore) ListByFamilyMonth(familyID int64, monthStart time.Time) ([]model.Entry, error) {
	end := monthStart.AddDate(0, 1, 0)
	var out []model.Entry
	for _, e := range f.entries {
		if e.FamilyID == familyID && !e.Date.Before(monthStart) && e.Date.Before(end) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEntryStore) Update(id, familyID int64, category string, value int64, date time.Time) (*model.Entry, error) {
	e, ok := f.entries[id]
	if !ok || e.FamilyID != familyID {
		return nil, nil
	}
	e.Category, e.Value, e.Date = category, value, date
	return e, nil
}

func (f *fakeEntryStore) Delete(id, familyID int64) (bool, error) {
	e, ok := f.entries[id]
	if !ok || e.FamilyID != familyID {
		return false, nil
	}
	delete(f.entries, id)
	return true, nil
}

type fakeHub struct {
	messages []ws.Message
}

func (f *fakeHub) Broadcast(msg ws.Message) {
	f.messages = append(f.messages, msg)
}

// Test request helpers.

func testLogger() *slog.Logger { return slog.Default() }

// asUser attaches an AuthContext to the request.
func asUser(r *http.Request, userID int64, role string) *http.Request {
	ac := auth.AuthContext{UserID: userID, Email: "user@x.com", Role: role, SessionID: userID}
	return r.WithContext(auth.WithAuth(r.Context(), ac))
}

// withURLParam injects a chi route parameter so handlers can be called
// without mounting a full router.
func withURLParam(r *http.Request, key string, value int64) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, strconv.FormatInt(value, 10))
	return r
}

func mustStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
}
