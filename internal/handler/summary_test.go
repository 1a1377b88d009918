package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/natan23f3/finfam/internal/model"
	"github.com/natan23f3/finfam/internal/summary"
)

type summaryFixture struct {
	handler  *SummaryHandler
	budgets  *fakeEntryStore
	expenses *fakeEntryStore
	families *fakeFamilyStore

	admin  *model.User
	other  *model.User
	family *model.Family
}

func newSummaryFixture(t *testing.T) *summaryFixture {
	t.Helper()
	users := newFakeUserStore()
	families := newFakeFamilyStore()
	budgets := newFakeEntryStore()
	expenses := newFakeEntryStore()

	admin, _ := users.Create("Admin", "admin@x.com", "hash", model.RoleUser)
	other, _ := users.Create("Other", "other@x.com", "hash", model.RoleUser)
	family, _ := families.Create("Silva", admin.ID)

	h := NewSummaryHandler(budgets, expenses, families, testLogger())
	return &summaryFixture{
		handler: h, budgets: budgets, expenses: expenses, families: families,
		admin: admin, other: other, family: family,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *summaryFixture) request(t *testing.T, target string, userID int64) *summary.Family {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = withURLParam(asUser(req, userID, model.RoleUser), "familyId", f.family.ID)
	rec := httptest.NewRecorder()
	f.handler.Family(rec, req)

	mustStatus(t, rec.Code, http.StatusOK)
	var got summary.Family
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return &got
}

func TestSummaryFamily(t *testing.T) {
	f := newSummaryFixture(t)
	f.budgets.Create(f.family.ID, "groceries", 80000, day(2025, 3, 1))
	f.expenses.Create(f.family.ID, "groceries", 35000, day(2025, 3, 10))

	got := f.request(t, "/api/summary/family/1", f.admin.ID)
	if len(got.Categories) != 1 {
		t.Fatalf("categories = %d, want 1", len(got.Categories))
	}
	c := got.Categories[0]
	if c.Category != "groceries" || c.Budget != 80000 || c.Spent != 35000 {
		t.Fatalf("category = %+v", c)
	}
	if c.PercentUsed != 43.75 {
		t.Errorf("percent = %v, want 43.75", c.PercentUsed)
	}
}

func TestSummaryMonthFilter(t *testing.T) {
	f := newSummaryFixture(t)
	f.budgets.Create(f.family.ID, "rent", 100000, day(2025, 3, 1))
	f.expenses.Create(f.family.ID, "rent", 100000, day(2025, 3, 5))
	f.expenses.Create(f.family.ID, "rent", 100000, day(2025, 4, 5))

	got := f.request(t, "/api/summary/family/1?month=2025-03", f.admin.ID)
	if got.Month != "2025-03" {
		t.Errorf("month = %q", got.Month)
	}
	if len(got.Categories) != 1 || got.Categories[0].Spent != 100000 {
		t.Fatalf("categories = %+v", got.Categories)
	}
}

func TestSummaryBadMonth(t *testing.T) {
	f := newSummaryFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/summary/family/1?month=March", nil)
	req = withURLParam(asUser(req, f.admin.ID, f.admin.Role), "familyId", f.family.ID)
	rec := httptest.NewRecorder()
	f.handler.Family(rec, req)

	mustStatus(t, rec.Code, http.StatusBadRequest)
}

func TestSummaryForbidden(t *testing.T) {
	f := newSummaryFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/summary/family/1", nil)
	req = withURLParam(asUser(req, f.other.ID, f.other.Role), "familyId", f.family.ID)
	rec := httptest.NewRecorder()
	f.handler.Family(rec, req)

	mustStatus(t, rec.Code, http.StatusForbidden)
}
