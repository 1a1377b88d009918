package store

import "testing"

func TestUserCreateAndGet(t *testing.T) {
	db := testStores(t)
	us := NewUserStore(db)

	u, err := us.Create("Ana", "ana@x.com", "hash", "user")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected non-zero id")
	}
	if u.Role != "user" {
		t.Errorf("role = %q, want user", u.Role)
	}

	got, err := us.GetByEmail("ana@x.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Fatalf("get by email = %+v, want id %d", got, u.ID)
	}

	byID, err := us.GetByID(u.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID == nil || byID.Email != "ana@x.com" {
		t.Errorf("get by id = %+v", byID)
	}
}

func TestUserGetMissing(t *testing.T) {
	db := testStores(t)
	us := NewUserStore(db)

	u, err := us.GetByEmail("nobody@x.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil for unknown email, got %+v", u)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	db := testStores(t)
	us := NewUserStore(db)

	createTestUser(t, us, "dup@x.com")
	if _, err := us.Create("Other", "dup@x.com", "hash", "user"); err == nil {
		t.Error("expected unique violation for duplicate email")
	}
}
