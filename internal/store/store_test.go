package store

import (
	"os"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/natan23f3/finfam/internal/database"
)

var (
	testDBOnce sync.Once
	testDB     *sqlx.DB
	testDBErr  error
)

// testStores opens the database named by TEST_DATABASE_URL, runs
// migrations, and truncates all tables so each test starts clean.
// Tests are skipped when the variable is unset.
func testStores(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping store integration tests")
	}

	testDBOnce.Do(func() {
		testDB, testDBErr = database.Open(dsn)
	})
	if testDBErr != nil {
		t.Fatalf("open test db: %v", testDBErr)
	}

	_, err := testDB.Exec(`TRUNCATE users, families, family_members, budgets, expenses, sessions RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return testDB
}

func createTestUser(t *testing.T, us *UserStore, email string) int64 {
	t.Helper()
	u, err := us.Create("Test User", email, "$2a$10$hash", "user")
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u.ID
}
