package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/natan23f3/finfam/internal/model"
)

// EntryStore reads and writes one of the two entry tables. Budgets and
// expenses share a schema, so a single store parameterized by table
// name serves both.
type EntryStore struct {
	db    *sqlx.DB
	table string
}

func NewBudgetStore(db *sqlx.DB) *EntryStore {
	return &EntryStore{db: db, table: "budgets"}
}

func NewExpenseStore(db *sqlx.DB) *EntryStore {
	return &EntryStore{db: db, table: "expenses"}
}

// Table returns the underlying table name ("budgets" or "expenses").
func (s *EntryStore) Table() string { return s.table }

const entryCols = `id, family_id, category, value, date, created_at, updated_at`

func (s *EntryStore) Create(familyID int64, category string, value int64, date time.Time) (*model.Entry, error) {
	var e model.Entry
	err := s.db.Get(&e,
		fmt.Sprintf(`INSERT INTO %s (family_id, category, value, date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING %s`, s.table, entryCols),
		familyID, category, value, date,
	)
	if err != nil {
		return nil, fmt.Errorf("insert %s row: %w", s.table, err)
	}
	return &e, nil
}

func (s *EntryStore) GetByID(id int64) (*model.Entry, error) {
	var e model.Entry
	err := s.db.Get(&e,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, entryCols, s.table), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s row: %w", s.table, err)
	}
	return &e, nil
}

func (s *EntryStore) ListByFamily(familyID int64) ([]model.Entry, error) {
	var entries []model.Entry
	err := s.db.Select(&entries,
		fmt.Sprintf(`SELECT %s FROM %s WHERE family_id = $1 ORDER BY date DESC, id DESC`, entryCols, s.table),
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	return entries, nil
}

// ListByFamilyMonth returns the family's rows whose date falls inside
// the month starting at monthStart.
func (s *EntryStore) ListByFamilyMonth(familyID int64, monthStart time.Time) ([]model.Entry, error) {
	var entries []model.Entry
	err := s.db.Select(&entries,
		fmt.Sprintf(`SELECT %s FROM %s
		 WHERE family_id = $1 AND date >= $2 AND date < $3
		 ORDER BY date DESC, id DESC`, entryCols, s.table),
		familyID, monthStart, monthStart.AddDate(0, 1, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("list %s by month: %w", s.table, err)
	}
	return entries, nil
}

// Update rewrites a row's mutable fields. The owning family is part of
// the WHERE clause so the mutation cannot outrun the authorization
// check that preceded it; nil is returned when no row matched.
func (s *EntryStore) Update(id, familyID int64, category string, value int64, date time.Time) (*model.Entry, error) {
	var e model.Entry
	err := s.db.Get(&e,
		fmt.Sprintf(`UPDATE %s
		 SET category = $1, value = $2, date = $3, updated_at = now()
		 WHERE id = $4 AND family_id = $5
		 RETURNING %s`, s.table, entryCols),
		category, value, date, id, familyID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update %s row: %w", s.table, err)
	}
	return &e, nil
}

// Delete removes a row, constrained to the family the caller was
// authorized against. Returns false when no row matched.
func (s *EntryStore) Delete(id, familyID int64) (bool, error) {
	res, err := s.db.Exec(
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND family_id = $2`, s.table),
		id, familyID,
	)
	if err != nil {
		return false, fmt.Errorf("delete %s row: %w", s.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
