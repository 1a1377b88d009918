package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/natan23f3/finfam/internal/model"
)

type FamilyStore struct {
	db *sqlx.DB
}

func NewFamilyStore(db *sqlx.DB) *FamilyStore {
	return &FamilyStore{db: db}
}

const familyCols = `id, name, admin_id, created_at, updated_at`
const familyMemberCols = `id, family_id, user_id, role, created_at, updated_at`

// Create inserts a family and its admin membership row in one
// transaction, so a family never exists without its admin member.
func (s *FamilyStore) Create(name string, adminID int64) (*model.Family, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var f model.Family
	err = tx.Get(&f,
		`INSERT INTO families (name, admin_id) VALUES ($1, $2) RETURNING `+familyCols,
		name, adminID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert family: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO family_members (family_id, user_id, role) VALUES ($1, $2, $3)`,
		f.ID, adminID, model.MemberRoleAdmin,
	); err != nil {
		return nil, fmt.Errorf("insert admin member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &f, nil
}

func (s *FamilyStore) GetByID(id int64) (*model.Family, error) {
	var f model.Family
	err := s.db.Get(&f, `SELECT `+familyCols+` FROM families WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	return &f, nil
}

// ListForUser returns every family the user administers or belongs to.
func (s *FamilyStore) ListForUser(userID int64) ([]model.Family, error) {
	var families []model.Family
	err := s.db.Select(&families,
		`SELECT DISTINCT f.id, f.name, f.admin_id, f.created_at, f.updated_at
		 FROM families f
		 LEFT JOIN family_members fm ON f.id = fm.family_id
		 WHERE f.admin_id = $1 OR fm.user_id = $1
		 ORDER BY f.name ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list families for user: %w", err)
	}
	return families, nil
}

func (s *FamilyStore) AddMember(familyID, userID int64, role string) (*model.FamilyMember, error) {
	var m model.FamilyMember
	err := s.db.Get(&m,
		`INSERT INTO family_members (family_id, user_id, role)
		 VALUES ($1, $2, $3)
		 RETURNING `+familyMemberCols,
		familyID, userID, role,
	)
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return &m, nil
}

func (s *FamilyStore) RemoveMember(familyID, userID int64) error {
	_, err := s.db.Exec(
		`DELETE FROM family_members WHERE family_id = $1 AND user_id = $2`,
		familyID, userID,
	)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *FamilyStore) GetMember(familyID, userID int64) (*model.FamilyMember, error) {
	var m model.FamilyMember
	err := s.db.Get(&m,
		`SELECT `+familyMemberCols+` FROM family_members WHERE family_id = $1 AND user_id = $2`,
		familyID, userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return &m, nil
}

func (s *FamilyStore) ListMembers(familyID int64) ([]model.FamilyMember, error) {
	var members []model.FamilyMember
	err := s.db.Select(&members,
		`SELECT `+familyMemberCols+` FROM family_members WHERE family_id = $1 ORDER BY created_at ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}
