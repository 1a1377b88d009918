package handler

import (
	"time"

	"github.com/natan23f3/finfam/internal/model"
)

// Store interfaces consumed by the handlers. The concrete types in
// internal/store satisfy them; tests substitute fakes.

type UserStore interface {
	Create(name, email, passwordHash, role string) (*model.User, error)
	GetByID(id int64) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
}

type SessionStore interface {
	Create(userID int64, ttl time.Duration) (*model.Session, error)
	Delete(id int64) error
}

type FamilyStore interface {
	Create(name string, adminID int64) (*model.Family, error)
	GetByID(id int64) (*model.Family, error)
	ListForUser(userID int64) ([]model.Family, error)
	AddMember(familyID, userID int64, role string) (*model.FamilyMember, error)
	RemoveMember(familyID, userID int64) error
	GetMember(familyID, userID int64) (*model.FamilyMember, error)
	ListMembers(familyID int64) ([]model.FamilyMember, error)
}

type EntryStore interface {
	Create(familyID int64, category string, value int64, date time.Time) (*model.Entry, error)
	GetByID(id int64) (*model.Entry, error)
	ListByFamily(familyID int64) ([]model.Entry, error)
	ListByFamilyMonth(familyID int64, monthStart time.Time) ([]model.Entry, error)
	Update(id, familyID int64, category string, value int64, date time.Time) (*model.Entry, error)
	Delete(id, familyID int64) (bool, error)
}
