package model

import "time"

const (
	MemberRoleAdmin  = "admin"
	MemberRoleMember = "member"
)

type Family struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	AdminID   int64     `db:"admin_id" json:"admin_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type FamilyMember struct {
	ID        int64     `db:"id" json:"id"`
	FamilyID  int64     `db:"family_id" json:"family_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
