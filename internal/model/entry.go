package model

import "time"

// Entry is the shared shape of budgets and expenses: a per-family,
// per-category monetary record. Value is in minor currency units
// (cents), so 500.00 is stored as 50000.
type Entry struct {
	ID        int64     `db:"id" json:"id"`
	FamilyID  int64     `db:"family_id" json:"family_id"`
	Category  string    `db:"category" json:"category"`
	Value     int64     `db:"value" json:"value"`
	Date      time.Time `db:"date" json:"date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
