// Package summary computes the per-category aggregates the dashboard
// renders: planned vs. actual spend and percent used, grouped by the
// category strings budgets and expenses share.
package summary

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/natan23f3/finfam/internal/model"
)

// Category aggregates one category's budget and spend. Monetary
// amounts are in minor units, matching the stored rows.
type Category struct {
	Category    string  `json:"category"`
	Budget      int64   `json:"budget"`
	Spent       int64   `json:"spent"`
	Remaining   int64   `json:"remaining"`
	PercentUsed float64 `json:"percent_used"`
}

// Family is the full aggregate for one family, optionally filtered to
// a single month by the caller.
type Family struct {
	FamilyID    int64      `json:"family_id"`
	Month       string     `json:"month,omitempty"`
	Categories  []Category `json:"categories"`
	Budget      int64      `json:"budget"`
	Spent       int64      `json:"spent"`
	Remaining   int64      `json:"remaining"`
	PercentUsed float64    `json:"percent_used"`
}

// Compute groups budgets and expenses by category and derives totals.
// Categories are sorted alphabetically so responses are stable.
func Compute(familyID int64, month string, budgets, expenses []model.Entry) Family {
	type bucket struct {
		budget int64
		spent  int64
	}
	buckets := make(map[string]*bucket)

	get := func(category string) *bucket {
		b, ok := buckets[category]
		if !ok {
			b = &bucket{}
			buckets[category] = b
		}
		return b
	}

	for _, e := range budgets {
		get(e.Category).budget += e.Value
	}
	for _, e := range expenses {
		get(e.Category).spent += e.Value
	}

	out := Family{
		FamilyID:   familyID,
		Month:      month,
		Categories: make([]Category, 0, len(buckets)),
	}
	for category, b := range buckets {
		out.Categories = append(out.Categories, Category{
			Category:    category,
			Budget:      b.budget,
			Spent:       b.spent,
			Remaining:   b.budget - b.spent,
			PercentUsed: percentUsed(b.spent, b.budget),
		})
		out.Budget += b.budget
		out.Spent += b.spent
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		return out.Categories[i].Category < out.Categories[j].Category
	})

	out.Remaining = out.Budget - out.Spent
	out.PercentUsed = percentUsed(out.Spent, out.Budget)
	return out
}

// percentUsed returns spent/budget as a percentage rounded to two
// decimals. A zero budget yields 0 rather than a division error, so
// unbudgeted categories render as untracked instead of infinite.
func percentUsed(spent, budget int64) float64 {
	if budget == 0 {
		return 0
	}
	pct := decimal.NewFromInt(spent).
		Div(decimal.NewFromInt(budget)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	f, _ := pct.Float64()
	return f
}
