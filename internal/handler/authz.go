package handler

import (
	"context"
	"net/http"

	"github.com/natan23f3/finfam/internal/auth"
	"github.com/natan23f3/finfam/internal/model"
)

// accessDecision is the outcome of the family-scoped authorization
// rule. A zero status means access is granted.
type accessDecision struct {
	status  int
	message string
}

func (d accessDecision) allowed() bool { return d.status == 0 }

var accessGranted = accessDecision{}

// checkFamilyAccess evaluates the per-request authorization rule
// against the database, so the decision always reflects current
// ownership:
//
//  1. no authenticated user → 401
//  2. missing/invalid family id → 400
//  3. system-wide admin → allow
//  4. the family's admin → allow
//  5. a family member → allow reads only
//  6. otherwise → 403
func checkFamilyAccess(ctx context.Context, families FamilyStore, familyID int64, write bool) (accessDecision, error) {
	ac, ok := auth.FromContext(ctx)
	if !ok {
		return accessDecision{http.StatusUnauthorized, "authentication required"}, nil
	}
	if familyID <= 0 {
		return accessDecision{http.StatusBadRequest, "family id is required"}, nil
	}
	if ac.Role == model.RoleAdmin {
		return accessGranted, nil
	}

	family, err := families.GetByID(familyID)
	if err != nil {
		return accessDecision{}, err
	}
	// Unknown families deny like foreign ones; existence is not leaked
	if family == nil {
		return accessDecision{http.StatusForbidden, "access denied"}, nil
	}
	if family.AdminID == ac.UserID {
		return accessGranted, nil
	}

	if !write {
		member, err := families.GetMember(familyID, ac.UserID)
		if err != nil {
			return accessDecision{}, err
		}
		if member != nil {
			return accessGranted, nil
		}
	}

	return accessDecision{http.StatusForbidden, "access denied"}, nil
}
