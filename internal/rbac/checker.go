package rbac

import (
	"context"
	"strings"

	"github.com/hrviet/daotao/internal/exam"
)

type Checker struct {
	RolePermissions map[string][]string
}

func NewChecker(rp map[string][]string) *Checker {
	if rp == nil {
		rp = RolePermissions
	}
	return &Checker{RolePermissions: rp}
}

func (c *Checker) Has(role, perm string) bool {
	perms, ok := c.RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == "*" || matchPerm(p, perm) {
			return true
		}
	}
	return false
}

func (c *Checker) Any(role string, perms ...string) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

func matchPerm(pattern, perm string) bool {
	if pattern == "*" || pattern == perm {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(perm, strings.TrimSuffix(pattern, "*"))
	}
	return false
}

// ---- organizational visibility ----

// Placement locates an employee in the org hierarchy.
type Placement struct {
	DepartmentID string
	UnitID       string
	TeamID       string
}

// Directory resolves an employee id to its placement. The second return is
// false for unknown employees.
type Directory interface {
	Placement(employeeID string) (Placement, bool)
}

// AttemptAccess builds the visibility predicate consumed by the engine:
// admins and top rank see everything; rank 2 the same department; rank 3 the
// same unit; ranks 4-6 the same team; everyone else only their own attempts
// (which the engine grants before consulting the predicate).
func AttemptAccess(dir Directory) exam.AccessFunc {
	return func(a exam.Attempt, actor exam.Actor) bool {
		if actor.Role == "admin" || actor.Rank == 1 {
			return true
		}
		owner, ok := dir.Placement(a.ExamineeID)
		if !ok {
			return false
		}
		switch actor.Rank {
		case 2:
			return owner.DepartmentID != "" && owner.DepartmentID == actor.DepartmentID
		case 3:
			return owner.UnitID != "" && owner.UnitID == actor.UnitID
		case 4, 5, 6:
			return owner.TeamID != "" && owner.TeamID == actor.TeamID
		default:
			return false
		}
	}
}

// StaticDirectory is a map-backed Directory for offline mode and tests.
type StaticDirectory map[string]Placement

func (d StaticDirectory) Placement(employeeID string) (Placement, bool) {
	p, ok := d[employeeID]
	return p, ok
}

// ---- actor in context ----

type ctxKey struct{}

var ctxKeyActor = ctxKey{}

func WithActor(ctx context.Context, a exam.Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, a)
}

func ActorFromContext(ctx context.Context) (exam.Actor, bool) {
	a, ok := ctx.Value(ctxKeyActor).(exam.Actor)
	return a, ok
}
