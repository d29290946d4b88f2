package exam

// AccessFunc decides whether an actor may see an attempt. The engine never
// implements the organizational policy itself; it is injected (see
// internal/rbac for the reference rank-based implementation).
type AccessFunc func(a Attempt, actor Actor) bool

// FilterAttempts keeps only attempts the actor may access. A nil predicate
// denies everything but the actor's own attempts.
func FilterAttempts(list []Attempt, actor Actor, can AccessFunc) []Attempt {
	out := make([]Attempt, 0, len(list))
	for _, a := range list {
		if a.ExamineeID == actor.EmployeeID {
			out = append(out, a)
			continue
		}
		if can != nil && can(a, actor) {
			out = append(out, a)
		}
	}
	return out
}
