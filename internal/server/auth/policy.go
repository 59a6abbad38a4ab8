package auth

// Role names used by the seeded accounts and the API-key scheme.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Policy names referenced by route registrations.
const (
	// PolicyAdmin is satisfied by the Admin role only.
	PolicyAdmin = "admin"
	// PolicyUser is satisfied by either Admin or User.
	PolicyUser = "user"
)

// Evaluator maps policy names to the flat role sets that satisfy them.
// Policies are static; the evaluator is read-only after construction.
type Evaluator struct {
	policies map[string][]string
}

func NewEvaluator() *Evaluator {
	return &Evaluator{policies: map[string][]string{
		PolicyAdmin: {RoleAdmin},
		PolicyUser:  {RoleAdmin, RoleUser},
	}}
}

// Evaluate allows the identity when its role set intersects the policy's
// accepted set. Unknown policies and nil identities always deny.
func (e *Evaluator) Evaluate(policy string, id *Identity) bool {
	if id == nil {
		return false
	}
	for _, role := range e.policies[policy] {
		if id.HasRole(role) {
			return true
		}
	}
	return false
}
