package rbac

// EnforceRequest asks whether a role may perform an action on a
// resource. Authorization is purely role-based; area scoping is applied
// later by the services.
type EnforceRequest struct {
	Role     string
	Resource string
	Action   string
}
