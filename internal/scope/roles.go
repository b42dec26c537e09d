package scope

// Role is an organizational role held by a user. Each pending attendance
// status names exactly one of these as its current holder.
type Role string

const (
	RoleSupervisor        Role = "SUPERVISOR"
	RoleGeneralSupervisor Role = "GENERAL_SUPERVISOR"
	RoleHealthDirector    Role = "HEALTH_DIRECTOR"
	RoleHR                Role = "HR"
	RoleInternalAudit     Role = "INTERNAL_AUDIT"
	RoleFinance           Role = "FINANCE"
	RolePayroll           Role = "PAYROLL"
	RoleMayor             Role = "MAYOR"
	RoleAdmin             Role = "ADMIN"
)

// AreaAll marks an organization-wide area assignment.
const AreaAll = "ALL"

// NationalityAll is the wildcard for the nationality-handling restriction.
const NationalityAll = "ALL"

var validRoles = map[Role]struct{}{
	RoleSupervisor:        {},
	RoleGeneralSupervisor: {},
	RoleHealthDirector:    {},
	RoleHR:                {},
	RoleInternalAudit:     {},
	RoleFinance:           {},
	RolePayroll:           {},
	RoleMayor:             {},
	RoleAdmin:             {},
}

func ValidRole(r Role) bool {
	_, ok := validRoles[r]
	return ok
}

// AllRoles returns every role in its canonical order.
func AllRoles() []Role {
	return []Role{
		RoleSupervisor,
		RoleGeneralSupervisor,
		RoleHealthDirector,
		RoleHR,
		RoleInternalAudit,
		RoleFinance,
		RolePayroll,
		RoleMayor,
		RoleAdmin,
	}
}
