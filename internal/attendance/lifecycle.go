package attendance

import (
	attendanceerrors "go-attendance/internal/attendance/errors"
	"go-attendance/internal/scope"
)

// Status is one of the eight points in the approval lifecycle.
type Status string

const (
	StatusPendingSupervisor Status = "PENDING_SUPERVISOR"
	StatusPendingGS         Status = "PENDING_GS"
	StatusPendingHealth     Status = "PENDING_HEALTH"
	StatusPendingHR         Status = "PENDING_HR"
	StatusPendingAudit      Status = "PENDING_AUDIT"
	StatusPendingFinance    Status = "PENDING_FINANCE"
	StatusPendingPayroll    Status = "PENDING_PAYROLL"
	StatusApproved          Status = "APPROVED"
)

// stageRule names the single role that holds a record at a status, the
// one-step forward target, and the explicit rejection target. Rejection
// targets are not a uniform "one step back": each role returns the
// record to a named earlier stage, and this table is the single source
// of truth for that routing.
type stageRule struct {
	Actor    scope.Role
	Next     Status
	RejectTo Status
}

var stageRules = map[Status]stageRule{
	StatusPendingSupervisor: {Actor: scope.RoleSupervisor, Next: StatusPendingGS},
	StatusPendingGS:         {Actor: scope.RoleGeneralSupervisor, Next: StatusPendingHealth, RejectTo: StatusPendingSupervisor},
	StatusPendingHealth:     {Actor: scope.RoleHealthDirector, Next: StatusPendingHR, RejectTo: StatusPendingGS},
	StatusPendingHR:         {Actor: scope.RoleHR, Next: StatusPendingAudit, RejectTo: StatusPendingGS},
	StatusPendingAudit:      {Actor: scope.RoleInternalAudit, Next: StatusPendingFinance, RejectTo: StatusPendingHR},
	StatusPendingFinance:    {Actor: scope.RoleFinance, Next: StatusPendingPayroll, RejectTo: StatusPendingHR},
	StatusPendingPayroll:    {Actor: scope.RolePayroll, Next: StatusApproved, RejectTo: StatusPendingFinance},
}

func ValidStatus(s Status) bool {
	if s == StatusApproved {
		return true
	}
	_, ok := stageRules[s]
	return ok
}

// CreationStatus is the status a freshly submitted month starts at.
// Submission satisfies the supervisor's own review step, so records
// start at PENDING_GS. A general supervisor submitting would otherwise
// review their own submission at the very next stage; the lifecycle
// short-circuits that by starting one step further.
func CreationStatus(role scope.Role) (Status, error) {
	switch role {
	case scope.RoleSupervisor, scope.RoleAdmin:
		return StatusPendingGS, nil
	case scope.RoleGeneralSupervisor:
		return StatusPendingHealth, nil
	default:
		return "", attendanceerrors.ErrNotPermitted
	}
}

// ForwardTarget returns the one-step forward status, or an
// authorization error when the role does not hold the current stage.
func ForwardTarget(current Status, role scope.Role) (Status, error) {
	rule, ok := stageRules[current]
	if !ok {
		return "", attendanceerrors.ErrNotPermitted
	}
	if rule.Actor != role {
		return "", attendanceerrors.ErrNotPermitted
	}
	return rule.Next, nil
}

// RejectTarget returns the stage a rejection routes back to.
func RejectTarget(current Status, role scope.Role) (Status, error) {
	rule, ok := stageRules[current]
	if !ok {
		return "", attendanceerrors.ErrNotPermitted
	}
	if rule.Actor != role || rule.RejectTo == "" {
		return "", attendanceerrors.ErrNotPermitted
	}
	return rule.RejectTo, nil
}

// ReopenTarget is the administrative override: the only transition out
// of the terminal status, returning an approved record to finance
// before disbursement. It is deliberately narrower than the forward
// table and stays ADMIN-only.
func ReopenTarget(current Status, role scope.Role) (Status, error) {
	if current != StatusApproved || role != scope.RoleAdmin {
		return "", attendanceerrors.ErrNotPermitted
	}
	return StatusPendingFinance, nil
}

// Editable reports whether raw figures may still be changed: only
// before the first review, or after a rejection back to the field
// supervisor.
func Editable(current Status) bool {
	return current == StatusPendingSupervisor || current == StatusPendingGS
}
