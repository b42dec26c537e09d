package rbac

import (
	"sync"

	"go-attendance/internal/scope"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy() error
	Enforce(req EnforceRequest) (bool, error)
}

// permission grants one resource/action pair to a set of roles.
type permission struct {
	Resource string
	Action   string
	Roles    []scope.Role
}

var reviewRoles = []scope.Role{
	scope.RoleGeneralSupervisor,
	scope.RoleHealthDirector,
	scope.RoleHR,
	scope.RoleInternalAudit,
	scope.RoleFinance,
	scope.RolePayroll,
}

// permissionTable is the route-level grant matrix. It deliberately
// stays coarser than the attendance lifecycle: "decide" only opens the
// endpoint, the stage table still refuses roles that do not hold the
// record's current stage.
var permissionTable = []permission{
	{Resource: "worker", Action: "read", Roles: scope.AllRoles()},
	{Resource: "worker", Action: "write", Roles: []scope.Role{scope.RoleHR, scope.RoleAdmin}},
	{Resource: "area", Action: "read", Roles: scope.AllRoles()},
	{Resource: "area", Action: "write", Roles: []scope.Role{scope.RoleHR, scope.RoleAdmin}},
	{Resource: "user", Action: "read", Roles: []scope.Role{scope.RoleHR, scope.RoleAdmin}},
	{Resource: "user", Action: "write", Roles: []scope.Role{scope.RoleAdmin}},
	{Resource: "attendance", Action: "read", Roles: scope.AllRoles()},
	{Resource: "attendance", Action: "save", Roles: []scope.Role{scope.RoleSupervisor, scope.RoleGeneralSupervisor, scope.RoleAdmin}},
	{Resource: "attendance", Action: "decide", Roles: reviewRoles},
	{Resource: "attendance", Action: "reopen", Roles: []scope.Role{scope.RoleAdmin}},
	{Resource: "audit", Action: "read", Roles: scope.AllRoles()},
}

type service struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{enforcer: enforcer, logger: l}
}

// LoadPolicy seeds the enforcer from the built-in grant matrix.
func (s *service) LoadPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()
	for _, p := range permissionTable {
		for _, role := range p.Roles {
			if _, err := s.enforcer.AddPolicy(string(role), p.Resource, p.Action); err != nil {
				return err
			}
		}
	}
	s.logger.Info("rbac policy loaded", zap.Int("permissions", len(permissionTable)))
	return nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}
	s.logger.Debug("rbac enforce result",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
