package user

import (
	"context"
	"database/sql"
	"errors"

	"go-attendance/internal/area"
	"go-attendance/internal/audit"
	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/scope"
	"go-attendance/internal/shared/contextutil"
	usererrors "go-attendance/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	Update(ctx context.Context, actor scope.Actor, id string, req UpdateUserRequest) (UserResponse, error)
	SetAreas(ctx context.Context, actor scope.Actor, id string, req SetAreasRequest) (UserResponse, error)
	SetActive(ctx context.Context, actor scope.Actor, id string, active bool) (UserResponse, error)
	Delete(ctx context.Context, actor scope.Actor, id string) error
	UnsupervisedAreas(ctx context.Context, actor scope.Actor) ([]area.AreaResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	areaRepo  area.Repository
	auditRepo audit.Repository
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	areaRepo area.Repository,
	auditRepo audit.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		areaRepo:  areaRepo,
		auditRepo: auditRepo,
		outbox:    outboxRepo,
		logger:    l,
	}
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	u, err := s.findUser(ctx, s.repo, id)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, actor scope.Actor, id string, req UpdateUserRequest) (UserResponse, error) {
	if !scope.ValidRole(scope.Role(req.Role)) {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	u, err := s.findUser(ctx, qtx, id)
	if err != nil {
		return UserResponse{}, err
	}

	u.Name = req.Name
	u.Role = req.Role
	u.Nationality = req.Nationality

	if err := s.persist(ctx, tx, qtx, audit.ActionUpdate, actor, u); err != nil {
		return UserResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}
	s.logger.Info("update user success", zap.String("user_id", id), zap.String("role", u.Role))
	return mapToResponse(*u), nil
}

// SetAreas replaces the whole area assignment: primary plus the
// additional list, in one operation.
func (s *service) SetAreas(ctx context.Context, actor scope.Actor, id string, req SetAreasRequest) (UserResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	u, err := s.findUser(ctx, qtx, id)
	if err != nil {
		return UserResponse{}, err
	}

	for _, areaID := range append([]string{req.AreaID}, req.ExtraAreas...) {
		if areaID == "" || areaID == scope.AreaAll {
			continue
		}
		ok, err := qtx.AreaExists(ctx, areaID)
		if err != nil {
			return UserResponse{}, err
		}
		if !ok {
			return UserResponse{}, usererrors.ErrInvalidAreaAssignment
		}
	}

	u.AreaID = req.AreaID
	u.SetExtraAreaIDs(req.ExtraAreas)

	if err := s.persist(ctx, tx, qtx, audit.ActionUpdate, actor, u); err != nil {
		return UserResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}
	s.logger.Info("set user areas success",
		zap.String("user_id", id),
		zap.String("area_id", req.AreaID),
		zap.Int("extra_areas", len(req.ExtraAreas)),
	)
	return mapToResponse(*u), nil
}

func (s *service) SetActive(ctx context.Context, actor scope.Actor, id string, active bool) (UserResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	u, err := s.findUser(ctx, qtx, id)
	if err != nil {
		return UserResponse{}, err
	}

	u.IsActive = active

	if err := s.persist(ctx, tx, qtx, audit.ActionUpdate, actor, u); err != nil {
		return UserResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}
	s.logger.Info("set user active success", zap.String("user_id", id), zap.Bool("active", active))
	return mapToResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, actor scope.Actor, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	u, err := s.findUser(ctx, qtx, id)
	if err != nil {
		return err
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.sideEffects(ctx, tx, audit.ActionDelete, actor, u); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("delete user success", zap.String("user_id", id))
	return nil
}

// UnsupervisedAreas answers "which in-scope areas have no active field
// supervisor", the prioritization query shared by several surfaces.
func (s *service) UnsupervisedAreas(ctx context.Context, actor scope.Actor) ([]area.AreaResponse, error) {
	areas, err := s.areaRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]area.Area, len(areas))
	ids := make([]string, len(areas))
	for i, a := range areas {
		ids[i] = a.ID.String()
		byID[a.ID.String()] = a
	}
	claims := make([]scope.AreaClaim, len(users))
	for i := range users {
		claims[i] = users[i].Claim()
	}

	unsupervised := scope.UnsupervisedAreas(actor.Scope, ids, claims)
	resp := make([]area.AreaResponse, len(unsupervised))
	for i, id := range unsupervised {
		resp[i] = area.AreaResponse{ID: id, Name: byID[id].Name}
	}
	return resp, nil
}

func (s *service) findUser(ctx context.Context, repo Repository, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}
	u, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *service) persist(ctx context.Context, tx *sql.Tx, qtx Repository, action string, actor scope.Actor, u *User) error {
	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("persist user failed", zap.String("user_id", u.ID.String()), zap.Error(err))
		return err
	}
	return s.sideEffects(ctx, tx, action, actor, u)
}

func (s *service) sideEffects(ctx context.Context, tx *sql.Tx, action string, actor scope.Actor, u *User) error {
	snapshot := *u
	snapshot.Password = ""
	if err := s.auditRepo.WithTx(tx).Create(ctx,
		audit.NewEntry(action, u.TableName(), u.ID.String(), actor.UserID, snapshot),
	); err != nil {
		return err
	}
	if s.outbox == nil {
		return nil
	}
	rid := contextutil.GetRequestID(ctx)
	return s.outbox.WithTx(tx).Create(ctx, kafka.NewChangeEvent(events.FamilyUsers, u.ID.String(), rid))
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		AreaID:      u.AreaID,
		ExtraAreas:  u.ExtraAreaIDs(),
		Nationality: u.Nationality,
		IsActive:    u.IsActive,
	}
}
