package area

import (
	"context"
	"database/sql"
	"errors"

	areaerrors "go-attendance/internal/area/errors"
	"go-attendance/internal/audit"
	"go-attendance/internal/scope"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=area_service.go -destination=mock/area_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor scope.Actor, req CreateAreaRequest) (AreaResponse, error)
	GetAll(ctx context.Context, actor scope.Actor) ([]AreaResponse, error)
	GetByID(ctx context.Context, id string) (AreaResponse, error)
	Update(ctx context.Context, actor scope.Actor, id string, req UpdateAreaRequest) (AreaResponse, error)
	Delete(ctx context.Context, actor scope.Actor, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	auditRepo audit.Repository
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, auditRepo audit.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("area.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("area.service")
	}
	return &service{db: db, repo: repo, auditRepo: auditRepo, logger: l}
}

func (s *service) Create(ctx context.Context, actor scope.Actor, req CreateAreaRequest) (AreaResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create area begin tx failed", zap.Error(err))
		return AreaResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dup, err := qtx.CountByName(ctx, req.Name, nil)
	if err != nil {
		return AreaResponse{}, err
	}
	if dup > 0 {
		return AreaResponse{}, areaerrors.ErrDuplicateAreaName
	}

	a := &Area{
		ID:   uuid.New(),
		Name: req.Name,
	}

	if err := qtx.Create(ctx, a); err != nil {
		s.logger.Error("create area persist failed", zap.Error(err))
		return AreaResponse{}, err
	}
	if err := s.auditRepo.WithTx(tx).Create(ctx,
		audit.NewEntry(audit.ActionInsert, a.TableName(), a.ID.String(), actor.UserID, a),
	); err != nil {
		return AreaResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AreaResponse{}, err
	}
	s.logger.Info("create area success", zap.String("area_id", a.ID.String()), zap.String("name", a.Name))
	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context, actor scope.Actor) ([]AreaResponse, error) {
	areas, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]AreaResponse, 0, len(areas))
	for _, a := range areas {
		if !actor.Scope.Contains(a.ID.String()) {
			continue
		}
		resp = append(resp, mapToResponse(a))
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (AreaResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AreaResponse{}, areaerrors.ErrInvalidAreaID
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AreaResponse{}, areaerrors.ErrAreaNotFound
		}
		return AreaResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) Update(ctx context.Context, actor scope.Actor, id string, req UpdateAreaRequest) (AreaResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AreaResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AreaResponse{}, areaerrors.ErrAreaNotFound
		}
		return AreaResponse{}, err
	}

	dup, err := qtx.CountByName(ctx, req.Name, &id)
	if err != nil {
		return AreaResponse{}, err
	}
	if dup > 0 {
		return AreaResponse{}, areaerrors.ErrDuplicateAreaName
	}

	a.Name = req.Name
	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("update area persist failed", zap.String("area_id", id), zap.Error(err))
		return AreaResponse{}, err
	}
	if err := s.auditRepo.WithTx(tx).Create(ctx,
		audit.NewEntry(audit.ActionUpdate, a.TableName(), a.ID.String(), actor.UserID, a),
	); err != nil {
		return AreaResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AreaResponse{}, err
	}
	s.logger.Info("update area success", zap.String("area_id", id), zap.String("name", a.Name))
	return mapToResponse(*a), nil
}

// Delete refuses to remove an area while any worker still references it.
func (s *service) Delete(ctx context.Context, actor scope.Actor, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return areaerrors.ErrAreaNotFound
		}
		return err
	}

	workers, err := qtx.CountWorkers(ctx, id)
	if err != nil {
		return err
	}
	if workers > 0 {
		s.logger.Warn("delete area blocked by assigned workers",
			zap.String("area_id", id),
			zap.Int64("workers", workers),
		)
		return areaerrors.ErrAreaHasWorkers
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.auditRepo.WithTx(tx).Create(ctx,
		audit.NewEntry(audit.ActionDelete, a.TableName(), id, actor.UserID, a),
	); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("delete area success", zap.String("area_id", id))
	return nil
}

func mapToResponse(a Area) AreaResponse {
	return AreaResponse{
		ID:   a.ID.String(),
		Name: a.Name,
	}
}
