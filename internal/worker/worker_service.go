package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-attendance/internal/audit"
	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/scope"
	"go-attendance/internal/shared/contextutil"
	workererrors "go-attendance/internal/worker/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const WorkerOptionsKeyPrefix = "workers:options:"

func GetWorkerOptionsKey(areaID string) string {
	return WorkerOptionsKeyPrefix + areaID
}

//go:generate mockgen -source=worker_service.go -destination=mock/worker_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor scope.Actor, req CreateWorkerRequest) (WorkerResponse, error)
	GetAll(ctx context.Context, actor scope.Actor) ([]WorkerResponse, error)
	GetOptions(ctx context.Context, actor scope.Actor, areaID string) ([]WorkerResponse, error)
	GetByID(ctx context.Context, actor scope.Actor, id string) (WorkerResponse, error)
	Update(ctx context.Context, actor scope.Actor, id string, req UpdateWorkerRequest) (WorkerResponse, error)
	Delete(ctx context.Context, actor scope.Actor, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	auditRepo audit.Repository
	outbox    kafka.OutboxRepository
	rdb       *redis.Client
	sf        *singleflight.Group
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	auditRepo audit.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("worker.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("worker.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		auditRepo: auditRepo,
		outbox:    outboxRepo,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actor scope.Actor, req CreateWorkerRequest) (WorkerResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create worker requested",
		zap.String("request_id", rid),
		zap.String("worker_id", req.ID),
		zap.String("area_id", req.AreaID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create worker begin tx failed", zap.Error(err))
		return WorkerResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsByID(ctx, req.ID)
	if err != nil {
		return WorkerResponse{}, err
	}
	if exists {
		return WorkerResponse{}, workererrors.ErrDuplicateWorkerID
	}

	areaOK, err := qtx.AreaExists(ctx, req.AreaID)
	if err != nil {
		return WorkerResponse{}, err
	}
	if !areaOK {
		return WorkerResponse{}, workererrors.ErrAreaNotFound
	}
	if !actor.Scope.Contains(req.AreaID) {
		return WorkerResponse{}, workererrors.ErrWorkerOutOfScope
	}

	w := &Worker{
		ID:          req.ID,
		Name:        req.Name,
		AreaID:      uuid.MustParse(req.AreaID),
		DayValue:    req.DayValue,
		BaseSalary:  req.BaseSalary,
		Nationality: req.Nationality,
	}

	if err := qtx.Create(ctx, w); err != nil {
		s.logger.Error("create worker persist failed", zap.Error(err))
		return WorkerResponse{}, err
	}
	if err := s.writeSideEffects(ctx, tx, audit.ActionInsert, actor, w, rid); err != nil {
		return WorkerResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return WorkerResponse{}, err
	}
	s.invalidateOptions(ctx, req.AreaID)
	s.logger.Info("create worker success", zap.String("worker_id", w.ID))
	return mapToResponse(*w), nil
}

func (s *service) GetAll(ctx context.Context, actor scope.Actor) ([]WorkerResponse, error) {
	workers, err := s.repo.FindAll(ctx, actor.Scope)
	if err != nil {
		return nil, err
	}

	resp := make([]WorkerResponse, 0, len(workers))
	for _, w := range workers {
		if !scope.MatchesNationality(actor.Nationality, w.Nationality) {
			continue
		}
		resp = append(resp, mapToResponse(w))
	}
	return resp, nil
}

// GetOptions serves the per-area picker list through redis, with
// singleflight collapsing concurrent cache misses.
func (s *service) GetOptions(ctx context.Context, actor scope.Actor, areaID string) ([]WorkerResponse, error) {
	if !actor.Scope.Contains(areaID) {
		return nil, workererrors.ErrWorkerOutOfScope
	}

	key := GetWorkerOptionsKey(areaID)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp []WorkerResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		workers, err := s.repo.FindAll(ctx, scope.Set{AreaIDs: []string{areaID}})
		if err != nil {
			return nil, err
		}
		resp := make([]WorkerResponse, len(workers))
		for i, w := range workers {
			resp[i] = mapToResponse(w)
		}
		if s.rdb != nil {
			if raw, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, key, raw, 10*time.Minute)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]WorkerResponse), nil
}

func (s *service) GetByID(ctx context.Context, actor scope.Actor, id string) (WorkerResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WorkerResponse{}, workererrors.ErrWorkerNotFound
		}
		return WorkerResponse{}, err
	}
	if !actor.Scope.Contains(w.AreaID.String()) ||
		!scope.MatchesNationality(actor.Nationality, w.Nationality) {
		return WorkerResponse{}, workererrors.ErrWorkerOutOfScope
	}
	return mapToResponse(*w), nil
}

func (s *service) Update(ctx context.Context, actor scope.Actor, id string, req UpdateWorkerRequest) (WorkerResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WorkerResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	w, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WorkerResponse{}, workererrors.ErrWorkerNotFound
		}
		return WorkerResponse{}, err
	}
	if !actor.Scope.Contains(w.AreaID.String()) {
		return WorkerResponse{}, workererrors.ErrWorkerOutOfScope
	}

	areaOK, err := qtx.AreaExists(ctx, req.AreaID)
	if err != nil {
		return WorkerResponse{}, err
	}
	if !areaOK {
		return WorkerResponse{}, workererrors.ErrAreaNotFound
	}

	previousAreaID := w.AreaID.String()
	w.Name = req.Name
	w.AreaID = uuid.MustParse(req.AreaID)
	w.DayValue = req.DayValue
	w.BaseSalary = req.BaseSalary
	w.Nationality = req.Nationality
	w.Area = nil

	if err := qtx.Update(ctx, w); err != nil {
		s.logger.Error("update worker persist failed", zap.String("worker_id", id), zap.Error(err))
		return WorkerResponse{}, err
	}
	if err := s.writeSideEffects(ctx, tx, audit.ActionUpdate, actor, w, rid); err != nil {
		return WorkerResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return WorkerResponse{}, err
	}
	s.invalidateOptions(ctx, previousAreaID, req.AreaID)
	s.logger.Info("update worker success", zap.String("worker_id", id))
	return mapToResponse(*w), nil
}

func (s *service) Delete(ctx context.Context, actor scope.Actor, id string) error {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	w, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return workererrors.ErrWorkerNotFound
		}
		return err
	}
	if !actor.Scope.Contains(w.AreaID.String()) {
		return workererrors.ErrWorkerOutOfScope
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.writeSideEffects(ctx, tx, audit.ActionDelete, actor, w, rid); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.invalidateOptions(ctx, w.AreaID.String())
	s.logger.Info("delete worker success", zap.String("worker_id", id))
	return nil
}

// writeSideEffects appends the audit entry and the workers-changed
// outbox row inside the mutation transaction.
func (s *service) writeSideEffects(
	ctx context.Context,
	tx *sql.Tx,
	action string,
	actor scope.Actor,
	w *Worker,
	requestID string,
) error {
	if err := s.auditRepo.WithTx(tx).Create(ctx,
		audit.NewEntry(action, w.TableName(), w.ID, actor.UserID, w),
	); err != nil {
		return err
	}
	if s.outbox == nil {
		return nil
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.NewChangeEvent(events.FamilyWorkers, w.ID, requestID))
}

func (s *service) invalidateOptions(ctx context.Context, areaIDs ...string) {
	if s.rdb == nil {
		return
	}
	for _, id := range areaIDs {
		if id == "" {
			continue
		}
		s.rdb.Del(ctx, GetWorkerOptionsKey(id))
	}
}

func mapToResponse(w Worker) WorkerResponse {
	resp := WorkerResponse{
		ID:          w.ID,
		Name:        w.Name,
		AreaID:      w.AreaID.String(),
		DayValue:    w.DayValue,
		BaseSalary:  w.BaseSalary,
		Nationality: w.Nationality,
	}
	if w.Area != nil {
		resp.AreaName = w.Area.Name
	}
	return resp
}
