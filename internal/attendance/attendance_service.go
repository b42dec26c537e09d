package attendance

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	attendanceerrors "go-attendance/internal/attendance/errors"
	"go-attendance/internal/audit"
	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/scope"
	"go-attendance/internal/shared/contextutil"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Save(ctx context.Context, actor scope.Actor, req SaveRecordRequest) (RecordResponse, error)
	Approve(ctx context.Context, actor scope.Actor, key RecordKey) (RecordResponse, error)
	Reject(ctx context.Context, actor scope.Actor, key RecordKey, reason string) (RecordResponse, error)
	Reopen(ctx context.Context, actor scope.Actor, key RecordKey) (RecordResponse, error)
	GetByKey(ctx context.Context, actor scope.Actor, key RecordKey) (RecordResponse, error)
	ListForPeriod(ctx context.Context, actor scope.Actor, month, year int) ([]RecordResponse, error)
	ExportCSV(ctx context.Context, actor scope.Actor, month, year int) ([]byte, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	auditRepo audit.Repository
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	auditRepo audit.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		auditRepo: auditRepo,
		outbox:    outboxRepo,
		logger:    l,
	}
}

// Save records the month's figures for one worker. Saving an existing
// record is only possible before the first review or after a rejection
// back to the supervisor, and always restarts the record at the
// submitter's creation stage.
func (s *service) Save(ctx context.Context, actor scope.Actor, req SaveRecordRequest) (RecordResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("save record requested",
		zap.String("request_id", rid),
		zap.String("worker_id", req.WorkerID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
	)

	if err := validateFigures(req); err != nil {
		return RecordResponse{}, err
	}
	status, err := CreationStatus(actor.Role)
	if err != nil {
		return RecordResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("save record begin tx failed", zap.Error(err))
		return RecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ref, err := qtx.FindWorkerRef(ctx, req.WorkerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordResponse{}, attendanceerrors.ErrWorkerNotFound
		}
		return RecordResponse{}, err
	}
	if err := s.checkScope(actor, ref); err != nil {
		return RecordResponse{}, err
	}

	key := RecordKey{WorkerID: req.WorkerID, Month: req.Month, Year: req.Year}
	action := audit.ActionInsert

	existing, err := qtx.FindByKey(ctx, key)
	switch {
	case err == nil:
		if !Editable(existing.Status) {
			return RecordResponse{}, attendanceerrors.ErrRecordLocked
		}
		action = audit.ActionUpdate
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first submission for this worker-month
	default:
		return RecordResponse{}, err
	}

	rec := &Record{
		WorkerID:     req.WorkerID,
		Month:        req.Month,
		Year:         req.Year,
		NormalDays:   req.NormalDays,
		OvertimeDays: req.OvertimeDays,
		HolidayDays:  req.HolidayDays,
		FestivalDays: req.FestivalDays,
		DayTotal:     DayTotal(req.NormalDays, req.OvertimeDays, req.HolidayDays, req.FestivalDays),
		Status:       status,
	}
	if err := qtx.Upsert(ctx, rec); err != nil {
		s.logger.Error("save record persist failed", zap.Error(err))
		return RecordResponse{}, err
	}
	if err := s.writeSideEffects(ctx, tx, action, actor, rec, rid); err != nil {
		return RecordResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RecordResponse{}, err
	}
	s.logger.Info("save record success",
		zap.String("record", key.String()),
		zap.String("status", string(rec.Status)),
	)
	rec.Worker = ref
	return mapToResponse(*rec), nil
}

func (s *service) Approve(ctx context.Context, actor scope.Actor, key RecordKey) (RecordResponse, error) {
	return s.transition(ctx, actor, key, "approve", nil,
		func(current Status) (Status, error) { return ForwardTarget(current, actor.Role) })
}

// Reject sends the record back down the chain. The free-text reason is
// optional; when given it is persisted on the record.
func (s *service) Reject(ctx context.Context, actor scope.Actor, key RecordKey, reason string) (RecordResponse, error) {
	var note *string
	if r := strings.TrimSpace(reason); r != "" {
		note = &r
	}
	return s.transition(ctx, actor, key, "reject", note,
		func(current Status) (Status, error) { return RejectTarget(current, actor.Role) })
}

func (s *service) Reopen(ctx context.Context, actor scope.Actor, key RecordKey) (RecordResponse, error) {
	return s.transition(ctx, actor, key, "reopen", nil,
		func(current Status) (Status, error) { return ReopenTarget(current, actor.Role) })
}

// transition applies one lifecycle move. The target is resolved before
// anything is written, so an unauthorized attempt leaves the record
// untouched.
func (s *service) transition(
	ctx context.Context,
	actor scope.Actor,
	key RecordKey,
	verb string,
	reason *string,
	target func(current Status) (Status, error),
) (RecordResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordResponse{}, attendanceerrors.ErrRecordNotFound
		}
		return RecordResponse{}, err
	}
	if err := s.checkScope(actor, rec.Worker); err != nil {
		return RecordResponse{}, err
	}

	next, err := target(rec.Status)
	if err != nil {
		s.logger.Warn("lifecycle transition refused",
			zap.String("record", key.String()),
			zap.String("verb", verb),
			zap.String("current", string(rec.Status)),
			zap.String("role", string(actor.Role)),
		)
		return RecordResponse{}, err
	}

	// A forward move or reopen clears any lingering rejection note.
	if err := qtx.UpdateStatus(ctx, key, next, reason); err != nil {
		return RecordResponse{}, err
	}
	prev := rec.Status
	rec.Status = next
	rec.RejectionReason = reason

	if err := s.writeSideEffects(ctx, tx, audit.ActionUpdate, actor, rec, rid); err != nil {
		return RecordResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RecordResponse{}, err
	}
	s.logger.Info("lifecycle transition applied",
		zap.String("record", key.String()),
		zap.String("verb", verb),
		zap.String("from", string(prev)),
		zap.String("to", string(next)),
	)
	return mapToResponse(*rec), nil
}

func (s *service) GetByKey(ctx context.Context, actor scope.Actor, key RecordKey) (RecordResponse, error) {
	rec, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordResponse{}, attendanceerrors.ErrRecordNotFound
		}
		return RecordResponse{}, err
	}
	if err := s.checkScope(actor, rec.Worker); err != nil {
		return RecordResponse{}, err
	}
	return mapToResponse(*rec), nil
}

func (s *service) ListForPeriod(ctx context.Context, actor scope.Actor, month, year int) ([]RecordResponse, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	recs, err := s.repo.ListForPeriod(ctx, month, year, actor.Scope, actor.Nationality)
	if err != nil {
		return nil, err
	}
	resp := make([]RecordResponse, len(recs))
	for i, rec := range recs {
		resp[i] = mapToResponse(rec)
	}
	return resp, nil
}

func (s *service) checkScope(actor scope.Actor, ref *WorkerRef) error {
	if ref == nil {
		return attendanceerrors.ErrWorkerNotFound
	}
	if !actor.Scope.Contains(ref.AreaID.String()) {
		return attendanceerrors.ErrWorkerOutOfScope
	}
	if !scope.MatchesNationality(actor.Nationality, ref.Nationality) {
		return attendanceerrors.ErrWorkerOutOfScope
	}
	return nil
}

func (s *service) writeSideEffects(
	ctx context.Context,
	tx *sql.Tx,
	action string,
	actor scope.Actor,
	rec *Record,
	requestID string,
) error {
	snapshot := *rec
	snapshot.Worker = nil
	if err := s.auditRepo.WithTx(tx).Create(ctx,
		audit.NewEntry(action, rec.TableName(), rec.Key().String(), actor.UserID, snapshot),
	); err != nil {
		return err
	}
	if s.outbox == nil {
		return nil
	}
	return s.outbox.WithTx(tx).Create(ctx,
		kafka.NewChangeEvent(events.FamilyAttendance, rec.Key().String(), requestID))
}

func validateFigures(req SaveRecordRequest) error {
	if err := validatePeriod(req.Month, req.Year); err != nil {
		return err
	}
	if req.NormalDays < 0 || req.OvertimeDays < 0 || req.HolidayDays < 0 || req.FestivalDays < 0 {
		return attendanceerrors.ErrNegativeDayCount
	}
	if req.NormalDays > DaysInMonth(req.Month, req.Year) {
		return attendanceerrors.ErrNormalDaysExceedMonth
	}
	return nil
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return attendanceerrors.ErrInvalidPeriod
	}
	return nil
}
