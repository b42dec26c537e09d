package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-attendance/internal/scope"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByKey(ctx context.Context, key RecordKey) (*Record, error)
	Upsert(ctx context.Context, rec *Record) error
	UpdateStatus(ctx context.Context, key RecordKey, status Status, reason *string) error
	ListForPeriod(ctx context.Context, month, year int, s scope.Set, nationality string) ([]Record, error)
	FindWorkerRef(ctx context.Context, workerID string) (*WorkerRef, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn binds queries to the surrounding transaction when one is open.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{NewDB: true}).WithContext(ctx)
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) FindByKey(ctx context.Context, key RecordKey) (*Record, error) {
	var rec Record
	err := r.conn(ctx).
		Preload("Worker").
		Preload("Worker.Area").
		First(&rec, "worker_id = ? AND month = ? AND year = ?", key.WorkerID, key.Month, key.Year).
		Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Upsert inserts or replaces the record identified by its composite
// key. Replaying the same submission converges on one row.
func (r *repository) Upsert(ctx context.Context, rec *Record) error {
	rec.Worker = nil
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "worker_id"}, {Name: "month"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"normal_days", "overtime_days", "holiday_days", "festival_days",
				"day_total", "status", "rejection_reason", "updated_at",
			}),
		}).
		Create(rec).Error
}

func (r *repository) UpdateStatus(ctx context.Context, key RecordKey, status Status, reason *string) error {
	res := r.conn(ctx).
		Model(&Record{}).
		Where("worker_id = ? AND month = ? AND year = ?", key.WorkerID, key.Month, key.Year).
		Updates(map[string]any{
			"status":           status,
			"rejection_reason": reason,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListForPeriod(ctx context.Context, month, year int, s scope.Set, nationality string) ([]Record, error) {
	q := r.conn(ctx).
		Model(&Record{}).
		Joins("JOIN workers ON workers.id = attendance_records.worker_id").
		Where("attendance_records.month = ? AND attendance_records.year = ?", month, year).
		Scopes(scope.AreaFilterOn(s, "workers.area_id"))
	if nationality != "" && nationality != scope.NationalityAll {
		q = q.Where("workers.nationality = ?", nationality)
	}

	var recs []Record
	err := q.
		Preload("Worker").
		Preload("Worker.Area").
		Order("attendance_records.worker_id ASC").
		Find(&recs).Error
	return recs, err
}

func (r *repository) FindWorkerRef(ctx context.Context, workerID string) (*WorkerRef, error) {
	var ref WorkerRef
	err := r.conn(ctx).
		Preload("Area").
		First(&ref, "id = ?", workerID).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}
