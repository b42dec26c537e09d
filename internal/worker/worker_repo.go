package worker

import (
	"context"
	"database/sql"

	"go-attendance/internal/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=worker_repo.go -destination=mock/worker_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, w *Worker) error
	FindAll(ctx context.Context, s scope.Set) ([]Worker, error)
	FindByID(ctx context.Context, id string) (*Worker, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	AreaExists(ctx context.Context, areaID string) (bool, error)
	Update(ctx context.Context, w *Worker) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, w *Worker) error {
	return r.conn(ctx).Create(w).Error
}

func (r *repository) FindAll(ctx context.Context, s scope.Set) ([]Worker, error) {
	var workers []Worker
	err := r.conn(ctx).
		Scopes(scope.AreaFilter(s)).
		Preload("Area").
		Order("id ASC").
		Find(&workers).Error
	return workers, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Worker, error) {
	var w Worker
	err := r.conn(ctx).
		Preload("Area").
		First(&w, "id = ?", id).Error
	return &w, err
}

func (r *repository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Worker{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) AreaExists(ctx context.Context, areaID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("areas").
		Where("id = ?", areaID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, w *Worker) error {
	return r.conn(ctx).Save(w).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&Worker{}, "id = ?", id).Error
}
