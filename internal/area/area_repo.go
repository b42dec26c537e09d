package area

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=area_repo.go -destination=mock/area_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Area) error
	FindAll(ctx context.Context) ([]Area, error)
	FindByID(ctx context.Context, id string) (*Area, error)
	CountByName(ctx context.Context, name string, excludeID *string) (int64, error)
	CountWorkers(ctx context.Context, areaID string) (int64, error)
	Update(ctx context.Context, a *Area) error
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

func (r *repository) Create(ctx context.Context, a *Area) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Area, error) {
	var areas []Area
	err := r.conn(ctx).Order("name ASC").Find(&areas).Error
	return areas, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Area, error) {
	var a Area
	err := r.conn(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) CountByName(ctx context.Context, name string, excludeID *string) (int64, error) {
	db := r.conn(ctx).Model(&Area{}).Where("name = ?", name)
	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}
	var count int64
	err := db.Count(&count).Error
	return count, err
}

func (r *repository) CountWorkers(ctx context.Context, areaID string) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Table("workers").
		Where("area_id = ?", areaID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, a *Area) error {
	return r.conn(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&Area{}, "id = ?", id).Error
}
