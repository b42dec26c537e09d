package audit

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Query filters the read side. Actor matches as a substring; empty
// fields are ignored.
type Query struct {
	Actor  string
	Table  string
	Action string
	Limit  int
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Entry) error
	Search(ctx context.Context, q Query) ([]Entry, error)
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

func (r *repository) Create(ctx context.Context, e *Entry) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) Search(ctx context.Context, q Query) ([]Entry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	db := r.conn(ctx).Model(&Entry{})
	if q.Actor != "" {
		db = db.Where("actor ILIKE ?", "%"+q.Actor+"%")
	}
	if q.Table != "" {
		db = db.Where("table_name = ?", q.Table)
	}
	if q.Action != "" {
		db = db.Where("action = ?", q.Action)
	}

	var entries []Entry
	err := db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// NewEntry snapshots the resulting payload of a mutation. Marshal
// failures degrade to a null payload rather than failing the mutation.
func NewEntry(action, table, recordID, actor string, payload any) *Entry {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = nil
	}
	return &Entry{
		ID:          uuid.New(),
		Action:      action,
		EntityTable: table,
		RecordID:    recordID,
		Actor:       actor,
		Payload:     raw,
	}
}
