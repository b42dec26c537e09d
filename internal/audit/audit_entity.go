package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Entry is append-only: written as a side effect of every mutation,
// never updated or deleted.
type Entry struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Action      string         `gorm:"column:action;type:varchar(20);not null;index"`
	EntityTable string         `gorm:"column:table_name;type:varchar(60);not null;index"`
	RecordID    string         `gorm:"column:record_id;type:varchar(120);not null"`
	Actor       string         `gorm:"column:actor;type:varchar(120);not null;index"`
	Payload     datatypes.JSON `gorm:"column:payload;type:jsonb"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
}

func (Entry) TableName() string {
	return "audit_logs"
}
