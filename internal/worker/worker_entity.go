package worker

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Worker is referenced, never owned, by attendance records. The ID is
// the organization-issued number, immutable once created.
type Worker struct {
	ID          string         `gorm:"column:id;type:varchar(64);primaryKey"`
	Name        string         `gorm:"column:name;type:varchar(255);not null"`
	AreaID      uuid.UUID      `gorm:"column:area_id;type:uuid;not null;index"`
	DayValue    float64        `gorm:"column:day_value;type:numeric(12,2);not null"`
	BaseSalary  float64        `gorm:"column:base_salary;type:numeric(12,2);not null;default:0"`
	Nationality string         `gorm:"column:nationality;type:varchar(60)"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Area        *AreaRef       `gorm:"foreignKey:AreaID;references:ID"`
}

func (Worker) TableName() string {
	return "workers"
}

type AreaRef struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (AreaRef) TableName() string {
	return "areas"
}
