package attendance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecordKey is the natural identity of an attendance record: at most
// one record exists per worker per calendar month, enforced by the
// composite primary key.
type RecordKey struct {
	WorkerID string
	Month    int
	Year     int
}

func (k RecordKey) String() string {
	return fmt.Sprintf("%s/%04d-%02d", k.WorkerID, k.Year, k.Month)
}

type Record struct {
	WorkerID        string     `gorm:"column:worker_id;type:varchar(64);primaryKey"`
	Month           int        `gorm:"column:month;primaryKey"`
	Year            int        `gorm:"column:year;primaryKey"`
	NormalDays      int        `gorm:"column:normal_days;not null;default:0"`
	OvertimeDays    int        `gorm:"column:overtime_days;not null;default:0"`
	HolidayDays     int        `gorm:"column:holiday_days;not null;default:0"`
	FestivalDays    int        `gorm:"column:festival_days;not null;default:0"`
	DayTotal        float64    `gorm:"column:day_total;type:numeric(8,2);not null;default:0"`
	Status          Status     `gorm:"column:status;type:varchar(30);not null;index"`
	RejectionReason *string    `gorm:"column:rejection_reason;type:text"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	Worker          *WorkerRef `gorm:"foreignKey:WorkerID;references:ID"`
}

func (Record) TableName() string {
	return "attendance_records"
}

func (r *Record) Key() RecordKey {
	return RecordKey{WorkerID: r.WorkerID, Month: r.Month, Year: r.Year}
}

// WorkerRef is the read-side slice of the worker needed to scope,
// price and label a record.
type WorkerRef struct {
	ID          string    `gorm:"column:id;type:varchar(64);primaryKey"`
	Name        string    `gorm:"column:name"`
	AreaID      uuid.UUID `gorm:"column:area_id;type:uuid"`
	DayValue    float64   `gorm:"column:day_value"`
	Nationality string    `gorm:"column:nationality"`
	Area        *AreaRef  `gorm:"foreignKey:AreaID;references:ID"`
}

func (WorkerRef) TableName() string {
	return "workers"
}

type AreaRef struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (AreaRef) TableName() string {
	return "areas"
}
