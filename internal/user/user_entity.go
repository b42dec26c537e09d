package user

import (
	"encoding/json"
	"time"

	"go-attendance/internal/scope"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is a role holder. AreaID is the primary assignment and may be
// the ALL sentinel; ExtraAreas holds any additional area ids as a JSON
// array. Newly registered users start inactive pending approval.
type User struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Email       string         `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	Name        string         `gorm:"column:name;type:varchar(255);not null"`
	Password    string         `gorm:"column:password;type:varchar(255);not null"`
	Role        string         `gorm:"column:role;type:varchar(40);not null;default:'SUPERVISOR'"`
	AreaID      string         `gorm:"column:area_id;type:varchar(64)"`
	ExtraAreas  datatypes.JSON `gorm:"column:extra_areas;type:jsonb"`
	Nationality string         `gorm:"column:nationality;type:varchar(60)"`
	IsActive    bool           `gorm:"column:is_active;not null;default:false"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) ExtraAreaIDs() []string {
	if len(u.ExtraAreas) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(u.ExtraAreas, &ids); err != nil {
		return nil
	}
	return ids
}

func (u *User) SetExtraAreaIDs(ids []string) {
	if len(ids) == 0 {
		u.ExtraAreas = nil
		return
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		u.ExtraAreas = nil
		return
	}
	u.ExtraAreas = raw
}

// ResolveScope computes the user's visibility scope from its role and
// area assignments.
func (u *User) ResolveScope() scope.Set {
	return scope.Resolve(scope.Role(u.Role), u.AreaID, u.ExtraAreaIDs())
}

// Claim exposes the supervision-coverage view of this user.
func (u *User) Claim() scope.AreaClaim {
	ids := u.ExtraAreaIDs()
	if u.AreaID != "" {
		ids = append([]string{u.AreaID}, ids...)
	}
	return scope.AreaClaim{
		Role:    scope.Role(u.Role),
		Active:  u.IsActive,
		AreaIDs: ids,
	}
}
