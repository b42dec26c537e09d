package user

type UpdateUserRequest struct {
	Name        string `json:"name" binding:"required"`
	Role        string `json:"role" binding:"required,oneof=SUPERVISOR GENERAL_SUPERVISOR HEALTH_DIRECTOR HR INTERNAL_AUDIT FINANCE PAYROLL MAYOR ADMIN"`
	Nationality string `json:"nationality"`
}

// SetAreasRequest replaces the whole area assignment in one operation.
type SetAreasRequest struct {
	AreaID     string   `json:"area_id"`
	ExtraAreas []string `json:"extra_areas"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type UserResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	AreaID      string   `json:"area_id,omitempty"`
	ExtraAreas  []string `json:"extra_areas,omitempty"`
	Nationality string   `json:"nationality,omitempty"`
	IsActive    bool     `json:"is_active"`
}
