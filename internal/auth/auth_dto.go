package auth

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=SUPERVISOR GENERAL_SUPERVISOR HEALTH_DIRECTOR HR INTERNAL_AUDIT FINANCE PAYROLL MAYOR ADMIN"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	AreaID      string   `json:"area_id,omitempty"`
	ExtraAreas  []string `json:"extra_areas,omitempty"`
	Nationality string   `json:"nationality,omitempty"`
	IsActive    bool     `json:"is_active"`
}
