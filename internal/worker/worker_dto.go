package worker

type CreateWorkerRequest struct {
	ID          string  `json:"id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	AreaID      string  `json:"area_id" binding:"required,uuid"`
	DayValue    float64 `json:"day_value" binding:"required,gte=0"`
	BaseSalary  float64 `json:"base_salary" binding:"gte=0"`
	Nationality string  `json:"nationality"`
}

type UpdateWorkerRequest struct {
	Name        string  `json:"name" binding:"required"`
	AreaID      string  `json:"area_id" binding:"required,uuid"`
	DayValue    float64 `json:"day_value" binding:"required,gte=0"`
	BaseSalary  float64 `json:"base_salary" binding:"gte=0"`
	Nationality string  `json:"nationality"`
}

type WorkerResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	AreaID      string  `json:"area_id"`
	AreaName    string  `json:"area_name,omitempty"`
	DayValue    float64 `json:"day_value"`
	BaseSalary  float64 `json:"base_salary"`
	Nationality string  `json:"nationality,omitempty"`
}
