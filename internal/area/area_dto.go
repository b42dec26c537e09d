package area

type CreateAreaRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateAreaRequest struct {
	Name string `json:"name" binding:"required"`
}

type AreaResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
