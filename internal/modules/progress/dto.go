package progress

type UpdatePositionRequest struct {
	Position float64 `json:"position" binding:"gte=0"`
	Duration float64 `json:"duration" binding:"gte=0"`
}

type SetCompletedRequest struct {
	Completed bool `json:"completed"`
}

type RateRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}
