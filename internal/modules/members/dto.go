package members

type LoginRequest struct {
	Email        string `json:"email" binding:"required"`
	Name         string `json:"name"`
	MemberAreaID string `json:"member_area_id"`
}
