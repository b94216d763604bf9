package user

type UserResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	UserName  string `json:"user_name"`
	Email     string `json:"email"`
	IsManager bool   `json:"is_manager"`
}

type UpdateEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		CompanyID: u.CompanyID.String(),
		UserName:  u.UserName,
		Email:     u.Email,
		IsManager: u.IsManager,
	}
}

func mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp
}
