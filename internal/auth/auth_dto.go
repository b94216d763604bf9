package auth

type RegisterRequest struct {
	UserName  string `json:"user_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	CompanyID string `json:"company_id" binding:"required,uuid"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	UserName  string `json:"user_name"`
	Email     string `json:"email"`
	IsManager bool   `json:"is_manager"`
}
