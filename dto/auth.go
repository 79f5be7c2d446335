package dto

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=256"`
	Password    string `json:"password" binding:"required,min=6,max=128,password"`
	DisplayName string `json:"display_name" binding:"omitempty,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,min=1,max=256"`
	Password string `json:"password" binding:"required,min=1,max=128"`
}

// SessionResponse is the token bundle handed back after register or login.
// AccessToken goes into Authorization: Bearer for the notes endpoints.
type SessionResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	UserID           string `json:"user_id"`
	Email            string `json:"email"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"`
}
