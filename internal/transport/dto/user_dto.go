package dto

import "github.com/bjl5029/WSD-3/internal/models"

// RegisterRequest defines the structure for creating a new account.
type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=1"`
	Name      string  `json:"name" validate:"required"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	BirthDate *string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// LoginRequest is the form-encoded password grant. Username holds the email.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// RefreshRequest carries the refresh token. The handler also accepts a bare JSON string.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest replaces the editable profile fields.
type UpdateProfileRequest struct {
	Name      string  `json:"name" validate:"required"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	BirthDate *string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// TokenResponse is returned by every successful auth call.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// ProfileResponse is the public view of the caller's account.
type ProfileResponse struct {
	UserID    int64             `json:"user_id"`
	Email     string            `json:"email"`
	Name      string            `json:"name"`
	Phone     *string           `json:"phone"`
	BirthDate *string           `json:"birth_date"`
	Status    models.UserStatus `json:"status"`
}

func NewProfileResponse(u *models.User) ProfileResponse {
	resp := ProfileResponse{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Phone:  u.Phone,
		Status: u.Status,
	}
	if u.BirthDate != nil {
		d := u.BirthDate.Format("2006-01-02")
		resp.BirthDate = &d
	}
	return resp
}

// MessageResponse is the {"detail": ...} acknowledgement body.
type MessageResponse struct {
	Detail string `json:"detail"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
