package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/bjl5029/WSD-3/internal/api/middleware"
	"github.com/bjl5029/WSD-3/internal/services"
	"github.com/bjl5029/WSD-3/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const maxRefreshBody = 8 << 10

// AuthHandler holds dependencies for account and token operations.
type AuthHandler struct {
	service   services.AuthService
	validator *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{service: service, validator: validate}
}

func tokenResponse(pair *services.TokenPair) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	}
}

// Register godoc
//
//	@Summary		Register a new account
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			user	body		dto.RegisterRequest	true	"Account details"
//	@Success		200		{object}	dto.TokenResponse
//	@Failure		400		{object}	dto.ErrorResponse	"Validation failed or email already registered"
//	@Router			/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !validate(c, h.validator, req) {
		return
	}

	pair, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Register", err, "Failed to register user")
		return
	}
	c.JSON(http.StatusOK, tokenResponse(pair))
}

// Login godoc
//
//	@Summary		Log in with email and password
//	@Tags			auth
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string	true	"Email"
//	@Param			password	formData	string	true	"Password"
//	@Success		200			{object}	dto.TokenResponse
//	@Failure		401			{object}	dto.ErrorResponse	"Invalid credentials"
//	@Failure		429			{object}	dto.ErrorResponse	"Too many attempts"
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !validate(c, h.validator, req) {
		return
	}

	pair, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Login", err, "Failed to log in")
		return
	}
	c.JSON(http.StatusOK, tokenResponse(pair))
}

// refreshTokenFromBody accepts {"refresh_token": "..."} or a bare JSON string.
func refreshTokenFromBody(body []byte) string {
	var req dto.RefreshRequest
	if err := json.Unmarshal(body, &req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	var token string
	if err := json.Unmarshal(body, &token); err == nil {
		return strings.TrimSpace(token)
	}
	return ""
}

// Refresh godoc
//
//	@Summary		Exchange a refresh token for a new token pair
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			token	body		dto.RefreshRequest	true	"Refresh token, or the token as a bare JSON string"
//	@Success		200		{object}	dto.TokenResponse
//	@Failure		401		{object}	dto.ErrorResponse	"Invalid token"
//	@Failure		403		{object}	dto.ErrorResponse	"User not active"
//	@Router			/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRefreshBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	token := refreshTokenFromBody(body)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": map[string]string{"refresh_token": "Field 'refresh_token' is required"}})
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, "Refresh", err, "Failed to refresh token")
		return
	}
	c.JSON(http.StatusOK, tokenResponse(pair))
}

// GetProfile godoc
//
//	@Summary		Get the caller's profile
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	dto.ProfileResponse
//	@Failure		401	{object}	dto.ErrorResponse
//	@Router			/auth/profile [get]
//	@Security		BearerAuth
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		log.Printf("GetProfile: Error getting user from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileResponse(user))
}

// UpdateProfile godoc
//
//	@Summary		Update the caller's profile
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			profile	body		dto.UpdateProfileRequest	true	"Profile fields"
//	@Success		200		{object}	dto.MessageResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		401		{object}	dto.ErrorResponse
//	@Router			/auth/profile [put]
//	@Security		BearerAuth
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		log.Printf("UpdateProfile: Error getting user from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !validate(c, h.validator, req) {
		return
	}

	if err := h.service.UpdateProfile(c.Request.Context(), user.ID, &req); err != nil {
		respondError(c, "UpdateProfile", err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Detail: "Profile updated"})
}

// DeleteAccount godoc
//
//	@Summary		Deactivate the caller's account
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	dto.MessageResponse
//	@Failure		401	{object}	dto.ErrorResponse
//	@Router			/auth/delete [delete]
//	@Security		BearerAuth
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		log.Printf("DeleteAccount: Error getting user from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err := h.service.Deactivate(c.Request.Context(), user.ID); err != nil {
		respondError(c, "DeleteAccount", err, "Failed to deactivate user")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Detail: "User deactivated"})
}
