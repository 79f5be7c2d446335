package handler

import (
	"context"

	"notevault/dto"
	"notevault/services"
	"notevault/utils"

	"github.com/gin-gonic/gin"
)

// AuthService is the slice of the identity gateway the auth endpoints need.
type AuthService interface {
	Register(ctx context.Context, email, password, displayName string) (*services.SessionBundle, error)
	Login(ctx context.Context, email, password string) (*services.SessionBundle, error)
}

func RegistrationHandler(c *gin.Context, auth AuthService) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("validation")
		utils.BadRequest(c, "invalid request")
		return
	}

	bundle, err := auth.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, toSessionResponse(bundle))
}

func LoginHandler(c *gin.Context, auth AuthService) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("validation")
		utils.BadRequest(c, "invalid request")
		return
	}

	bundle, err := auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, toSessionResponse(bundle))
}

func toSessionResponse(bundle *services.SessionBundle) dto.SessionResponse {
	return dto.SessionResponse{
		AccessToken:      bundle.AccessToken,
		RefreshToken:     bundle.RefreshToken,
		UserID:           bundle.UserID,
		Email:            bundle.Email,
		ExpiresInSeconds: bundle.ExpiresIn,
	}
}
