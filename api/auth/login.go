package auth

import (
	"errors"
	"net/http"

	"foodorder_server/lib"
	"foodorder_server/structs"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.LoginRequest](r)
	if err != nil {
		arm.logger.Warn("Failed to extract request body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Phone and password are required"), gecho.Send())
		return
	}

	user, err := arm.authService.Login(r.Context(), body)
	if err != nil {
		if errors.Is(err, lib.ErrInvalidCredentials) {
			gecho.Unauthorized(w, gecho.WithMessage("Invalid credentials"), gecho.Send())
			return
		}
		arm.logger.Error("Login failed", gecho.Field("error", err))
		gecho.InternalServerError(w, gecho.WithMessage("Unable to complete login. Please try again"), gecho.Send())
		return
	}

	accessToken, expiresAt, err := arm.authService.IssueAccessToken(user)
	if err != nil {
		arm.logger.Warn("Failed to generate access token", gecho.Field("error", err))
		gecho.InternalServerError(w, gecho.WithMessage("Unable to complete login. Please try again"), gecho.Send())
		return
	}

	lib.SetCookie(lib.AccessCookieName, accessToken, expiresAt, w)

	gecho.Success(w,
		gecho.WithMessage("Login successful"),
		gecho.WithData(structs.LoginResponse{
			AccessToken: accessToken,
			UserId:      user.Id,
			Name:        user.Name,
			Role:        string(user.Role),
		}),
		gecho.Send(),
	)
}
