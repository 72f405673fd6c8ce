package auth

import (
	"context"
	"time"

	"foodorder_server/api/middleware"
	"foodorder_server/structs"
	"foodorder_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// Authenticator checks dashboard credentials and mints access tokens.
type Authenticator interface {
	Login(ctx context.Context, req *structs.LoginRequest) (*tables.User, error)
	IssueAccessToken(user *tables.User) (string, time.Time, error)
}

type AuthRoutesManager struct {
	logger      *gecho.Logger
	authService Authenticator
	mw          *middleware.Middleware
}

func NewAuthRoutesManager(logger *gecho.Logger, authService Authenticator, mw *middleware.Middleware) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger:      logger,
		authService: authService,
		mw:          mw,
	}
}

func (arm *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", arm.HandleLogin)
		r.Post("/logout", arm.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(arm.mw.UserAuthMiddleware)
			r.Get("/me", arm.HandleMe)
		})
	})
}
