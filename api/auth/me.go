package auth

import (
	"net/http"

	"foodorder_server/api/middleware"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("Unauthorized"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"user_id":    claims.Sub,
			"phone":      claims.Phone,
			"role":       claims.Role,
			"expires_at": claims.Exp,
		}),
		gecho.Send(),
	)
}
