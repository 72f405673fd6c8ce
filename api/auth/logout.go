package auth

import (
	"net/http"

	"foodorder_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandleLogout drops the session cookie. Tokens are short lived and not revoked.
func (arm *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	lib.ClearCookie(lib.AccessCookieName, w)

	gecho.Success(w,
		gecho.WithMessage("Logged out successfully"),
		gecho.Send(),
	)
}
