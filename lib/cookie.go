package lib

import (
	"foodorder_server/config"
	"net/http"
	"time"
)

const AccessCookieName = "access_token"

// SetCookie sets a secure, HttpOnly cookie for the dashboard session
func SetCookie(key, val string, expiry time.Time, w http.ResponseWriter) {
	http.SetCookie(w, newCookie(key, val, expiry))
}

func GetCookieValue(key string, r *http.Request) (string, error) {
	cookie, err := r.Cookie(key)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ClearCookie removes the cookie from the browser
func ClearCookie(key string, w http.ResponseWriter) {
	cookie := newCookie(key, "", time.Now().Add(-time.Hour))
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

func newCookie(key, val string, expiry time.Time) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	secure := false
	if config.IsProduction() {
		// dashboard and api live on different origins in production
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	return &http.Cookie{
		Name:     key,
		Value:    val,
		Expires:  expiry,
		Path:     "/",
		Secure:   secure,
		SameSite: sameSite,
		HttpOnly: true,
	}
}
