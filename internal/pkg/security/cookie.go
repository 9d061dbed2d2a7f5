package security

import (
	"net/http"
	"time"
)

// NewSecureCookie returns an HttpOnly, Secure, SameSite=Lax cookie scoped to the whole site.
func NewSecureCookie(name, val string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    val,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie returns a cookie that instructs the browser to delete name.
func ExpiredCookie(name string) *http.Cookie {
	c := NewSecureCookie(name, "", 0)
	c.MaxAge = -1
	return c
}
