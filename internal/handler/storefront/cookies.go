package storefront

import "net/http"

const (
	sessionCookieName = "picada_session"
	sessionMaxAge     = 24 * 60 * 60 // matches session.DefaultTTL
)

// GetSessionIDFromCookie retrieves the session ID from the picada_session
// cookie. Returns empty string if the cookie is not present.
func GetSessionIDFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie sets the picada_session cookie with appropriate security
// settings.
func SetSessionCookie(w http.ResponseWriter, sessionID string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
