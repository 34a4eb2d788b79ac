package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	cartSessionHeader = "X-Cart-Session"
	cartSessionCookie = "ss_cart_session"
)

// CartSession resolves the guest's cart session identifier, minting one
// on first contact. The id travels in a cookie for browsers and is
// echoed in a header for API clients.
func CartSession(ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(cartSessionHeader)
			if sessionID == "" {
				if cookie, err := r.Cookie(cartSessionCookie); err == nil {
					sessionID = cookie.Value
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cartSessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(cartSessionHeader, sessionID)

			next.ServeHTTP(w, r.WithContext(WithCartSession(r.Context(), sessionID)))
		})
	}
}
