package web

import (
	"context"
	"encoding/base64"
	"net/http"
)

// FlashCookieName is the cookie carrying a flash message between a redirect
// and the page it leads to.
const FlashCookieName = "taskboard_flash"

// FlashModelKey is the model key a pending flash message is exposed under.
const FlashModelKey = "message"

type flashKey struct{}

// SetFlash stores message in a short-lived cookie. Empty messages are ignored.
func SetFlash(w http.ResponseWriter, message string, secure bool) {
	if message == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FlashMiddleware reads and clears a pending flash cookie, making the message
// available to the current request through FlashFromContext.
func FlashMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(FlashCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     FlashCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})

		message, err := base64.RawURLEncoding.DecodeString(cookie.Value)
		if err != nil || len(message) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), flashKey{}, string(message))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FlashFromContext returns the flash message for this request, if any.
func FlashFromContext(ctx context.Context) string {
	message, _ := ctx.Value(flashKey{}).(string)
	return message
}
