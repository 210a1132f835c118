package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// authenticate validates the session cookie and returns a request carrying
// the user id and session token, or ok=false.
func authenticate(sv SessionValidator, r *http.Request) (*http.Request, bool) {
	cookie, err := r.Cookie(SessionCookieName())
	if err != nil || cookie.Value == "" {
		return r, false
	}
	userID, err := sv.ValidateSession(r.Context(), cookie.Value)
	if err != nil {
		return r, false
	}
	ctx := WithSessionToken(WithUserID(r.Context(), userID), cookie.Value)
	return r.WithContext(ctx), true
}

// RequireAuth rejects requests without a valid session with 401 JSON.
func RequireAuth(sv SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, ok := authenticate(sv, r)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireLogin redirects requests without a valid session to loginURL,
// passing the original path in the redirect query parameter.
func RequireLogin(sv SessionValidator, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, ok := authenticate(sv, r)
			if !ok {
				target := loginURL + "?" + url.Values{"redirect": {r.URL.RequestURI()}}.Encode()
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// OptionalAuth attaches the session when one is valid and lets anonymous
// requests through unchanged.
func OptionalAuth(sv SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, _ = authenticate(sv, r)
			next.ServeHTTP(w, r)
		})
	}
}

// DevSessionToken is the fixed session token used by DevAuth.
const DevSessionToken = "dev-session"

// DevAuth is development middleware (AUTH_REQUIRED=false): every request
// runs as userID with the dev session.
func DevAuth(userID int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithSessionToken(WithUserID(r.Context(), userID), DevSessionToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
