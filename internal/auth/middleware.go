package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

// TokenHeader is the request header carrying the bearer token. The API
// predates Authorization: Bearer usage here — clients send the raw JWT in
// this custom header, and that contract is frozen.
const TokenHeader = "x-auth-token"

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the userID value.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth is the middleware that enforces authentication on private
// routes.
//
// It is a binary gate with exactly two terminal states per request:
//   - no header            → 401 {"msg":"No token, authorization denied"}
//     (no verification attempted)
//   - bad/expired token    → 401 {"msg":"token is not valid"}
//   - valid token          → userID stored in the request context, chain
//     continues
//
// Handlers behind this middleware read the identity with UserIDFromContext.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				writeUnauthorized(w, "No token, authorization denied")
				return
			}

			userID, err := tokens.Validate(token)
			if err != nil {
				writeUnauthorized(w, "token is not valid")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) if no valid token was presented — which on a
// route behind RequireAuth means something is wired wrong.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// writeUnauthorized sends the 401 shape used by this API: a single-message
// JSON object.
func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	// Headers are already sent; an encode failure here can only be logged by
	// the caller's recoverer, so the error is dropped.
	_ = json.NewEncoder(w).Encode(map[string]string{"msg": msg})
}
