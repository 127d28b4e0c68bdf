package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"auctionbay/internal/httputil"
	"auctionbay/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// UserIDKey is the context key for the authenticated user's ID
const UserIDKey contextKey = "user_id"

// Auth validates the JWT access token and injects the caller's user ID
// into the request context. Requests without a valid token are rejected.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := authenticate(w, r, jwtSecret, true)
			if !ok {
				return
			}
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth injects the caller's user ID when a valid token is present
// but lets anonymous requests through. Used on public reads that decorate
// their response for signed-in viewers.
func OptionalAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := authenticate(w, r, jwtSecret, false); ok {
				r = r.WithContext(context.WithValue(r.Context(), UserIDKey, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// authenticate extracts and validates the bearer token. When required is
// false it reports failure without writing a response.
func authenticate(w http.ResponseWriter, r *http.Request, jwtSecret string, required bool) (int64, bool) {
	var tokenString string

	// Expected format: "Authorization: Bearer <token>"
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			tokenString = parts[1]
		}
	}

	if tokenString == "" {
		if required {
			httputil.WriteUnauthorized(w, "Missing authentication token")
		}
		return 0, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		if required {
			if strings.Contains(err.Error(), "expired") {
				httputil.WriteUnauthorizedWithCode(w, model.CodeTokenExpired, "Access token has expired")
			} else {
				httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Invalid authentication token")
			}
		}
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		if required {
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Invalid authentication token")
		}
		return 0, false
	}

	// JSON numbers arrive as float64
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		if required {
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Invalid token claims")
		}
		return 0, false
	}

	return int64(userIDFloat), true
}

// GetUserIDFromContext extracts the user ID from the request context.
// Returns the user ID and true if found, or 0 and false if not found.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
