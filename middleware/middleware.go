package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"brewhaus/globals"
	"brewhaus/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	Email      string `json:"email"`
	CustomerID string `json:"customerId"`
	Degraded   bool   `json:"degraded,omitempty"`
	jwt.RegisteredClaims
}

// WithSession guarantees a session id on the request: an existing cookie
// or X-Session-ID header is kept, otherwise a fresh uuid cookie is set.
// Carts and order lists are keyed off this id.
func WithSession(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sid := utils.GetSessionIDFromRequest(r)
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     utils.SessionCookieName,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Expires:  time.Now().Add(180 * 24 * time.Hour),
			})
		}
		ctx := context.WithValue(r.Context(), globals.SessionIDKey, sid)
		next(w, r.WithContext(ctx), ps)
	}
}

func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := claimsFromHeader(r)
		if err != nil {
			http.Error(w, "Please log in to use order tracking", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), globals.CustomerIDKey, claims.CustomerID)
		next(w, r.WithContext(ctx), ps)
	}
}

func claimsFromHeader(r *http.Request) (*Claims, error) {
	tokenString := r.Header.Get("Authorization")
	if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
		return nil, fmt.Errorf("missing bearer token")
	}
	return ValidateJWT(tokenString)
}

// ValidateJWT parses a "Bearer ..." header value.
func ValidateJWT(tokenString string) (*Claims, error) {
	if len(tokenString) < 8 {
		return nil, fmt.Errorf("invalid token")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString[7:], claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}
	return claims, nil
}

// NewSessionToken mints the storefront JWT returned at login.
func NewSessionToken(customerID, email string, degraded bool) (string, error) {
	claims := &Claims{
		Email:      email,
		CustomerID: customerID,
		Degraded:   degraded,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(12 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}
