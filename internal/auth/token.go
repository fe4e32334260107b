package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lgarzadev/dealercat/internal/models"
)

// CookieName is the single cookie carrying the signed session token.
const CookieName = "jwt"

// ErrNotAuthenticated covers every verification failure: missing cookie, bad
// signature, expiry. Callers treat all of them as "no session".
var ErrNotAuthenticated = errors.New("not authenticated")

type sessionClaims struct {
	Account models.SafeAccount `json:"account"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-bounded session tokens and
// owns the transport cookie. It never strips sensitive fields itself; callers
// must hand it an already-safe payload.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewTokenService(secret string, ttl time.Duration, secure bool) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
	}
}

// TTL returns the fixed, non-sliding validity window.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

func (s *TokenService) Issue(payload models.SafeAccount) (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		Account: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Verify(tokenString string) (models.SafeAccount, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return models.SafeAccount{}, ErrNotAuthenticated
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok {
		return models.SafeAccount{}, ErrNotAuthenticated
	}

	return claims.Account, nil
}

// SetCookie writes the session cookie: HttpOnly always, Secure outside the
// development profile, expiry matching the token's validity window.
func (s *TokenService) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *TokenService) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
