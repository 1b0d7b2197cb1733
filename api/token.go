package api

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pressmark-io/blog-backend/models"
)

// tokenManager issues and verifies the bearer tokens handed out at login.
type tokenManager struct {
	secret []byte
	ttl    time.Duration
}

func newTokenManager(secret string, ttl time.Duration) tokenManager {
	return tokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the user's id and admin flag.
func (m tokenManager) Issue(user models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"admin": user.IsAdmin,
		"iat":   now.Unix(),
		"exp":   now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies a token and returns the caller it identifies.
func (m tokenManager) Parse(token string) (models.Caller, error) {
	parsedToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return models.Anonymous(), err
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return models.Anonymous(), jwt.ErrTokenInvalidClaims
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return models.Anonymous(), jwt.ErrTokenInvalidClaims
	}

	role := models.RoleUser
	if admin, _ := claims["admin"].(bool); admin {
		role = models.RoleAdmin
	}

	return models.Caller{ID: userID, Role: role}, nil
}
