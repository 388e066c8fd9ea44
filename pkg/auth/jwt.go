package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rpatel/forum-api/internal/model"
)

// Claims is the token payload minted by the session service. This package
// only validates tokens; issuance lives outside the forum core.
type Claims struct {
	UserID      int64  `json:"uid"`
	Name        string `json:"name"`
	IsModerator bool   `json:"moderator"`
	IsAdmin     bool   `json:"admin"`
	jwt.RegisteredClaims
}

type JWTService interface {
	ValidateToken(token string) (*model.AuthUser, error)
}

type jwtService struct {
	secret []byte
}

func NewJWTService(secret string) JWTService {
	return &jwtService{secret: []byte(secret)}
}

func (s *jwtService) ValidateToken(tokenString string) (*model.AuthUser, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithLeeway(30*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.UserID <= 0 {
		return nil, fmt.Errorf("invalid user id in token")
	}

	return &model.AuthUser{
		ID:          claims.UserID,
		Name:        claims.Name,
		IsModerator: claims.IsModerator,
		IsAdmin:     claims.IsAdmin,
	}, nil
}
