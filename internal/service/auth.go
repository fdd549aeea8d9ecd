package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/iamrajpal/goodfood/internal/server"
)

// ErrInvalidToken is returned for any bearer token that does not verify.
var ErrInvalidToken = errors.New("invalid token")

// AuthService verifies HS256 bearer tokens whose subject is the numeric
// user id that owns recipes.
type AuthService struct {
	secret []byte
}

func NewAuthService(s *server.Server) *AuthService {
	return NewAuthServiceWithSecret(s.Config.Auth.SecretKey)
}

func NewAuthServiceWithSecret(secret string) *AuthService {
	return &AuthService{secret: []byte(secret)}
}

// VerifyToken returns the user id carried in the "sub" claim.
func (a *AuthService) VerifyToken(tokenString string) (int, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, claims.Subject)
	}

	return userID, nil
}

// IssueToken signs a token for userID valid for ttl.
func (a *AuthService) IssueToken(userID int, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(a.secret)
}
