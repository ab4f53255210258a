package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService signs and verifies HS256 tokens
type TokenService struct {
	now func() time.Time
}

func NewTokenService() *TokenService {
	return &TokenService{now: time.Now}
}

// Registered builds the standard claims for a token valid for ttl
func (s *TokenService) Registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
}

// Sign signs claims with secret
func (s *TokenService) Sign(claims jwt.Claims, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("token secret is not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify parses token into claims, checking the signature and expiry
func (s *TokenService) Verify(tokenString, secret string, claims jwt.Claims) error {
	if secret == "" {
		return errors.New("token secret is not configured")
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}

// Decode reads the claims without checking the signature or expiry
func (s *TokenService) Decode(tokenString string, claims jwt.Claims) error {
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	return err
}
