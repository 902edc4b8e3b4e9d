// Package auth validates the access tokens issued by the reconciliation
// backend. The dashboard service shares the backend's signing key and
// never issues tokens of its own in production.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appctx "bankreco/internal/core/context"
)

// TokenTypeAccess is the token_type claim of access tokens. Refresh
// tokens are signed with the same key and must be rejected.
const TokenTypeAccess = "access"

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
	Leeway         time.Duration
}

// DefaultJWTConfig returns default JWT configuration.
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:         secret,
		AccessTokenTTL: 15 * time.Minute,
		Leeway:         30 * time.Second,
	}
}

// Claims are the claims of a backend access token. user_id is a number
// or a string depending on the backend's user model.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
	UserID    any    `json:"user_id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	IsStaff   bool   `json:"is_staff,omitempty"`
}

// JWTService handles JWT operations.
type JWTService struct {
	config JWTConfig
	parser *jwt.Parser
}

// NewJWTService creates a new JWT service.
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(config.Leeway),
		),
	}
}

// GenerateAccessToken signs an access token the way the backend does.
// Used by tests and local tooling.
func (s *JWTService) GenerateAccessToken(userID, username, email string, isStaff bool) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenType: TokenTypeAccess,
		UserID:    userID,
		Username:  username,
		Email:     email,
		IsStaff:   isStaff,
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ValidateToken validates an access token and returns the user it was
// issued to. The raw token is kept so calls to the backend can be made
// on the user's behalf.
func (s *JWTService) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, fmt.Errorf("unexpected token type %q", claims.TokenType)
	}

	userID := userIDString(claims.UserID)
	if userID == "" {
		return nil, errors.New("token without user_id")
	}

	return &appctx.UserContext{
		UserID:      userID,
		Username:    claims.Username,
		Email:       claims.Email,
		IsStaff:     claims.IsStaff,
		AccessToken: tokenString,
	}, nil
}

func userIDString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case float64:
		// JSON numbers
		return fmt.Sprintf("%.0f", id)
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
