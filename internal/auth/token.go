package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	// ErrInvalidToken indicates the token failed signature, type or claim checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates the token is past its expiry.
	ErrExpiredToken = errors.New("token expired")
)

// TokenConfig configures token signing.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Claims is the payload carried by both access and refresh tokens.
type Claims struct {
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Type       string `json:"typ"`
	jwt.RegisteredClaims
}

// Principal converts validated claims into a Principal.
func (c Claims) Principal() (Principal, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return Principal{}, ErrInvalidToken
	}
	role := models.Role(c.Role)
	if !role.Valid() {
		return Principal{}, ErrInvalidToken
	}
	principal := Principal{UserID: uint(id), Role: role}
	if role.IsStaff() {
		department := models.Department(c.Department)
		if !department.Valid() {
			return Principal{}, ErrInvalidToken
		}
		principal.Department = department
	}
	return principal, nil
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenIssuer signs and validates HS256 tokens.
type TokenIssuer struct {
	config TokenConfig
	now    func() time.Time
}

// NewTokenIssuer constructs a token issuer, applying default lifetimes.
func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &TokenIssuer{config: cfg, now: time.Now}
}

// IssuePair creates an access and refresh token bound to the principal.
func (i *TokenIssuer) IssuePair(p Principal) (TokenPair, error) {
	access, accessExp, err := i.sign(p, TokenTypeAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := i.sign(p, TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// IssueAccess creates a fresh access token for the principal.
func (i *TokenIssuer) IssueAccess(p Principal) (string, time.Time, error) {
	return i.sign(p, TokenTypeAccess)
}

// ParseAccess validates an access token.
func (i *TokenIssuer) ParseAccess(token string) (*Claims, error) {
	return i.parse(token, TokenTypeAccess, i.config.AccessSecret)
}

// ParseRefresh validates a refresh token.
func (i *TokenIssuer) ParseRefresh(token string) (*Claims, error) {
	return i.parse(token, TokenTypeRefresh, i.config.RefreshSecret)
}

func (i *TokenIssuer) sign(p Principal, tokenType string) (string, time.Time, error) {
	now := i.now()
	ttl, secret := i.config.AccessTTL, i.config.AccessSecret
	if tokenType == TokenTypeRefresh {
		ttl, secret = i.config.RefreshTTL, i.config.RefreshSecret
	}
	expiresAt := now.Add(ttl)

	claims := Claims{
		Role: string(p.Role),
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(p.UserID), 10),
			Issuer:    i.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	if p.IsStaff() {
		claims.Department = string(p.Department)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, expiresAt, nil
}

func (i *TokenIssuer) parse(token, tokenType, secret string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid || claims.Type != tokenType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
