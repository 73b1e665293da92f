package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken wraps every decode, signature and expiry failure.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the claim mapping carried by an access token.
type Claims = jwt.MapClaims

// TokenManager signs and verifies access tokens with a single algorithm.
type TokenManager struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	ttl       time.Duration
	now       func() time.Time
}

// NewHS256 returns a manager signing with a shared secret.
func NewHS256(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &TokenManager{
		method:    jwt.SigningMethodHS256,
		signKey:   []byte(secret),
		verifyKey: []byte(secret),
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

// NewRS256 returns a manager signing with an RSA private key (PEM) and
// verifying with the matching public key (PEM).
func NewRS256(privatePEM, publicPEM []byte, ttl time.Duration) (*TokenManager, error) {
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return &TokenManager{
		method:    jwt.SigningMethodRS256,
		signKey:   priv,
		verifyKey: pub,
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

// NewRS256FromFiles reads both PEM files and calls NewRS256.
func NewRS256FromFiles(privatePath, publicPath string, ttl time.Duration) (*TokenManager, error) {
	privatePEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	publicPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	return NewRS256(privatePEM, publicPEM, ttl)
}

// Issue signs payload after stamping iat and exp. The payload map is not modified.
func (m *TokenManager) Issue(payload Claims) (string, error) {
	now := m.now().UTC()
	claims := make(Claims, len(payload)+2)
	for k, v := range payload {
		claims[k] = v
	}
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(m.ttl).Unix()

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.signKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry of token and returns its claims.
func (m *TokenManager) Parse(token string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	claims := Claims{}
	tok, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.verifyKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Algorithm reports the signing algorithm name, e.g. "HS256".
func (m *TokenManager) Algorithm() string {
	return m.method.Alg()
}
