// Package credentials owns password hashing and session-token signing. A
// Manager is constructed once at startup; an empty signing secret is a
// configuration error and fails construction rather than producing weak
// tokens at request time.
package credentials

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrMissingSecret indicates the Manager was constructed without a signing
// secret.
var ErrMissingSecret = errors.New("credentials: signing secret is empty")

const (
	defaultCost = 10
	defaultTTL  = time.Hour
)

// NewManager creates a Manager signing tokens with the passed secret.
func NewManager(secret string, options ...Option) (*Manager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	m := &Manager{
		secret: []byte(secret),
		cost:   defaultCost,
		ttl:    defaultTTL,
		now:    time.Now,
	}
	for _, option := range options {
		option(m)
	}
	return m, nil
}

// Option is a function that mutates the passed Manager instance. This is
// typically used with NewManager.
type Option func(*Manager)

// WithCost creates an Option that configures the bcrypt cost factor.
func WithCost(cost int) Option {
	return func(m *Manager) { m.cost = cost }
}

// WithTTL creates an Option that configures the token validity window.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

// WithClock creates an Option that configures the Manager's time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager hashes and verifies passwords, and issues and verifies signed
// session tokens.
type Manager struct {
	secret []byte
	cost   int
	ttl    time.Duration
	now    func() time.Time
}

// Hash produces a salted one-way hash of the passed password. The salt is
// generated per call; hashing the same plaintext twice yields distinct
// hashes.
func (m Manager) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether the passed password matches the passed hash. A
// mismatch is a false return, never an error.
func (m Manager) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Claims is the claim set embedded in a session token.
type Claims struct {
	ID    int32  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// IssueToken produces a signed token carrying the passed identity claims and
// the Manager's validity window.
func (m Manager) IssueToken(id int32, email, name string) (string, error) {
	now := m.now()
	claims := Claims{
		ID:    id,
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// VerifyToken validates the passed token's signature and expiry, and returns
// the embedded claims.
func (m Manager) VerifyToken(token string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return claims, nil
}
