package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/csemotors/dealership/internal/core/domain"
)

// DefaultTokenTTL is the validity window of a session token: one hour.
const DefaultTokenTTL = time.Hour

var (
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrMalformed        = errors.New("token malformed")
)

// sessionClaims is the wire form of domain.Claims. It is signed, not
// encrypted, so it must never carry the credential.
type sessionClaims struct {
	AccountID int64  `json:"account_id"`
	FirstName string `json:"account_firstname"`
	LastName  string `json:"account_lastname"`
	Email     string `json:"account_email"`
	Role      string `json:"account_type"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 session tokens. The secret and TTL
// are fixed at construction.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec returns a codec signing with secret. A non-positive ttl falls
// back to DefaultTokenTTL.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the lifetime applied to every issued token.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs claims with an absolute expiry of now+TTL and returns the
// token together with that expiry.
func (c *TokenCodec) Issue(claims domain.Claims) (string, time.Time, error) {
	if len(c.secret) == 0 {
		return "", time.Time{}, errors.New("issue token: empty signing secret")
	}

	now := c.now()
	expiresAt := now.Add(c.ttl)
	sc := sessionClaims{
		AccountID: claims.AccountID,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Email:     claims.Email,
		Role:      string(claims.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sc).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature and expiry and returns the embedded claims. The
// error is one of ErrInvalidSignature, ErrExpired or ErrMalformed.
func (c *TokenCodec) Verify(token string) (domain.Claims, error) {
	var sc sessionClaims
	_, err := jwt.ParseWithClaims(token, &sc, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return domain.Claims{}, classify(err)
	}

	role, ok := domain.ParseRole(sc.Role)
	if !ok || sc.AccountID <= 0 {
		return domain.Claims{}, fmt.Errorf("%w: incomplete claims", ErrMalformed)
	}

	return domain.Claims{
		AccountID: sc.AccountID,
		FirstName: sc.FirstName,
		LastName:  sc.LastName,
		Email:     sc.Email,
		Role:      role,
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
