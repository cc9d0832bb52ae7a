package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokens(secret []byte, issuer string, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, issuer: issuer, ttl: ttl}
}

// Issue creates a session for u valid from now.
func (t *Tokens) Issue(u *User, now time.Time) (Session, error) {
	id := uuid.NewString()
	exp := now.Add(t.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    t.issuer,
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return Session{}, fmt.Errorf("signing token: %w", err)
	}

	return Session{
		UserID:    u.ID,
		Email:     u.Email,
		Token:     signed,
		TokenID:   id,
		ExpiresAt: exp.Truncate(time.Second),
	}, nil
}

// Verify checks signature, issuer and expiry at now and returns the session.
func (t *Tokens) Verify(raw string, now time.Time) (Session, error) {
	var c claims

	_, err := jwt.ParseWithClaims(raw, &c,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return Session{}, errors.Join(ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil || c.ID == "" {
		return Session{}, ErrInvalidToken
	}

	return Session{
		UserID:    userID,
		Email:     c.Email,
		Token:     raw,
		TokenID:   c.ID,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
