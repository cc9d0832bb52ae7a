package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=auth
type Repository interface {
	// CreateUser assigns ID and CreatedAt. Returns ErrEmailTaken for a duplicate email.
	CreateUser(ctx context.Context, u *User) error
	// GetUserByEmail returns ErrUserNotFound when no account matches.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// RevokeToken records a signed-out token until it expires. Revoking twice is a no-op.
	RevokeToken(ctx context.Context, tokenID string, userID uuid.UUID, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Options struct {
	Secret     []byte
	Issuer     string
	SessionTTL time.Duration
	BcryptCost int // 0 means bcrypt.DefaultCost
}

// Service signs users up and in. Signed-out tokens are stored through the repository,
// so a revocation holds across restarts and across processes sharing the database.
type Service struct {
	repo   Repository
	tokens *Tokens
	cost   int
	now    func() time.Time

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

func NewService(repo Repository, opts Options) *Service {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &Service{
		repo:   repo,
		tokens: NewTokens(opts.Secret, opts.Issuer, opts.SessionTTL),
		cost:   cost,
		now:    time.Now,
		subs:   make(map[int]func(Event)),
	}
}

// NormalizeEmail trims and lowercases an address and checks its syntax.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}

	return email, nil
}

// Register creates an account without signing it in.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	if len(password) < MinPasswordLen {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}

		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{Email: email, PasswordHash: string(hash)}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}

		return nil, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

// SignUp registers an account and starts a session for it.
func (s *Service) SignUp(ctx context.Context, email, password string) (Session, error) {
	u, err := s.Register(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	return s.start(u)
}

// SignIn checks the credential pair and starts a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Session{}, ErrInvalidCredentials
		}

		return Session{}, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.start(u)
}

func (s *Service) start(u *User) (Session, error) {
	sess, err := s.tokens.Issue(u, s.now())
	if err != nil {
		return Session{}, err
	}

	s.publish(Event{Kind: EventSignedIn, Session: sess})

	return sess, nil
}

// Resume validates a stored token and returns its session. Revoked and expired tokens
// yield ErrInvalidToken.
func (s *Service) Resume(ctx context.Context, token string) (Session, error) {
	sess, err := s.tokens.Verify(token, s.now())
	if err != nil {
		return Session{}, err
	}

	revoked, err := s.repo.IsTokenRevoked(ctx, sess.TokenID)
	if err != nil {
		return Session{}, fmt.Errorf("check revocation: %w", err)
	}

	if revoked {
		return Session{}, ErrInvalidToken
	}

	return sess, nil
}

// SignOut revokes the token. Signing out an already invalid token succeeds.
func (s *Service) SignOut(ctx context.Context, token string) error {
	sess, err := s.Resume(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil
		}

		return err
	}

	if err := s.repo.RevokeToken(ctx, sess.TokenID, sess.UserID, sess.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.publish(Event{Kind: EventSignedOut, Session: sess})

	return nil
}

// Subscribe registers fn for session changes and returns a function that removes it.
// fn runs synchronously on the goroutine that caused the change.
func (s *Service) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Service) publish(e Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
