package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inventorio/inventory-api/internal/core/domain"
	"github.com/inventorio/inventory-api/internal/core/ports"
	"github.com/inventorio/inventory-api/internal/pkg/password"
)

type authService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	log      zerolog.Logger
}

// NewAuthService returns an AuthService backed by the given user repository
// and session store.
func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, log zerolog.Logger) ports.AuthService {
	return &authService{users: users, sessions: sessions, log: log}
}

func (s *authService) Signup(ctx context.Context, username, email, pass, role string) (*domain.User, error) {
	if username == "" || email == "" || pass == "" {
		return nil, domain.ErrMissingFields
	}

	// 1. Both uniqueness pre-checks run before any insert. The storage-level
	//    unique indexes remain the authority for concurrent duplicates.
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("signup: check username: %w", err)
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("signup: check email: %w", err)
	}

	// 2. Hash before building the record so a failure leaves nothing behind.
	hash, err := password.Hash(pass)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.ParseRole(role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.log.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("user created")
	return created, nil
}

func (s *authService) Login(ctx context.Context, identifier, pass string) (string, *domain.User, error) {
	if identifier == "" || pass == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	// Absent user, OAuth-only account (empty hash), and wrong password all
	// collapse into the same error: callers must not be able to enumerate
	// accounts.
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}
	if !password.Verify(pass, user.PasswordHash) {
		s.log.Info().Str("identifier", identifier).Msg("login rejected")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.establishSession(ctx, user)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("login successful")
	return token, user, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, token); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		// Logout never fails from the caller's perspective; a store hiccup
		// is logged and the cookie is cleared regardless.
		s.log.Warn().Err(err).Msg("session destroy failed")
		return nil
	}
	return nil
}

func (s *authService) OAuthLoginOrCreate(ctx context.Context, profile domain.ProviderProfile) (string, *domain.User, error) {
	// 1. Refuse unverifiable identities outright: no user is created and no
	//    session is established.
	if !profile.EmailVerified {
		return "", nil, domain.ErrEmailUnverified
	}
	if profile.Email == "" {
		return "", nil, domain.ErrEmailUnverified
	}

	// 2. Email is the identity key: replays with the same verified email
	//    always resolve to the same user.
	user, err := s.users.FindByEmail(ctx, profile.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, fmt.Errorf("oauth login: %w", err)
		}
		user, err = s.createOAuthUser(ctx, profile)
		if err != nil {
			return "", nil, fmt.Errorf("oauth login: %w", err)
		}
		s.log.Info().Str("username", user.Username).Str("subject", profile.Subject).Msg("user created from provider profile")
	}

	token, err := s.establishSession(ctx, user)
	if err != nil {
		return "", nil, fmt.Errorf("oauth login: %w", err)
	}

	return token, user, nil
}

// createOAuthUser persists a password-less account for a first-seen verified
// email. A display-name collision with an existing username is retried once
// with a random suffix rather than failing the login.
func (s *authService) createOAuthUser(ctx context.Context, profile domain.ProviderProfile) (*domain.User, error) {
	now := time.Now().UTC()
	user := &domain.User{
		Username:  profile.DisplayName,
		Email:     profile.Email,
		Role:      domain.RoleStaff,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.users.Create(ctx, user)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, domain.ErrUserExists) {
		return nil, err
	}

	// The email was free moments ago, so the collision is on username.
	user.Username = fmt.Sprintf("%s-%s", profile.DisplayName, uuid.NewString()[:8])
	return s.users.Create(ctx, user)
}

func (s *authService) establishSession(ctx context.Context, user *domain.User) (string, error) {
	return s.sessions.Create(ctx, domain.SessionAttrs{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
}
