package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/inventorio/inventory-api/internal/core/domain"
	"github.com/inventorio/inventory-api/internal/pkg/password"
)

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by email
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	for _, u := range r.users {
		if user.Username != "" && u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	r.nextID++
	copy.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	if u, err := r.FindByUsername(ctx, identifier); err == nil {
		return u, nil
	}
	return r.FindByEmail(ctx, identifier)
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type stubSessionStore struct {
	sessions map[string]domain.SessionAttrs
	nextID   int
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]domain.SessionAttrs)}
}

func (s *stubSessionStore) Create(_ context.Context, attrs domain.SessionAttrs) (string, error) {
	s.nextID++
	token := fmt.Sprintf("tok%d", s.nextID)
	s.sessions[token] = attrs
	return token, nil
}

func (s *stubSessionStore) Read(_ context.Context, token string) (*domain.SessionAttrs, error) {
	attrs, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &attrs, nil
}

func (s *stubSessionStore) Update(_ context.Context, token string, attrs domain.SessionAttrs) error {
	if _, ok := s.sessions[token]; !ok {
		return domain.ErrSessionNotFound
	}
	s.sessions[token] = attrs
	return nil
}

func (s *stubSessionStore) Destroy(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func newTestService() (*stubUserRepo, *stubSessionStore, *authService) {
	repo := newStubUserRepo()
	sessions := newStubSessionStore()
	svc := NewAuthService(repo, sessions, zerolog.Nop()).(*authService)
	return repo, sessions, svc
}

func TestAuthService_Signup_Success(t *testing.T) {
	_, _, svc := newTestService()

	user, err := svc.Signup(context.Background(), "alice", "alice@x.com", "pw123", "")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected an assigned user id")
	}
	if user.Role != domain.RoleStaff {
		t.Fatalf("expected role to default to staff, got %s", user.Role)
	}
	if user.PasswordHash == "pw123" || user.PasswordHash == "" {
		t.Fatal("expected password to be stored hashed")
	}
	if !password.Verify("pw123", user.PasswordHash) {
		t.Fatal("stored hash does not match password")
	}
}

func TestAuthService_Signup_MissingFields(t *testing.T) {
	repo, _, svc := newTestService()

	cases := []struct{ username, email, pass string }{
		{"", "alice@x.com", "pw"},
		{"alice", "", "pw"},
		{"alice", "alice@x.com", ""},
	}
	for _, c := range cases {
		_, err := svc.Signup(context.Background(), c.username, c.email, c.pass, "")
		if !errors.Is(err, domain.ErrMissingFields) {
			t.Fatalf("signup %q/%q: expected ErrMissingFields, got %v", c.username, c.email, err)
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatal("incomplete signup must not surface a login error")
		}
	}
	if len(repo.users) != 0 {
		t.Fatal("no user may be created from an incomplete signup")
	}
}

func TestAuthService_Signup_UnknownRoleDefaultsToStaff(t *testing.T) {
	_, _, svc := newTestService()

	user, err := svc.Signup(context.Background(), "bob", "bob@x.com", "pw", "superuser")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if user.Role != domain.RoleStaff {
		t.Fatalf("expected staff, got %s", user.Role)
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	_, _, svc := newTestService()

	if _, err := svc.Signup(context.Background(), "alice", "alice@x.com", "pw", ""); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, err := svc.Signup(context.Background(), "alice2", "alice@x.com", "pw", ""); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Signup_DuplicateUsername(t *testing.T) {
	_, _, svc := newTestService()

	_, _ = svc.Signup(context.Background(), "alice", "alice@x.com", "pw", "")
	if _, err := svc.Signup(context.Background(), "alice", "other@x.com", "pw", ""); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Signup_ConcurrentDuplicateSurfacesConflict(t *testing.T) {
	// The repository rejects the insert even when the pre-checks passed,
	// standing in for the storage-level unique index under a race.
	repo, sessions, _ := newTestService()
	raceRepo := &racingRepo{stubUserRepo: repo}
	svc := NewAuthService(raceRepo, sessions, zerolog.Nop())

	if _, err := svc.Signup(context.Background(), "carol", "carol@x.com", "pw", ""); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists from storage-level constraint, got %v", err)
	}
}

type racingRepo struct {
	*stubUserRepo
}

func (r *racingRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	// Simulate a concurrent identical signup landing between the pre-checks
	// and the insert.
	_, _ = r.stubUserRepo.Create(ctx, cloneUser(user))
	return r.stubUserRepo.Create(ctx, user)
}

func TestAuthService_Login_ByUsernameAndEmail(t *testing.T) {
	_, sessions, svc := newTestService()

	created, err := svc.Signup(context.Background(), "alice", "alice@x.com", "pw123", "")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	for _, identifier := range []string{"alice", "alice@x.com"} {
		token, user, err := svc.Login(context.Background(), identifier, "pw123")
		if err != nil {
			t.Fatalf("login by %q failed: %v", identifier, err)
		}
		if token == "" {
			t.Fatal("expected a session token")
		}
		if user.ID != created.ID {
			t.Fatalf("expected user %s, got %s", created.ID, user.ID)
		}
		attrs, err := sessions.Read(context.Background(), token)
		if err != nil {
			t.Fatalf("session missing: %v", err)
		}
		if attrs.UserID != created.ID || attrs.Username != "alice" || attrs.Role != domain.RoleStaff {
			t.Fatalf("unexpected session attrs: %+v", attrs)
		}
	}
}

func TestAuthService_Login_IndistinctFailures(t *testing.T) {
	_, _, svc := newTestService()
	_, _ = svc.Signup(context.Background(), "dave", "dave@x.com", "goodpass", "")

	_, _, wrongPass := svc.Login(context.Background(), "dave", "badpass")
	_, _, noUser := svc.Login(context.Background(), "ghost", "whatever")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(noUser, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", noUser)
	}
	if wrongPass.Error() != noUser.Error() {
		t.Fatal("failure shapes must be identical to avoid account enumeration")
	}
}

func TestAuthService_Login_OAuthOnlyAccountRejectsPassword(t *testing.T) {
	_, _, svc := newTestService()

	_, _, err := svc.OAuthLoginOrCreate(context.Background(), domain.ProviderProfile{
		Subject: "g1", Email: "eve@x.com", EmailVerified: true, DisplayName: "eve",
	})
	if err != nil {
		t.Fatalf("oauth login failed: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "eve@x.com", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "eve@x.com", "anything"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials against empty stored hash, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	_, sessions, svc := newTestService()
	_, _ = svc.Signup(context.Background(), "alice", "alice@x.com", "pw", "")
	token, _, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("logout returned error: %v", err)
	}
	if _, err := sessions.Read(context.Background(), token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session gone after logout, got %v", err)
	}

	// Unknown and empty tokens still succeed.
	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("repeat logout returned error: %v", err)
	}
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("anonymous logout returned error: %v", err)
	}
}

func TestAuthService_OAuth_Idempotent(t *testing.T) {
	repo, _, svc := newTestService()

	profile := domain.ProviderProfile{Subject: "g2", Email: "frank@x.com", EmailVerified: true, DisplayName: "frank"}
	_, first, err := svc.OAuthLoginOrCreate(context.Background(), profile)
	if err != nil {
		t.Fatalf("first oauth login failed: %v", err)
	}
	_, second, err := svc.OAuthLoginOrCreate(context.Background(), profile)
	if err != nil {
		t.Fatalf("second oauth login failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same user on replay, got %s then %s", first.ID, second.ID)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one user record, got %d", len(repo.users))
	}
}

func TestAuthService_OAuth_UnverifiedEmailRejected(t *testing.T) {
	repo, sessions, svc := newTestService()

	_, _, err := svc.OAuthLoginOrCreate(context.Background(), domain.ProviderProfile{
		Subject: "g3", Email: "mallory@x.com", EmailVerified: false, DisplayName: "mallory",
	})
	if !errors.Is(err, domain.ErrEmailUnverified) {
		t.Fatalf("expected ErrEmailUnverified, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatal("no user may be created for an unverified email")
	}
	if len(sessions.sessions) != 0 {
		t.Fatal("no session may be established for an unverified email")
	}
}

func TestAuthService_OAuth_UsernameCollisionGetsSuffix(t *testing.T) {
	_, _, svc := newTestService()
	_, _ = svc.Signup(context.Background(), "grace", "grace@x.com", "pw", "")

	_, user, err := svc.OAuthLoginOrCreate(context.Background(), domain.ProviderProfile{
		Subject: "g4", Email: "grace@provider.com", EmailVerified: true, DisplayName: "grace",
	})
	if err != nil {
		t.Fatalf("oauth login failed: %v", err)
	}
	if user.Username == "grace" {
		t.Fatal("expected a uniquified username")
	}
	if user.Email != "grace@provider.com" {
		t.Fatalf("unexpected email: %s", user.Email)
	}
}

func TestAuthService_ReloginOverwritesIdentity(t *testing.T) {
	_, sessions, svc := newTestService()
	_, _ = svc.Signup(context.Background(), "alice", "alice@x.com", "pw", "")
	_, _ = svc.Signup(context.Background(), "hank", "hank@x.com", "pw", "admin")

	tokenA, _, _ := svc.Login(context.Background(), "alice", "pw")
	tokenB, userB, err := svc.Login(context.Background(), "hank", "pw")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if tokenA == tokenB {
		t.Fatal("each login must mint a fresh token")
	}
	attrs, err := sessions.Read(context.Background(), tokenB)
	if err != nil {
		t.Fatalf("session missing: %v", err)
	}
	if attrs.UserID != userB.ID || attrs.Role != domain.RoleAdmin {
		t.Fatalf("unexpected attrs: %+v", attrs)
	}
}
