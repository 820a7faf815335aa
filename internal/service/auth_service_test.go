package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galleria/api/internal/config"
	"galleria/api/internal/models"
	"galleria/api/internal/security"
)

func testAppConfig() *config.AppConfig {
	return &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			JWTSecret:     "unit-test-secret",
			AdminTokenTTL: 168 * time.Hour,
			UserTokenTTL:  720 * time.Hour,
		},
	}
}

type authFixture struct {
	svc      *AuthService
	admins   *fakeAdminStore
	users    *fakeUserStore
	verifier *fakeVerifier
	cfg      *config.AppConfig
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		admins:   newFakeAdminStore(),
		users:    newFakeUserStore(),
		verifier: &fakeVerifier{},
		cfg:      testAppConfig(),
	}
	f.svc = NewAuthService(f.admins, f.users, f.verifier, f.cfg, zerolog.Nop())
	return f
}

func TestRegisterAdmin(t *testing.T) {
	f := newAuthFixture(t)

	admin, token, err := f.svc.RegisterAdmin(context.Background(), RegisterAdminInput{
		Email:    "  Admin@Example.COM ",
		Password: "hunter22",
		Name:     " Site Admin ",
	})
	require.NoError(t, err)

	assert.Equal(t, "admin@example.com", admin.Email)
	assert.Equal(t, "Site Admin", admin.Name)
	assert.NotEmpty(t, admin.ID)
	assert.NotEqual(t, "hunter22", admin.PasswordHash)

	ok, err := security.VerifyPassword("hunter22", admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	claims, err := security.ParseAdminToken(token, f.cfg.Security.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestRegisterAdminDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.RegisterAdmin(ctx, RegisterAdminInput{Email: "admin@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, _, err = f.svc.RegisterAdmin(ctx, RegisterAdminInput{Email: "ADMIN@example.com", Password: "other-pass"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginAdmin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, _, err := f.svc.RegisterAdmin(ctx, RegisterAdminInput{Email: "admin@example.com", Password: "hunter22"})
	require.NoError(t, err)

	admin, token, err := f.svc.LoginAdmin(ctx, " ADMIN@example.com ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, admin.ID)
	assert.NotEmpty(t, token)
}

func TestLoginAdminRejections(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.RegisterAdmin(ctx, RegisterAdminInput{Email: "admin@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, _, err = f.svc.LoginAdmin(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.svc.LoginAdmin(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestFederatedLoginCreatesUser(t *testing.T) {
	f := newAuthFixture(t)
	f.verifier.identity = security.FederatedIdentity{
		Subject: "fb-uid-1",
		Email:   "ada@example.com",
		Name:    "Ada Lovelace",
		Picture: "https://example.com/ada.png",
	}

	user, token, err := f.svc.FederatedLogin(context.Background(), "raw-id-token")
	require.NoError(t, err)

	assert.Equal(t, "fb-uid-1", user.FirebaseUID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "https://example.com/ada.png", user.ProfilePicture)
	assert.NotEmpty(t, user.ID)

	claims, err := security.ParseUserToken(token, f.cfg.Security.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestFederatedLoginRefreshesProfile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.users.Create(ctx, models.User{
		ID:          "user-1",
		FirebaseUID: "fb-uid-1",
		Email:       "ada@example.com",
		Name:        "ada",
	}))

	f.verifier.identity = security.FederatedIdentity{
		Subject: "fb-uid-1",
		Email:   "ada@example.com",
		Name:    "Ada Lovelace",
		Picture: "https://example.com/new.png",
	}

	user, _, err := f.svc.FederatedLogin(ctx, "raw-id-token")
	require.NoError(t, err)

	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "https://example.com/new.png", user.ProfilePicture)
}

// An account created before federated login existed has an email but no
// federated id; the first federated login attaches it.
func TestFederatedLoginAttachesUIDByEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.users.Create(ctx, models.User{
		ID:    "user-1",
		Email: "ada@example.com",
		Name:  "Ada",
	}))

	f.verifier.identity = security.FederatedIdentity{
		Subject: "fb-uid-1",
		Email:   "ada@example.com",
	}

	user, _, err := f.svc.FederatedLogin(ctx, "raw-id-token")
	require.NoError(t, err)

	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "fb-uid-1", user.FirebaseUID)

	stored, err := f.users.GetByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "fb-uid-1", stored.FirebaseUID)
}

// Losing the first-login race surfaces the winner's record, not an error.
func TestFederatedLoginRecoversFromInsertRace(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.users.raceWinner = &models.User{
		ID:          "user-winner",
		FirebaseUID: "fb-uid-1",
		Email:       "ada@example.com",
		Name:        "Ada",
	}
	f.verifier.identity = security.FederatedIdentity{
		Subject: "fb-uid-1",
		Email:   "ada@example.com",
	}

	user, _, err := f.svc.FederatedLogin(ctx, "raw-id-token")
	require.NoError(t, err)
	assert.Equal(t, "user-winner", user.ID)
	assert.Equal(t, "fb-uid-1", user.FirebaseUID)
}

func TestFederatedLoginRejectsBadToken(t *testing.T) {
	f := newAuthFixture(t)
	f.verifier.err = errors.New("token expired")

	_, _, err := f.svc.FederatedLogin(context.Background(), "raw-id-token")
	assert.ErrorIs(t, err, ErrInvalidIDToken)
}

func TestFederatedLoginNameFallsBackToEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.verifier.identity = security.FederatedIdentity{
		Subject: "fb-uid-1",
		Email:   "ada@example.com",
	}

	user, _, err := f.svc.FederatedLogin(context.Background(), "raw-id-token")
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Name)
}

func TestResolveAdmin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	admin, token, err := f.svc.RegisterAdmin(ctx, RegisterAdminInput{Email: "admin@example.com", Password: "hunter22"})
	require.NoError(t, err)

	resolved, err := f.svc.ResolveAdmin(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, resolved.ID)

	_, err = f.svc.ResolveAdmin(ctx, "garbage")
	assert.ErrorIs(t, err, security.ErrInvalidToken)

	userToken, err := security.IssueUserToken(f.cfg.Security.JWTSecret, "user-1", "u@example.com", time.Hour)
	require.NoError(t, err)
	_, err = f.svc.ResolveAdmin(ctx, userToken)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestResolveUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.users.Create(ctx, models.User{ID: "user-1", Email: "ada@example.com"}))

	token, err := security.IssueUserToken(f.cfg.Security.JWTSecret, "user-1", "ada@example.com", time.Hour)
	require.NoError(t, err)

	user, err := f.svc.ResolveUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	_, err = f.svc.ResolveUser(ctx, "garbage")
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}
