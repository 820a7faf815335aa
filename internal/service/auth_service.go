package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"galleria/api/internal/config"
	"galleria/api/internal/ids"
	"galleria/api/internal/models"
	"galleria/api/internal/repository"
	"galleria/api/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidIDToken     = errors.New("invalid identity token")
)

type AuthService struct {
	admins   AdminStore
	users    UserStore
	verifier TokenVerifier
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(admins AdminStore, users UserStore, verifier TokenVerifier, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		admins:   admins,
		users:    users,
		verifier: verifier,
		cfg:      cfg,
		log:      log,
	}
}

type RegisterAdminInput struct {
	Email    string
	Password string
	Name     string
}

func (s *AuthService) RegisterAdmin(ctx context.Context, input RegisterAdminInput) (models.Admin, string, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if _, err := s.admins.FindByEmail(ctx, input.Email); err == nil {
		return models.Admin{}, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrAdminNotFound) {
		return models.Admin{}, "", err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.Admin{}, "", err
	}

	admin := models.Admin{
		ID:           ids.New(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(input.Name),
		CreatedAt:    nowUTC(),
	}

	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrAdminExists) {
			return models.Admin{}, "", ErrEmailTaken
		}
		return models.Admin{}, "", err
	}

	token, err := security.IssueAdminToken(s.cfg.Security.JWTSecret, admin.ID, admin.Email, s.cfg.Security.AdminTokenTTL)
	if err != nil {
		return models.Admin{}, "", err
	}
	return admin, token, nil
}

func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (models.Admin, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return models.Admin{}, "", ErrInvalidCredentials
		}
		return models.Admin{}, "", err
	}

	ok, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil || !ok {
		return models.Admin{}, "", ErrInvalidCredentials
	}

	token, err := security.IssueAdminToken(s.cfg.Security.JWTSecret, admin.ID, admin.Email, s.cfg.Security.AdminTokenTTL)
	if err != nil {
		return models.Admin{}, "", err
	}
	return admin, token, nil
}

// FederatedLogin exchanges a verified third-party identity token for an
// application session. The user record is matched by federated id first,
// then by email (attaching the federated id to accounts that predate it),
// and created only if neither matches. A duplicate-key failure on insert
// means a concurrent first login already created the record; it is
// re-fetched rather than surfaced as an error.
func (s *AuthService) FederatedLogin(ctx context.Context, rawIDToken string) (models.User, string, error) {
	identity, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("federated token rejected")
		return models.User{}, "", ErrInvalidIDToken
	}

	user, err := s.resolveFederatedUser(ctx, identity)
	if err != nil {
		return models.User{}, "", err
	}

	token, err := security.IssueUserToken(s.cfg.Security.JWTSecret, user.ID, user.Email, s.cfg.Security.UserTokenTTL)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

func (s *AuthService) resolveFederatedUser(ctx context.Context, identity security.FederatedIdentity) (models.User, error) {
	user, err := s.users.FindByFirebaseUID(ctx, identity.Subject)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	if errors.Is(err, repository.ErrUserNotFound) && identity.Email != "" {
		user, err = s.users.FindByEmail(ctx, identity.Email)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, err
		}
	}

	if errors.Is(err, repository.ErrUserNotFound) {
		now := nowUTC()
		user = models.User{
			ID:             ids.New(),
			FirebaseUID:    identity.Subject,
			Email:          identity.Email,
			Name:           displayName(identity),
			ProfilePicture: identity.Picture,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if createErr := s.users.Create(ctx, user); createErr != nil {
			if !errors.Is(createErr, repository.ErrUserExists) {
				return models.User{}, createErr
			}
			// Lost the first-login race; the winner's record is authoritative.
			user, err = s.users.FindByFederated(ctx, identity.Subject, identity.Email)
			if err != nil {
				return models.User{}, fmt.Errorf("recover federated user: %w", err)
			}
		} else {
			return user, nil
		}
	}

	// Refresh linkage and profile on every login.
	user.FirebaseUID = identity.Subject
	if identity.Email != "" {
		user.Email = identity.Email
	}
	if name := displayName(identity); name != "" {
		user.Name = name
	}
	if identity.Picture != "" {
		user.ProfilePicture = identity.Picture
	}
	user.UpdatedAt = nowUTC()

	if err := s.users.Update(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ResolveAdmin maps a raw admin token to its stored principal.
func (s *AuthService) ResolveAdmin(ctx context.Context, token string) (models.Admin, error) {
	claims, err := security.ParseAdminToken(token, s.cfg.Security.JWTSecret)
	if err != nil || claims.Role != models.RoleAdmin {
		return models.Admin{}, security.ErrInvalidToken
	}
	return s.admins.GetByID(ctx, claims.AdminID)
}

// ResolveUser maps a raw user token to its stored principal.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (models.User, error) {
	claims, err := security.ParseUserToken(token, s.cfg.Security.JWTSecret)
	if err != nil {
		return models.User{}, security.ErrInvalidToken
	}
	return s.users.GetByID(ctx, claims.UserID)
}

func displayName(identity security.FederatedIdentity) string {
	if identity.Name != "" {
		return identity.Name
	}
	if identity.Email != "" {
		if at := strings.Index(identity.Email, "@"); at > 0 {
			return identity.Email[:at]
		}
	}
	return "User"
}
