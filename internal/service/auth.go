package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shopcart/internal/events"
	"github.com/Skotchmaster/shopcart/internal/models"
	"github.com/Skotchmaster/shopcart/internal/repo"
	"github.com/Skotchmaster/shopcart/internal/transport"
	pkg_hash "github.com/Skotchmaster/shopcart/pkg/hash"
	"github.com/Skotchmaster/shopcart/pkg/logging"
	"github.com/Skotchmaster/shopcart/pkg/tokens"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// GoogleVerifier checks a Google ID token and returns its identity.
type GoogleVerifier interface {
	Verify(ctx context.Context, credential string) (*transport.GoogleIdentity, error)
}

// AuthService issues access tokens. Google is nil when Google sign-in is off.
type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
	Events    events.Publisher
	Google    GoogleVerifier
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("email required: %w", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("email is malformed: %w", ErrValidation)
	}
	return email, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)

	token, err := tokens.NewAccessToken(s.JWTSecret, user.ID.String(), user.Role, now, exp)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: user}, nil
}

func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name required: %w", ErrValidation)
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("password required: %w", ErrValidation)
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		l.Error("signup_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		AuthProvider: models.AuthProviderLocal,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, fmt.Errorf("user already exists: %w", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	publish(ctx, s.Events, events.TopicUser, user.ID.String(), events.Event{Type: "user_registered", UserID: user.ID.String()})
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("password required: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// GoogleAuth signs in with a Google ID token. The identity comes only from
// the verified token; an existing account with the same verified email is
// linked instead of duplicated.
func (s *AuthService) GoogleAuth(ctx context.Context, credential string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.google")

	if s.Google == nil {
		return nil, fmt.Errorf("google sign-in is not configured: %w", ErrInvalidState)
	}
	if strings.TrimSpace(credential) == "" {
		return nil, fmt.Errorf("credential required: %w", ErrValidation)
	}

	id, err := s.Google.Verify(ctx, credential)
	if err != nil {
		l.Warn("google_verify_failed", "error", err)
		return nil, ErrInvalidCredentials
	}
	if !id.EmailVerified {
		return nil, ErrInvalidCredentials
	}
	email, err := normalizeEmail(id.Email)
	if err != nil {
		return nil, err
	}

	user, err := s.Repo.GetUserByGoogleID(ctx, id.Subject)
	if err == nil {
		return s.issue(user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load user: %w", err)
	}

	user, err = s.Repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.GoogleID != "" {
			// the email belongs to a different Google account
			return nil, ErrInvalidCredentials
		}
		if err := s.Repo.LinkGoogleAccount(ctx, user.ID, id.Subject); err != nil {
			return nil, fmt.Errorf("link google account: %w", err)
		}
		user.GoogleID = id.Subject
		l.Info("google_account_linked", "user_id", user.ID)
		return s.issue(user)

	case errors.Is(err, gorm.ErrRecordNotFound):
		name := strings.TrimSpace(id.Name)
		if name == "" {
			name = email
		}
		user = &models.User{
			Name:         name,
			Email:        email,
			GoogleID:     id.Subject,
			AuthProvider: models.AuthProviderGoogle,
			Role:         models.RoleUser,
		}
		if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
			if errors.Is(err, repo.ErrUserAlreadyExist) {
				return nil, fmt.Errorf("user already exists: %w", ErrConflict)
			}
			return nil, fmt.Errorf("create user: %w", err)
		}
		publish(ctx, s.Events, events.TopicUser, user.ID.String(), events.Event{Type: "user_registered", UserID: user.ID.String()})
		return s.issue(user)

	default:
		return nil, fmt.Errorf("load user: %w", err)
	}
}
