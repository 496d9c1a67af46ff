package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"p2v/internal/common"
	"p2v/internal/common/security"
	"p2v/internal/domain/model"
	"p2v/internal/domain/repository"
	"p2v/internal/platform/logger"
	"p2v/internal/platform/metrics"
)

const TokenTypeBearer = "bearer"

// IdentityVerifier checks a third-party identity assertion.
type IdentityVerifier interface {
	Verify(ctx context.Context, assertion string) (*security.IdentityClaims, error)
}

type AuthService struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
	tokens   *security.TokenService
	google   IdentityVerifier
	log      *logger.Logger
	metrics  metrics.Recorder
}

// NewAuthService wires the login flows. google may be nil, which disables
// Google login.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher security.PasswordHasher,
	tokens *security.TokenService,
	google IdentityVerifier,
	log *logger.Logger,
	rec metrics.Recorder,
) *AuthService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		google:   google,
		log:      log.With("service", "AuthService"),
		metrics:  rec,
	}
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	Token string `json:"token"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// Register creates a local account with role user.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if err := validateCredentials(req.Email, req.Password); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.NewLocalUser(req.Email, hashed, req.FirstName, req.LastName)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.RecordUserProvisioned(model.ProviderLocal)
	s.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login checks email and password. Unknown email and wrong password return
// the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, model.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.metrics.RecordLogin(metrics.MethodPassword, metrics.OutcomeFailure)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.HashedPassword == nil || !s.hasher.Verify(req.Password, *user.HashedPassword) {
		s.metrics.RecordLogin(metrics.MethodPassword, metrics.OutcomeFailure)
		return nil, common.ErrInvalidCredentials
	}

	s.metrics.RecordLogin(metrics.MethodPassword, metrics.OutcomeSuccess)
	return s.issue(user)
}

// LoginWithGoogle verifies a Google ID token, links or provisions the user,
// and only then issues a session token.
func (s *AuthService) LoginWithGoogle(ctx context.Context, assertion string) (*TokenResponse, error) {
	if s.google == nil {
		return nil, common.NewError(common.ErrServiceUnavailable, "google login is not configured")
	}

	claims, err := s.google.Verify(ctx, assertion)
	if err != nil {
		s.metrics.RecordLogin(metrics.MethodGoogle, metrics.OutcomeFailure)
		return nil, err
	}

	user, err := s.resolveGoogleUser(ctx, claims)
	if err != nil {
		s.metrics.RecordLogin(metrics.MethodGoogle, metrics.OutcomeFailure)
		return nil, err
	}

	s.metrics.RecordLogin(metrics.MethodGoogle, metrics.OutcomeSuccess)
	return s.issue(user)
}

// CurrentUser resolves a session token to a stored user. A token whose user
// no longer exists is treated like an invalid token.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Warn("session token outlived its user", "user_id", claims.UserID)
			return nil, common.ErrCouldNotValidate
		}
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	return user, nil
}

func (s *AuthService) resolveGoogleUser(ctx context.Context, claims *security.IdentityClaims) (*model.User, error) {
	email := model.NormalizeEmail(claims.Email)

	user, err := s.userRepo.FindByGoogleSub(ctx, claims.Subject)
	switch {
	case err == nil:
		return s.syncEmail(ctx, user, email)
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("failed to find google user: %w", err)
	}

	user = model.NewGoogleUser(claims.Subject, email, claims.GivenName, claims.FamilyName, claims.Picture)
	err = s.userRepo.Create(ctx, user)
	if err == nil {
		s.metrics.RecordUserProvisioned(model.ProviderGoogle)
		s.log.Info("google user provisioned", "user_id", user.ID)
		return user, nil
	}
	if !errors.Is(err, common.ErrConflict) {
		return nil, fmt.Errorf("failed to create google user: %w", err)
	}

	// Lost a race with a concurrent login for the same subject, or the
	// email belongs to another account.
	existing, ferr := s.userRepo.FindByGoogleSub(ctx, claims.Subject)
	if ferr == nil {
		return s.syncEmail(ctx, existing, email)
	}
	if errors.Is(ferr, common.ErrNotFound) {
		return nil, common.NewError(common.ErrConflict, "email is already registered to another account")
	}
	return nil, fmt.Errorf("failed to re-read google user: %w", ferr)
}

func (s *AuthService) syncEmail(ctx context.Context, user *model.User, email string) (*model.User, error) {
	if user.Email == email {
		return user, nil
	}
	if err := s.userRepo.UpdateEmail(ctx, user.ID, email); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.NewError(common.ErrConflict, "email is already registered to another account")
		}
		return nil, fmt.Errorf("failed to update email: %w", err)
	}
	s.log.Info("google user email changed", "user_id", user.ID)
	user.Email = email
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*TokenResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int(s.tokens.TTL() / time.Second),
	}, nil
}
