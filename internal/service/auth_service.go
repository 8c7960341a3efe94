package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/router"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type authUpstream interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error
	VerifyResetCode(ctx context.Context, req models.VerifyResetCodeRequest) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
}

type sessionStore interface {
	Save(ctx context.Context, sess *models.Session) error
	Current(ctx context.Context, id string) *models.Session
	Clear(ctx context.Context, id string) error
}

// AuthConfig defines configuration for the session lifecycle.
type AuthConfig struct {
	SessionTTL time.Duration
	JWTSecret  string
}

// AuthService runs the login flow against the upstream API and owns the
// resulting browser session.
type AuthService struct {
	upstream  authUpstream
	store     sessionStore
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(upstream authUpstream, store sessionStore, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = 24 * time.Hour
	}
	return &AuthService{
		upstream:  upstream,
		store:     store,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Login authenticates against the upstream API, persists a session and
// returns the session handle with the role's landing path.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	result, err := s.upstream.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	role := result.User.Role
	if claims := s.parseClaims(result.Token); claims != nil {
		// The signed token is authoritative when it disagrees with the body.
		if claims.Role != "" && claims.Role != role {
			s.logger.Warn("login role mismatch between token and body",
				zap.String("token_role", string(claims.Role)),
				zap.String("body_role", string(role)))
			role = claims.Role
		}
	}
	if !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrMalformedRecord, "login response carries an unknown role")
	}

	now := s.now()
	sess := &models.Session{
		ID:    uuid.NewString(),
		Token: result.Token,
		Role:  role,
		Profile: &models.UserProfile{
			ID:        result.User.ID,
			FirstName: result.User.FirstName,
			LastName:  result.User.LastName,
			Email:     result.User.Email,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.SessionTTL),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	return &models.SessionResponse{
		SessionID:   sess.ID,
		Role:        sess.Role,
		Profile:     sess.Profile,
		LandingPath: router.LandingPath(sess.Role),
	}, nil
}

// Logout discards the session. Unknown session IDs succeed silently.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.store.Clear(ctx, sessionID)
}

// Current resolves the active session, or ErrUnauthenticated when none exists.
func (s *AuthService) Current(ctx context.Context, sessionID string) (*models.SessionResponse, error) {
	sess := s.store.Current(ctx, sessionID)
	if !sess.Authenticated() {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "no active session")
	}
	return &models.SessionResponse{
		SessionID:   sess.ID,
		Role:        sess.Role,
		Profile:     sess.Profile,
		LandingPath: router.LandingPath(sess.Role),
	}, nil
}

// ForgotPassword proxies the reset email request.
func (s *AuthService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid email")
	}
	return s.upstream.ForgotPassword(ctx, req)
}

// VerifyResetCode proxies the reset code check.
func (s *AuthService) VerifyResetCode(ctx context.Context, req models.VerifyResetCodeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reset code payload")
	}
	return s.upstream.VerifyResetCode(ctx, req)
}

// ResetPassword proxies the final reset step.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reset payload")
	}
	return s.upstream.ResetPassword(ctx, req)
}

// parseClaims verifies the upstream token with the shared secret and returns
// its claims. Without a configured secret, or on any parse failure, nil is
// returned and the response body role is used as-is.
func (s *AuthService) parseClaims(token string) *models.TokenClaims {
	if s.config.JWTSecret == "" {
		return nil
	}
	claims := &models.TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		s.logger.Warn("upstream token verification failed", zap.Error(err))
		return nil
	}
	return claims
}
