package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academy-api/internal/models"
	"github.com/noah-isme/academy-api/internal/repository"
	appErrors "github.com/noah-isme/academy-api/pkg/errors"
)

type authUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	LinkTeacher(ctx context.Context, id, teacherID int64) error
}

type authTeacherRepository interface {
	FindByTeacherID(ctx context.Context, teacherID string) (*models.Teacher, error)
}

type tokenBlacklist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

type txManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret             string
	Issuer             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	BcryptCost         int
}

// AuthService provides authentication use cases.
type AuthService struct {
	users     authUserRepository
	teachers  authTeacherRepository
	blacklist tokenBlacklist
	tx        txManager
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, teachers authTeacherRepository, blacklist tokenBlacklist, tx txManager, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:     users,
		teachers:  teachers,
		blacklist: blacklist,
		tx:        tx,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		config:    config,
		now:       time.Now,
	}
}

// Login resolves (username, password, role) to a principal and issues a token pair.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	role, ok := models.ParseRole(req.Role)
	if !ok {
		s.metrics.RecordLogin("", LoginBadRequest)
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "invalid request")
	}

	var (
		user *models.User
		err  error
	)
	switch role {
	case models.RoleTeacher:
		user, err = s.loginTeacher(ctx, req.Username, req.Password)
	case models.RoleAdmin:
		user, err = s.loginAdmin(ctx, req.Username, req.Password)
	default:
		err = appErrors.Clone(appErrors.ErrBadRequest, "invalid request")
	}
	if err != nil {
		outcome := LoginFailed
		if appErrors.Is(err, appErrors.ErrInvalidCredentials) {
			outcome = LoginRejected
		}
		s.metrics.RecordLogin(string(role), outcome)
		return nil, err
	}

	resp, err := s.issueTokenPair(user)
	if err != nil {
		s.metrics.RecordLogin(string(role), LoginFailed)
		return nil, err
	}
	s.metrics.RecordLogin(string(role), LoginSucceeded)
	return resp, nil
}

func (s *AuthService) loginTeacher(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	return s.provisionFromLegacy(ctx, username, password)
}

func (s *AuthService) loginAdmin(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials or not an admin")
	}
	return user, nil
}

// authenticate is the standard credential check. A nil user without error means no match.
func (s *AuthService) authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, nil
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Internal(err, "failed to fetch user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}
	return user, nil
}

// provisionFromLegacy upgrades a teacher's legacy credential into a login account,
// then re-runs the standard credential check.
func (s *AuthService) provisionFromLegacy(ctx context.Context, username, password string) (*models.User, error) {
	teacher, err := s.teachers.FindByTeacherID(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
		}
		return nil, appErrors.Internal(err, "failed to fetch teacher")
	}
	if !legacyPasswordMatches(teacher.Passwd, password) {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	created := false
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, isNew, err := s.getOrCreateTeacherUser(ctx, teacher, string(hash))
		if err != nil {
			return err
		}
		created = isNew
		if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
			return err
		}
		if user.TeacherID == nil || *user.TeacherID != teacher.ID {
			return s.users.LinkTeacher(ctx, user.ID, teacher.ID)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("legacy teacher provisioning failed", zap.String("teacher_id", teacher.TeacherID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to provision teacher account")
	}
	if created {
		s.metrics.RecordProvisionedAccount()
	}
	s.logger.Info("teacher account provisioned from legacy credentials",
		zap.String("teacher_id", teacher.TeacherID), zap.Bool("created", created))

	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, appErrors.Internal(errors.New("re-authentication failed after provisioning"), "failed to provision teacher account")
	}
	return user, nil
}

// legacyPasswordMatches is the only place a stored password is compared without
// the one-way hash. It serves the first-login upgrade of plaintext teacher records;
// a stored bcrypt hash never matches.
func legacyPasswordMatches(stored, supplied string) bool {
	if stored == "" {
		return false
	}
	if _, err := bcrypt.Cost([]byte(stored)); err == nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

func (s *AuthService) getOrCreateTeacherUser(ctx context.Context, teacher *models.Teacher, hash string) (*models.User, bool, error) {
	user, err := s.users.FindByUsername(ctx, teacher.TeacherID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	teacherID := teacher.ID
	user = &models.User{
		Username:     teacher.TeacherID,
		PasswordHash: hash,
		Role:         models.RoleTeacher,
		DisplayName:  teacher.Name,
		TeacherID:    &teacherID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			existing, err := s.users.FindByUsername(ctx, teacher.TeacherID)
			return existing, false, err
		}
		return nil, false, err
	}
	return user, true, nil
}

// Refresh mints a new access token from a refresh token that is neither expired nor revoked.
func (s *AuthService) Refresh(ctx context.Context, req models.RefreshRequest) (*models.RefreshResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid refresh payload")
	}

	claims, err := s.parseToken(req.Refresh, models.TokenRefresh)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid refresh token")
	}

	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check token blacklist")
	}
	if revoked {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token is blacklisted")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "associated user no longer exists")
		}
		return nil, appErrors.Internal(err, "failed to load user")
	}

	access, err := s.signToken(user, models.TokenAccess, s.config.AccessTokenExpiry)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}
	return &models.RefreshResponse{Access: access}, nil
}

// Logout blacklists the refresh token until it expires. Every failure is a bad request.
func (s *AuthService) Logout(ctx context.Context, req models.LogoutRequest) error {
	if req.Refresh == "" {
		return appErrors.Clone(appErrors.ErrBadRequest, "refresh token is required")
	}
	claims, err := s.parseToken(req.Refresh, models.TokenRefresh)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "invalid refresh token")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.Add(ctx, claims.ID, ttl); err != nil {
		s.logger.Warn("failed to blacklist refresh token", zap.Int64("user_id", claims.UserID), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "failed to revoke token")
	}
	return nil
}

// ChangePassword changes the password for the given user ID.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req models.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid change password payload")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Internal(err, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return appErrors.Clone(appErrors.ErrForbidden, "old password does not match")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.config.BcryptCost)
	if err != nil {
		return appErrors.Internal(err, "failed to hash password")
	}

	if err := s.users.UpdatePassword(ctx, userID, string(newHash)); err != nil {
		return appErrors.Internal(err, "failed to update password")
	}
	return nil
}

// ValidateToken parses an access token returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims, err := s.parseToken(tokenString, models.TokenAccess)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	return claims, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	existing, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			s.logger.Warn("bootstrap admin username belongs to a non-admin account", zap.String("username", username))
		}
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("lookup bootstrap admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap admin password: %w", err)
	}
	admin := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		DisplayName:  username,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil
		}
		return fmt.Errorf("create bootstrap admin: %w", err)
	}
	s.logger.Info("bootstrap admin created", zap.String("username", username), zap.Int64("user_id", admin.ID))
	return nil
}

func (s *AuthService) issueTokenPair(user *models.User) (*models.LoginResponse, error) {
	access, err := s.signToken(user, models.TokenAccess, s.config.AccessTokenExpiry)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}
	refresh, err := s.signToken(user, models.TokenRefresh, s.config.RefreshTokenExpiry)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create refresh token")
	}
	return &models.LoginResponse{
		Access:  access,
		Refresh: refresh,
		User: models.LoginUser{
			ID:       user.ID,
			Name:     user.Username,
			Position: user.Role.DisplayName(),
		},
	}, nil
}

func (s *AuthService) signToken(user *models.User, tokenType models.TokenType, ttl time.Duration) (string, error) {
	issuedAt := s.now().UTC()
	claims := &models.JWTClaims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}

func (s *AuthService) parseToken(raw string, expected models.TokenType) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(raw, &models.JWTClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenType != expected {
		return nil, fmt.Errorf("expected %s token, got %q", expected, claims.TokenType)
	}
	return claims, nil
}
