package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskboard/internal/auth"
	"taskboard/internal/entity"
	"taskboard/internal/model"
)

var (
	// ErrInvalidCredentials covers every login failure: unknown email, bad
	// password and disabled account. Callers must not distinguish them.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidRefreshToken covers every refresh failure: malformed token,
	// revoked or expired session, and reuse of an already-rotated token.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	ErrInvalidResetToken        = errors.New("invalid or expired reset token")
	ErrInvalidVerificationToken = errors.New("invalid or expired verification token")

	// ErrNotAuthenticated covers every access-token failure.
	ErrNotAuthenticated = errors.New("not authenticated")
)

const (
	emailVerificationTTL = 24 * time.Hour
	passwordResetTTL     = time.Hour
)

// ClientInfo carries request metadata recorded on sessions.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// AuthService implements the account lifecycle: signup, login, token
// refresh, logout and password recovery. Every mutation leaves an audit
// entry.
type AuthService struct {
	repo       model.Repository
	tokens     *auth.Manager
	bcryptCost int
}

// NewAuthService creates an auth service instance.
func NewAuthService(repo model.Repository, tokens *auth.Manager, bcryptCost int) *AuthService {
	return &AuthService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Login verifies credentials and opens a new session. All failure modes
// collapse into ErrInvalidCredentials so responses cannot be used to probe
// which accounts exist.
func (s *AuthService) Login(ctx context.Context, req entity.AuthLoginRequest, client ClientInfo) (*entity.AuthResponse, error) {
	if s == nil || s.repo == nil || s.tokens == nil {
		return nil, fmt.Errorf("auth service not initialised")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// Burn a comparison anyway so the timing of the response does not
		// reveal whether the email exists.
		auth.VerifyPassword("", req.Password)
		return nil, ErrInvalidCredentials
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		logrus.WithField("user_id", user.ID).Warn("login rejected: wrong password")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		logrus.WithField("user_id", user.ID).Warn("login rejected: account disabled")
		return nil, ErrInvalidCredentials
	}

	resp, err := s.openSession(ctx, user, client)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.repo.UpdateUser(ctx, user.ID, entity.UserUpdates{LastLoginAt: &now}); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("failed to record last login")
	}
	s.audit(ctx, user, entity.AuditActionLogin, entity.AuditEntityAuth, user.ID, nil)

	return resp, nil
}

// Signup registers a new account with the default role and opens a session.
func (s *AuthService) Signup(ctx context.Context, req entity.AuthSignupRequest, client ClientInfo) (*entity.AuthResponse, error) {
	if s == nil || s.repo == nil || s.tokens == nil {
		return nil, fmt.Errorf("auth service not initialised")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPasswordWithCost(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	verificationToken, err := auth.GenerateRandomToken()
	if err != nil {
		return nil, err
	}
	verificationExpires := time.Now().Add(emailVerificationTTL)

	user := &entity.DbUser{
		ID:                       uuid.NewString(),
		Email:                    email,
		PasswordHash:             hash,
		FirstName:                strings.TrimSpace(req.FirstName),
		LastName:                 strings.TrimSpace(req.LastName),
		Role:                     entity.UserRoleUser,
		IsActive:                 true,
		EmailVerificationToken:   &verificationToken,
		EmailVerificationExpires: &verificationExpires,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.audit(ctx, user, entity.AuditActionCreate, entity.AuditEntityUser, user.ID, entity.JSONMap{"via": "signup"})
	s.welcome(ctx, user)

	return s.openSession(ctx, user, client)
}

// Refresh redeems a refresh token for a new token pair. The session keeps
// its identity; only the stored refresh token rotates, and the rotation is
// guarded so a given token can be redeemed at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*entity.AuthResponse, error) {
	if s == nil || s.repo == nil || s.tokens == nil {
		return nil, fmt.Errorf("auth service not initialised")
	}

	claims, err := s.tokens.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if claims.SessionID == "" {
		return nil, ErrInvalidRefreshToken
	}

	session, err := s.repo.GetSessionByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if session.UserID != claims.Subject || session.RefreshToken != refreshToken || !session.IsUsable(time.Now()) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidRefreshToken
	}

	accessToken, _, err := s.tokens.GenerateAccessToken(user, session.ID)
	if err != nil {
		return nil, err
	}
	newRefreshToken, refreshExpiry, err := s.tokens.GenerateRefreshToken(user, session.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.repo.RotateSessionToken(ctx, session.ID, refreshToken, entity.SessionUpdates{
		RefreshToken: &newRefreshToken,
		ExpiresAt:    &refreshExpiry,
		LastUsedAt:   &now,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The presented token was already rotated or the session was
			// revoked between the read and the update. Treat as reuse.
			logrus.WithFields(logrus.Fields{
				"user_id":    user.ID,
				"session_id": session.ID,
			}).Warn("refresh token reuse detected")
			s.appendAudit(ctx, user.ID, user.Email, entity.AuditActionLogout, entity.AuditEntityAuth, session.ID,
				entity.JSONMap{"reason": "refresh_reuse"})
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	return &entity.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
		TokenType:    "Bearer",
		User:         entity.MakeUserSummary(user),
	}, nil
}

// Logout revokes a session. With an explicit session id the caller may only
// revoke their own session; without one the principal's current session is
// revoked, and if the token carries no session id every session of the user
// is revoked.
func (s *AuthService) Logout(ctx context.Context, principal auth.Principal, sessionID string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("auth service not initialised")
	}

	target := strings.TrimSpace(sessionID)
	if target == "" {
		target = principal.SessionID
	}
	if target == "" {
		return s.LogoutAll(ctx, principal)
	}

	session, err := s.repo.GetSessionByID(ctx, target)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if session.UserID != principal.UserID {
		return auth.ErrOwnershipDenied
	}
	if err := s.repo.InvalidateSession(ctx, session.ID); err != nil {
		return err
	}
	s.auditPrincipal(ctx, principal, entity.AuditActionLogout, entity.AuditEntityAuth, session.ID, nil)
	return nil
}

// LogoutAll revokes every active session of the principal.
func (s *AuthService) LogoutAll(ctx context.Context, principal auth.Principal) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("auth service not initialised")
	}
	if err := s.repo.InvalidateUserSessions(ctx, principal.UserID); err != nil {
		return err
	}
	s.auditPrincipal(ctx, principal, entity.AuditActionLogout, entity.AuditEntityAuth, principal.UserID, entity.JSONMap{"scope": "all"})
	return nil
}

// ForgotPassword issues a password reset token. The outcome is identical
// whether or not the email matches an account.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("auth service not initialised")
	}

	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := auth.GenerateRandomToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(passwordResetTTL)
	err = s.repo.UpdateUser(ctx, user.ID, entity.UserUpdates{
		ResetPasswordToken:   &token,
		ResetPasswordExpires: &expires,
	})
	if err != nil {
		return err
	}

	// Mail delivery is out of process; the token is only ever written to the
	// user row, never to logs.
	logrus.WithField("user_id", user.ID).Info("password reset token issued")
	return nil
}

// ResetPassword consumes a reset token, replaces the password and revokes
// every session of the account.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("auth service not initialised")
	}

	user, err := s.repo.GetUserByResetToken(ctx, strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hash, err := auth.HashPasswordWithCost(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	err = s.repo.UpdateUser(ctx, user.ID, entity.UserUpdates{
		PasswordHash:            &hash,
		ClearResetPasswordToken: true,
	})
	if err != nil {
		return err
	}
	if err := s.repo.InvalidateUserSessions(ctx, user.ID); err != nil {
		return err
	}

	s.audit(ctx, user, entity.AuditActionUpdate, entity.AuditEntityAuth, user.ID, entity.JSONMap{"via": "password_reset"})
	return nil
}

// VerifyEmail consumes an email verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("auth service not initialised")
	}

	user, err := s.repo.GetUserByVerificationToken(ctx, strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidVerificationToken
		}
		return err
	}

	verified := true
	return s.repo.UpdateUser(ctx, user.ID, entity.UserUpdates{
		IsEmailVerified:             &verified,
		ClearEmailVerificationToken: true,
	})
}

// Authenticate resolves an access token into a live principal: the token
// must verify, the account must still be active, and the session the token
// was minted under must not have been revoked. Every failure mode collapses
// into ErrNotAuthenticated.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*auth.Principal, error) {
	if s == nil || s.repo == nil || s.tokens == nil {
		return nil, fmt.Errorf("auth service not initialised")
	}

	claims, err := s.tokens.ParseToken(accessToken)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	user, err := s.repo.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrNotAuthenticated
	}

	if claims.SessionID != "" {
		session, err := s.repo.GetSessionByID(ctx, claims.SessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotAuthenticated
			}
			return nil, err
		}
		if session.UserID != user.ID || !session.IsActive {
			return nil, ErrNotAuthenticated
		}
	}

	principal := auth.NewPrincipal(user, claims.SessionID)
	return &principal, nil
}

// ListSessions returns the principal's sessions for device review.
func (s *AuthService) ListSessions(ctx context.Context, principal auth.Principal, activeOnly bool) ([]entity.DbSession, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("auth service not initialised")
	}
	return s.repo.ListUserSessions(ctx, principal.UserID, activeOnly)
}

// openSession mints a token pair and persists the backing session row.
func (s *AuthService) openSession(ctx context.Context, user *entity.DbUser, client ClientInfo) (*entity.AuthResponse, error) {
	sessionID := uuid.NewString()

	accessToken, _, err := s.tokens.GenerateAccessToken(user, sessionID)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExpiry, err := s.tokens.GenerateRefreshToken(user, sessionID)
	if err != nil {
		return nil, err
	}

	session := &entity.DbSession{
		ID:           sessionID,
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    refreshExpiry,
		IsActive:     true,
		LastUsedAt:   time.Now(),
		UserAgent:    client.UserAgent,
		IPAddress:    client.IPAddress,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &entity.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
		TokenType:    "Bearer",
		User:         entity.MakeUserSummary(user),
	}, nil
}

func (s *AuthService) welcome(ctx context.Context, user *entity.DbUser) {
	notification := &entity.DbNotification{
		ID:       uuid.NewString(),
		Type:     entity.NotificationWelcome,
		Priority: entity.NotificationPriorityNormal,
		Title:    "Welcome aboard",
		Message:  fmt.Sprintf("Hi %s, your account is ready.", user.FirstName),
		UserID:   user.ID,
	}
	if err := s.repo.CreateNotification(ctx, notification); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("failed to create welcome notification")
	}
}

func (s *AuthService) audit(ctx context.Context, user *entity.DbUser, action, entityType, entityID string, detail entity.JSONMap) {
	s.appendAudit(ctx, user.ID, user.Email, action, entityType, entityID, detail)
}

func (s *AuthService) auditPrincipal(ctx context.Context, principal auth.Principal, action, entityType, entityID string, detail entity.JSONMap) {
	s.appendAudit(ctx, principal.UserID, principal.Email, action, entityType, entityID, detail)
}

// appendAudit records best-effort: an audit write failure must not fail the
// user-visible operation.
func (s *AuthService) appendAudit(ctx context.Context, actorID, actorEmail, action, entityType, entityID string, detail entity.JSONMap) {
	entry := &entity.DbAuditLog{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		ActorEmail: actorEmail,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if err := s.repo.AppendAuditLog(ctx, entry); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"actor_id": actorID,
			"action":   action,
		}).Warn("failed to append audit entry")
	}
}
