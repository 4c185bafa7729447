package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/auth"
	"taskboard/internal/entity"
)

// fakeRepo is an in-memory Repository for exercising the auth flows.
type fakeRepo struct {
	mu            sync.Mutex
	users         map[string]*entity.DbUser
	sessions      map[string]*entity.DbSession
	notifications []entity.DbNotification
	auditLogs     []entity.DbAuditLog
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    make(map[string]*entity.DbUser),
		sessions: make(map[string]*entity.DbSession),
	}
}

func (f *fakeRepo) CreateUser(_ context.Context, user *entity.DbUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeRepo) UpdateUser(_ context.Context, id string, updates entity.UserUpdates) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if updates.FirstName != nil {
		user.FirstName = *updates.FirstName
	}
	if updates.LastName != nil {
		user.LastName = *updates.LastName
	}
	if updates.Role != nil {
		user.Role = *updates.Role
	}
	if updates.PasswordHash != nil {
		user.PasswordHash = *updates.PasswordHash
	}
	if updates.IsActive != nil {
		user.IsActive = *updates.IsActive
	}
	if updates.IsEmailVerified != nil {
		user.IsEmailVerified = *updates.IsEmailVerified
	}
	if updates.EmailVerificationToken != nil {
		user.EmailVerificationToken = updates.EmailVerificationToken
	}
	if updates.EmailVerificationExpires != nil {
		user.EmailVerificationExpires = updates.EmailVerificationExpires
	}
	if updates.ResetPasswordToken != nil {
		user.ResetPasswordToken = updates.ResetPasswordToken
	}
	if updates.ResetPasswordExpires != nil {
		user.ResetPasswordExpires = updates.ResetPasswordExpires
	}
	if updates.LastLoginAt != nil {
		user.LastLoginAt = updates.LastLoginAt
	}
	if updates.ClearEmailVerificationToken {
		user.EmailVerificationToken = nil
		user.EmailVerificationExpires = nil
	}
	if updates.ClearResetPasswordToken {
		user.ResetPasswordToken = nil
		user.ResetPasswordExpires = nil
	}
	return nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*entity.DbUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetUserByID(_ context.Context, id string) (*entity.DbUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepo) GetUserByResetToken(_ context.Context, token string) (*entity.DbUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ResetPasswordToken != nil && *user.ResetPasswordToken == token &&
			user.ResetPasswordExpires != nil && user.ResetPasswordExpires.After(time.Now()) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetUserByVerificationToken(_ context.Context, token string) (*entity.DbUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.EmailVerificationToken != nil && *user.EmailVerificationToken == token &&
			user.EmailVerificationExpires != nil && user.EmailVerificationExpires.After(time.Now()) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListUsers(_ context.Context, _ *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error) {
	return nil, nil, nil
}

func (f *fakeRepo) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

func (f *fakeRepo) CountUsers(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeRepo) CreateSession(_ context.Context, session *entity.DbSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeRepo) GetSessionByID(_ context.Context, id string) (*entity.DbSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *fakeRepo) GetSessionByRefreshToken(_ context.Context, refreshToken string) (*entity.DbSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, session := range f.sessions {
		if session.RefreshToken == refreshToken {
			copied := *session
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) RotateSessionToken(_ context.Context, sessionID, presentedToken string, updates entity.SessionUpdates) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[sessionID]
	if !ok || session.RefreshToken != presentedToken || !session.IsActive {
		return gorm.ErrRecordNotFound
	}
	if updates.RefreshToken != nil {
		session.RefreshToken = *updates.RefreshToken
	}
	if updates.ExpiresAt != nil {
		session.ExpiresAt = *updates.ExpiresAt
	}
	if updates.IsActive != nil {
		session.IsActive = *updates.IsActive
	}
	if updates.LastUsedAt != nil {
		session.LastUsedAt = *updates.LastUsedAt
	}
	return nil
}

func (f *fakeRepo) InvalidateSession(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if session, ok := f.sessions[sessionID]; ok {
		session.IsActive = false
	}
	return nil
}

func (f *fakeRepo) InvalidateUserSessions(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, session := range f.sessions {
		if session.UserID == userID {
			session.IsActive = false
		}
	}
	return nil
}

func (f *fakeRepo) ListUserSessions(_ context.Context, userID string, activeOnly bool) ([]entity.DbSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sessions []entity.DbSession
	for _, session := range f.sessions {
		if session.UserID != userID {
			continue
		}
		if activeOnly && !session.IsActive {
			continue
		}
		sessions = append(sessions, *session)
	}
	return sessions, nil
}

func (f *fakeRepo) CreateOrganization(_ context.Context, _ *entity.DbOrganization) error { return nil }
func (f *fakeRepo) UpdateOrganization(_ context.Context, _ string, _ entity.OrganizationUpdates) error {
	return nil
}
func (f *fakeRepo) GetOrganization(_ context.Context, _ string) (*entity.DbOrganization, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) ListOrganizations(_ context.Context, _ *entity.OrganizationQuery) ([]entity.DbOrganization, *entity.Meta, error) {
	return nil, nil, nil
}
func (f *fakeRepo) DeleteOrganization(_ context.Context, _ string) error { return nil }

func (f *fakeRepo) CreateBoard(_ context.Context, _ *entity.DbBoard) error { return nil }
func (f *fakeRepo) UpdateBoard(_ context.Context, _ string, _ entity.BoardUpdates) error {
	return nil
}
func (f *fakeRepo) GetBoard(_ context.Context, _ string) (*entity.DbBoard, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) FindBoardByName(_ context.Context, _, _ string, _ *string) (*entity.DbBoard, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) ListBoards(_ context.Context, _ *entity.BoardQuery) ([]entity.DbBoard, *entity.Meta, error) {
	return nil, nil, nil
}

func (f *fakeRepo) CreateTask(_ context.Context, _ *entity.DbTask) error                 { return nil }
func (f *fakeRepo) UpdateTask(_ context.Context, _ string, _ entity.TaskUpdates) error   { return nil }
func (f *fakeRepo) GetTask(_ context.Context, _ string) (*entity.DbTask, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) ListTasks(_ context.Context, _ *entity.TaskQuery) ([]entity.DbTask, *entity.Meta, error) {
	return nil, nil, nil
}
func (f *fakeRepo) DeleteTask(_ context.Context, _ string) error { return nil }

func (f *fakeRepo) CreateComment(_ context.Context, _ *entity.DbComment) error { return nil }
func (f *fakeRepo) UpdateComment(_ context.Context, _ string, _ entity.CommentUpdates) error {
	return nil
}
func (f *fakeRepo) GetComment(_ context.Context, _ string) (*entity.DbComment, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) ListComments(_ context.Context, _ *entity.CommentQuery) ([]entity.DbComment, *entity.Meta, error) {
	return nil, nil, nil
}
func (f *fakeRepo) DeleteComment(_ context.Context, _ string) error { return nil }

func (f *fakeRepo) CreateAttachment(_ context.Context, _ *entity.DbAttachment) error { return nil }
func (f *fakeRepo) GetAttachment(_ context.Context, _ string) (*entity.DbAttachment, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) ListTaskAttachments(_ context.Context, _ string) ([]entity.DbAttachment, error) {
	return nil, nil
}
func (f *fakeRepo) DeleteAttachment(_ context.Context, _ string) error { return nil }

func (f *fakeRepo) CreateNotification(_ context.Context, notification *entity.DbNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, *notification)
	return nil
}

func (f *fakeRepo) UpdateNotification(_ context.Context, _ string, _ entity.NotificationUpdates) error {
	return nil
}
func (f *fakeRepo) GetNotification(_ context.Context, _ string) (*entity.DbNotification, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) ListNotifications(_ context.Context, _ string, _ *entity.NotificationQuery) ([]entity.DbNotification, *entity.Meta, error) {
	return nil, nil, nil
}
func (f *fakeRepo) CountUnreadNotifications(_ context.Context, _ string) (int64, error) {
	return 0, nil
}
func (f *fakeRepo) MarkAllNotificationsRead(_ context.Context, _ string) error { return nil }

func (f *fakeRepo) AppendAuditLog(_ context.Context, log *entity.DbAuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auditLogs = append(f.auditLogs, *log)
	return nil
}

func (f *fakeRepo) ListAuditLogs(_ context.Context, _ *entity.AuditLogQuery) ([]entity.DbAuditLog, *entity.Meta, error) {
	return nil, nil, nil
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeRepo) {
	t.Helper()
	tokens, err := auth.NewManager("test-secret", "test", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	repo := newFakeRepo()
	return NewAuthService(repo, tokens, 4), repo
}

func signupTestUser(t *testing.T, svc *AuthService, email string) *entity.AuthResponse {
	t.Helper()
	resp, err := svc.Signup(context.Background(), entity.AuthSignupRequest{
		Email:     email,
		Password:  "correct horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}, ClientInfo{UserAgent: "test", IPAddress: "127.0.0.1"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	return resp
}

func TestSignupCreatesUserAndSession(t *testing.T) {
	svc, repo := newTestAuthService(t)
	resp := signupTestUser(t, svc, "ada@example.com")

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("token type = %q, want Bearer", resp.TokenType)
	}
	if resp.User.Role != entity.UserRoleUser {
		t.Errorf("role = %q, want %q", resp.User.Role, entity.UserRoleUser)
	}

	user, err := repo.GetUserByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if user.PasswordHash == "" || user.PasswordHash == "correct horse" {
		t.Error("password must be stored hashed")
	}
	if user.EmailVerificationToken == nil {
		t.Error("expected a pending email verification token")
	}
	if len(repo.notifications) != 1 || repo.notifications[0].Type != entity.NotificationWelcome {
		t.Errorf("expected a welcome notification, got %+v", repo.notifications)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	signupTestUser(t, svc, "ada@example.com")

	_, err := svc.Signup(context.Background(), entity.AuthSignupRequest{
		Email:     "ADA@example.com",
		Password:  "another pass",
		FirstName: "A",
		LastName:  "L",
	}, ClientInfo{})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, repo := newTestAuthService(t)
	resp := signupTestUser(t, svc, "ada@example.com")

	tests := []struct {
		name     string
		prepare  func()
		email    string
		password string
	}{
		{name: "unknown email", email: "nobody@example.com", password: "whatever"},
		{name: "wrong password", email: "ada@example.com", password: "wrong"},
		{
			name: "disabled account",
			prepare: func() {
				inactive := false
				if err := repo.UpdateUser(context.Background(), resp.User.ID, entity.UserUpdates{IsActive: &inactive}); err != nil {
					t.Fatalf("UpdateUser: %v", err)
				}
			},
			email:    "ada@example.com",
			password: "correct horse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepare != nil {
				tt.prepare()
			}
			_, err := svc.Login(context.Background(), entity.AuthLoginRequest{
				Email:    tt.email,
				Password: tt.password,
			}, ClientInfo{})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLoginRecordsLastLogin(t *testing.T) {
	svc, repo := newTestAuthService(t)
	resp := signupTestUser(t, svc, "ada@example.com")

	if _, err := svc.Login(context.Background(), entity.AuthLoginRequest{
		Email:    "Ada@Example.com",
		Password: "correct horse",
	}, ClientInfo{}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	user, err := repo.GetUserByID(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if user.LastLoginAt == nil {
		t.Error("expected last login timestamp")
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	first := signupTestUser(t, svc, "ada@example.com")

	second, err := svc.Refresh(context.Background(), first.RefreshToken, ClientInfo{})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("refresh token did not rotate")
	}

	// The pre-rotation token is spent and must not be redeemable again.
	if _, err := svc.Refresh(context.Background(), first.RefreshToken, ClientInfo{}); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("replayed token err = %v, want ErrInvalidRefreshToken", err)
	}

	// The rotated token stays redeemable.
	if _, err := svc.Refresh(context.Background(), second.RefreshToken, ClientInfo{}); err != nil {
		t.Fatalf("Refresh with rotated token: %v", err)
	}
}

func TestRefreshRejectsGarbageAndAccessTokens(t *testing.T) {
	svc, _ := newTestAuthService(t)
	resp := signupTestUser(t, svc, "ada@example.com")

	for _, token := range []string{"", "not-a-jwt", resp.AccessToken + "tampered"} {
		if _, err := svc.Refresh(context.Background(), token, ClientInfo{}); !errors.Is(err, ErrInvalidRefreshToken) {
			t.Errorf("Refresh(%q) err = %v, want ErrInvalidRefreshToken", token, err)
		}
	}
}

func TestRefreshConcurrentSingleWinner(t *testing.T) {
	svc, _ := newTestAuthService(t)
	resp := signupTestUser(t, svc, "ada@example.com")

	const callers = 8
	results := make(chan error, callers)
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < callers; i++ {
		go func() {
			start.Wait()
			_, err := svc.Refresh(context.Background(), resp.RefreshToken, ClientInfo{})
			results <- err
		}()
	}
	start.Done()

	var won, lost int
	for i := 0; i < callers; i++ {
		switch err := <-results; {
		case err == nil:
			won++
		case errors.Is(err, ErrInvalidRefreshToken):
			lost++
		default:
			t.Fatalf("Refresh: unexpected error %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("got %d winners, want exactly 1", won)
	}
	if lost != callers-1 {
		t.Fatalf("got %d rejections, want %d", lost, callers-1)
	}
}

func TestRefreshRejectsExpiredSession(t *testing.T) {
	svc, repo := newTestAuthService(t)
	resp := signupTestUser(t, svc, "ada@example.com")

	repo.mu.Lock()
	for _, session := range repo.sessions {
		session.ExpiresAt = time.Now().Add(-time.Minute)
	}
	repo.mu.Unlock()

	if _, err := svc.Refresh(context.Background(), resp.RefreshToken, ClientInfo{}); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("err = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestRefreshAfterLogout(t *testing.T) {
	svc, _ := newTestAuthService(t)
	resp := signupTestUser(t, svc, "ada@example.com")

	principal, err := svc.Authenticate(context.Background(), resp.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if err := svc.Logout(context.Background(), *principal, ""); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), resp.RefreshToken, ClientInfo{}); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("err = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, repo := newTestAuthService(t)
	resp := signupTestUser(t, svc, "ada@example.com")

	principal, err := svc.Authenticate(context.Background(), resp.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if principal.UserID != resp.User.ID {
		t.Errorf("principal user = %q, want %q", principal.UserID, resp.User.ID)
	}
	if principal.Role != entity.UserRoleUser {
		t.Errorf("principal role = %q, want %q", principal.Role, entity.UserRoleUser)
	}
	if principal.SessionID == "" {
		t.Error("expected principal to carry the session id")
	}

	if _, err := svc.Authenticate(context.Background(), "garbage"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("garbage token err = %v, want ErrNotAuthenticated", err)
	}

	inactive := false
	if err := repo.UpdateUser(context.Background(), resp.User.ID, entity.UserUpdates{IsActive: &inactive}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), resp.AccessToken); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("disabled user err = %v, want ErrNotAuthenticated", err)
	}
}

func TestAuthenticateAfterLogoutAll(t *testing.T) {
	svc, _ := newTestAuthService(t)
	resp := signupTestUser(t, svc, "ada@example.com")

	principal, err := svc.Authenticate(context.Background(), resp.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if err := svc.LogoutAll(context.Background(), *principal); err != nil {
		t.Fatalf("LogoutAll: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), resp.AccessToken); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
}

func TestLogoutForeignSession(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ada := signupTestUser(t, svc, "ada@example.com")
	bob := signupTestUser(t, svc, "bob@example.com")

	adaPrincipal, err := svc.Authenticate(context.Background(), ada.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	bobPrincipal, err := svc.Authenticate(context.Background(), bob.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	if err := svc.Logout(context.Background(), *adaPrincipal, bobPrincipal.SessionID); !errors.Is(err, auth.ErrOwnershipDenied) {
		t.Fatalf("err = %v, want ErrOwnershipDenied", err)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, repo := newTestAuthService(t)
	resp := signupTestUser(t, svc, "ada@example.com")

	// Unknown emails get the same silent success.
	if err := svc.ForgotPassword(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("ForgotPassword unknown: %v", err)
	}

	if err := svc.ForgotPassword(context.Background(), "ada@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	user, err := repo.GetUserByID(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if user.ResetPasswordToken == nil {
		t.Fatal("expected a reset token on the user row")
	}

	if err := svc.ResetPassword(context.Background(), *user.ResetPasswordToken, "brand new pass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	// Old password dead, new one live, all sessions revoked.
	if _, err := svc.Login(context.Background(), entity.AuthLoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse",
	}, ClientInfo{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), entity.AuthLoginRequest{
		Email:    "ada@example.com",
		Password: "brand new pass",
	}, ClientInfo{}); err != nil {
		t.Errorf("new password: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), resp.RefreshToken, ClientInfo{}); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("pre-reset session err = %v, want ErrInvalidRefreshToken", err)
	}

	if err := svc.ResetPassword(context.Background(), "bogus", "whatever12"); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("bogus token err = %v, want ErrInvalidResetToken", err)
	}
}

func TestVerifyEmail(t *testing.T) {
	svc, repo := newTestAuthService(t)
	resp := signupTestUser(t, svc, "ada@example.com")

	user, err := repo.GetUserByID(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if user.EmailVerificationToken == nil {
		t.Fatal("expected a verification token")
	}

	if err := svc.VerifyEmail(context.Background(), *user.EmailVerificationToken); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	user, err = repo.GetUserByID(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if !user.IsEmailVerified {
		t.Error("user not marked verified")
	}
	if user.EmailVerificationToken != nil {
		t.Error("verification token not cleared")
	}

	if err := svc.VerifyEmail(context.Background(), "bogus"); !errors.Is(err, ErrInvalidVerificationToken) {
		t.Errorf("bogus token err = %v, want ErrInvalidVerificationToken", err)
	}
}
