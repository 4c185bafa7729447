package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/entity"
	"taskboard/internal/model"
)

// stubRepo backs handler tests with in-memory maps. The embedded interface
// is nil so a call to anything not implemented here panics, which keeps the
// stub honest about what a test actually touches.
type stubRepo struct {
	model.Repository

	mu     sync.Mutex
	users  map[string]*entity.DbUser
	boards map[string]*entity.DbBoard
	orgs   map[string]*entity.DbOrganization
	tasks  map[string]*entity.DbTask
	audit  []entity.DbAuditLog
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:  make(map[string]*entity.DbUser),
		boards: make(map[string]*entity.DbBoard),
		orgs:   make(map[string]*entity.DbOrganization),
		tasks:  make(map[string]*entity.DbTask),
	}
}

func (r *stubRepo) GetUserByID(ctx context.Context, id string) (*entity.DbUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *stubRepo) CreateBoard(ctx context.Context, board *entity.DbBoard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *board
	r.boards[board.ID] = &copied
	return nil
}

func (r *stubRepo) GetBoard(ctx context.Context, id string) (*entity.DbBoard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	board, ok := r.boards[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *board
	return &copied, nil
}

func (r *stubRepo) FindBoardByName(ctx context.Context, name, createdByID string, organizationID *string) (*entity.DbBoard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, board := range r.boards {
		if strings.EqualFold(board.Name, name) && board.CreatedByID == createdByID {
			copied := *board
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRepo) GetOrganization(ctx context.Context, id string) (*entity.DbOrganization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	org, ok := r.orgs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *org
	return &copied, nil
}

func (r *stubRepo) UpdateOrganization(ctx context.Context, id string, updates entity.OrganizationUpdates) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	org, ok := r.orgs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if updates.Name != nil {
		org.Name = *updates.Name
	}
	if updates.Description != nil {
		org.Description = *updates.Description
	}
	if updates.Website != nil {
		org.Website = *updates.Website
	}
	return nil
}

func (r *stubRepo) ListTasks(ctx context.Context, params *entity.TaskQuery) ([]entity.DbTask, *entity.Meta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tasks []entity.DbTask
	for _, task := range r.tasks {
		if params.BoardID != "" && task.BoardID != params.BoardID {
			continue
		}
		if uid := params.VisibleToUserID; uid != "" {
			assigned := task.AssignedUserID != nil && *task.AssignedUserID == uid
			if !assigned && task.CreatedByID != uid {
				continue
			}
		}
		tasks = append(tasks, *task)
	}
	return tasks, &entity.Meta{Total: int64(len(tasks))}, nil
}

func (r *stubRepo) AppendAuditLog(ctx context.Context, log *entity.DbAuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audit = append(r.audit, *log)
	return nil
}

func (r *stubRepo) ListAuditLogs(ctx context.Context, params *entity.AuditLogQuery) ([]entity.DbAuditLog, *entity.Meta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	logs := append([]entity.DbAuditLog(nil), r.audit...)
	return logs, &entity.Meta{Total: int64(len(logs))}, nil
}

func (r *stubRepo) addUser(role string, orgID *string) *entity.DbUser {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := &entity.DbUser{
		ID:             uuid.NewString(),
		Email:          uuid.NewString() + "@example.com",
		Role:           role,
		OrganizationID: orgID,
		IsActive:       true,
	}
	r.users[user.ID] = user
	return user
}

func (r *stubRepo) addOrg(name string) *entity.DbOrganization {
	r.mu.Lock()
	defer r.mu.Unlock()
	org := &entity.DbOrganization{
		ID:       uuid.NewString(),
		Name:     name,
		IsActive: true,
	}
	r.orgs[org.ID] = org
	return org
}

func (r *stubRepo) addTask(boardID, createdByID string, assignedUserID *string) *entity.DbTask {
	r.mu.Lock()
	defer r.mu.Unlock()
	task := &entity.DbTask{
		ID:             uuid.NewString(),
		Title:          "task " + uuid.NewString()[:8],
		BoardID:        boardID,
		CreatedByID:    createdByID,
		AssignedUserID: assignedUserID,
		Status:         entity.TaskStatusTodo,
		Priority:       entity.TaskPriorityMedium,
	}
	r.tasks[task.ID] = task
	return task
}

func newTestHandler(t *testing.T, repo model.Repository) *HTTPHandler {
	t.Helper()
	cfg := config.Config{
		JWTSecret:     "test-secret",
		JWTIssuer:     "taskboard",
		JWTAccessTTL:  "1h",
		JWTRefreshTTL: "7d",
		BcryptCost:    4,
		AllowSignup:   true,
	}
	h, err := NewHTTPHandler(cfg, repo, nil)
	if err != nil {
		t.Fatalf("NewHTTPHandler: %v", err)
	}
	return h
}

func newTestRouter(h *HTTPHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/api", h.AuthMiddleware())
	group.GET("/boards/:id", h.RequirePolicy(auth.Policy{Permission: auth.PermReadBoard}), h.GetBoard)
	group.POST("/boards", h.RequirePolicy(auth.Policy{Permission: auth.PermCreateBoard}), h.CreateBoard)
	group.GET("/audit-logs", h.RequirePolicy(auth.Policy{Permission: auth.PermReadAuditLogs}), h.ListAuditLogs)
	group.GET("/tasks", h.RequirePolicy(auth.Policy{Permission: auth.PermReadTask}), h.ListTasks)
	group.PATCH("/organizations/:id", h.RequirePolicy(auth.Policy{Permission: auth.PermUpdateOrganization}), h.UpdateOrganization)
	return r
}

func accessTokenFor(t *testing.T, h *HTTPHandler, user *entity.DbUser) string {
	t.Helper()
	token, _, err := h.tokens.GenerateAccessToken(user, "")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	return token
}

func doRequest(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"bare token", "abc123", ""},
		{"bearer", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"missing token", "Bearer ", ""},
		{"padded", "Bearer   abc123  ", "abc123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bearerToken(tt.header); got != tt.want {
				t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	repo := newStubRepo()
	h := newTestHandler(t, repo)
	r := newTestRouter(h)

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-jwt"},
		{"token for unknown user", func() string {
			ghost := &entity.DbUser{ID: uuid.NewString(), Role: entity.UserRoleUser, IsActive: true}
			token, _, _ := h.tokens.GenerateAccessToken(ghost, "")
			return token
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, "/api/boards/any", tt.token, "")
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
			var body APIError
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if body.Code != ErrCodeUnauthorized {
				t.Errorf("code = %q, want %q", body.Code, ErrCodeUnauthorized)
			}
		})
	}
}

func TestAuthMiddlewareRejectsDisabledUser(t *testing.T) {
	repo := newStubRepo()
	h := newTestHandler(t, repo)
	r := newTestRouter(h)

	user := repo.addUser(entity.UserRoleUser, nil)
	token := accessTokenFor(t, h, user)

	repo.mu.Lock()
	repo.users[user.ID].IsActive = false
	repo.mu.Unlock()

	w := doRequest(r, http.MethodGet, "/api/boards/any", token, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequirePolicyByRole(t *testing.T) {
	repo := newStubRepo()
	h := newTestHandler(t, repo)
	r := newTestRouter(h)

	tests := []struct {
		name   string
		role   string
		method string
		path   string
		body   string
		want   int
	}{
		{"guest cannot create boards", entity.UserRoleGuest, http.MethodPost, "/api/boards", `{"name":"plan"}`, http.StatusForbidden},
		{"user can create boards", entity.UserRoleUser, http.MethodPost, "/api/boards", `{"name":"plan"}`, http.StatusCreated},
		{"user cannot read audit logs", entity.UserRoleUser, http.MethodGet, "/api/audit-logs", "", http.StatusForbidden},
		{"admin can read audit logs", entity.UserRoleAdmin, http.MethodGet, "/api/audit-logs", "", http.StatusOK},
		{"super admin can read audit logs", entity.UserRoleSuperAdmin, http.MethodGet, "/api/audit-logs", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := repo.addUser(tt.role, nil)
			token := accessTokenFor(t, h, user)
			w := doRequest(r, tt.method, tt.path, token, tt.body)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
			if tt.want == http.StatusForbidden {
				var body APIError
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("unmarshal body: %v", err)
				}
				if body.Code != ErrCodeForbidden {
					t.Errorf("code = %q, want %q", body.Code, ErrCodeForbidden)
				}
			}
		})
	}
}
