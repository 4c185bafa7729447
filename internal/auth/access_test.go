package auth

import (
	"testing"

	"taskboard/internal/entity"
)

func strPtr(s string) *string { return &s }

func memberPrincipal(id string, org *string) Principal {
	return Principal{UserID: id, Role: entity.UserRoleUser, OrganizationID: org, IsActive: true}
}

func TestCanViewBoard(t *testing.T) {
	org1 := strPtr("org-1")
	org2 := strPtr("org-2")

	tests := []struct {
		name      string
		principal Principal
		board     entity.DbBoard
		allowed   bool
	}{
		{
			name:      "public board readable by any user",
			principal: memberPrincipal("u2", org2),
			board:     entity.DbBoard{Visibility: entity.BoardVisibilityPublic, Status: entity.BoardStatusActive, CreatedByID: "u1"},
			allowed:   true,
		},
		{
			name:      "private board hidden from strangers",
			principal: memberPrincipal("u2", org2),
			board:     entity.DbBoard{Visibility: entity.BoardVisibilityPrivate, Status: entity.BoardStatusActive, CreatedByID: "u1", OrganizationID: org1},
			allowed:   false,
		},
		{
			name:      "private board readable by its creator",
			principal: memberPrincipal("u1", org1),
			board:     entity.DbBoard{Visibility: entity.BoardVisibilityPrivate, Status: entity.BoardStatusActive, CreatedByID: "u1"},
			allowed:   true,
		},
		{
			name:      "organization board readable inside the org",
			principal: memberPrincipal("u2", org1),
			board:     entity.DbBoard{Visibility: entity.BoardVisibilityOrganization, Status: entity.BoardStatusActive, CreatedByID: "u1", OrganizationID: org1},
			allowed:   true,
		},
		{
			name:      "organization board hidden outside the org",
			principal: memberPrincipal("u2", org2),
			board:     entity.DbBoard{Visibility: entity.BoardVisibilityOrganization, Status: entity.BoardStatusActive, CreatedByID: "u1", OrganizationID: org1},
			allowed:   false,
		},
		{
			name:      "organization board hidden from user with no org",
			principal: memberPrincipal("u2", nil),
			board:     entity.DbBoard{Visibility: entity.BoardVisibilityOrganization, Status: entity.BoardStatusActive, CreatedByID: "u1", OrganizationID: org1},
			allowed:   false,
		},
		{
			name:      "admin bypasses visibility",
			principal: Principal{UserID: "a1", Role: entity.UserRoleAdmin, OrganizationID: org2},
			board:     entity.DbBoard{Visibility: entity.BoardVisibilityPrivate, Status: entity.BoardStatusActive, CreatedByID: "u1", OrganizationID: org1},
			allowed:   true,
		},
		{
			name:      "deleted board invisible even to its creator",
			principal: memberPrincipal("u1", org1),
			board:     entity.DbBoard{Visibility: entity.BoardVisibilityPublic, Status: entity.BoardStatusDeleted, CreatedByID: "u1"},
			allowed:   false,
		},
		{
			name:      "deleted board still visible to admin",
			principal: Principal{UserID: "a1", Role: entity.UserRoleAdmin},
			board:     entity.DbBoard{Visibility: entity.BoardVisibilityPrivate, Status: entity.BoardStatusDeleted, CreatedByID: "u1"},
			allowed:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewBoard(tt.principal, &tt.board); got != tt.allowed {
				t.Fatalf("CanViewBoard() = %v, expected %v", got, tt.allowed)
			}
		})
	}
}

func TestCanModifyBoard(t *testing.T) {
	board := entity.DbBoard{Visibility: entity.BoardVisibilityPublic, Status: entity.BoardStatusActive, CreatedByID: "u1"}

	if !CanModifyBoard(memberPrincipal("u1", nil), &board) {
		t.Fatal("creator should modify own board")
	}
	if CanModifyBoard(memberPrincipal("u2", nil), &board) {
		t.Fatal("public visibility must not grant mutation to strangers")
	}
	if !CanModifyBoard(Principal{UserID: "a1", Role: entity.UserRoleSuperAdmin}, &board) {
		t.Fatal("super_admin should modify any board")
	}
}

func TestCanViewTask(t *testing.T) {
	org1 := strPtr("org-1")
	privateBoard := entity.DbBoard{ID: "b1", Visibility: entity.BoardVisibilityPrivate, Status: entity.BoardStatusActive, CreatedByID: "u1", OrganizationID: org1}

	tests := []struct {
		name      string
		principal Principal
		task      entity.DbTask
		allowed   bool
	}{
		{
			name:      "stranger denied via private board",
			principal: memberPrincipal("u3", strPtr("org-2")),
			task:      entity.DbTask{BoardID: "b1", CreatedByID: "u1"},
			allowed:   false,
		},
		{
			name:      "assignee sees task on a board they cannot otherwise read",
			principal: memberPrincipal("u3", strPtr("org-2")),
			task:      entity.DbTask{BoardID: "b1", CreatedByID: "u1", AssignedUserID: strPtr("u3")},
			allowed:   true,
		},
		{
			name:      "task creator sees own task",
			principal: memberPrincipal("u3", strPtr("org-2")),
			task:      entity.DbTask{BoardID: "b1", CreatedByID: "u3"},
			allowed:   true,
		},
		{
			name:      "board creator sees tasks on own board",
			principal: memberPrincipal("u1", org1),
			task:      entity.DbTask{BoardID: "b1", CreatedByID: "u2"},
			allowed:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewTask(tt.principal, &tt.task, &privateBoard); got != tt.allowed {
				t.Fatalf("CanViewTask() = %v, expected %v", got, tt.allowed)
			}
		})
	}
}

func TestCanModifyTask(t *testing.T) {
	board := entity.DbBoard{ID: "b1", Visibility: entity.BoardVisibilityPublic, Status: entity.BoardStatusActive, CreatedByID: "owner"}
	task := entity.DbTask{BoardID: "b1", CreatedByID: "creator", AssignedUserID: strPtr("assignee")}

	for _, tt := range []struct {
		user    string
		allowed bool
	}{
		{"assignee", true},
		{"creator", true},
		{"owner", true},
		{"stranger", false},
	} {
		if got := CanModifyTask(memberPrincipal(tt.user, nil), &task, &board); got != tt.allowed {
			t.Errorf("CanModifyTask as %s = %v, expected %v", tt.user, got, tt.allowed)
		}
	}
}

func TestCanModifyComment(t *testing.T) {
	comment := entity.DbComment{ID: "c1", TaskID: "t1", AuthorID: "author"}

	if !CanModifyComment(memberPrincipal("author", nil), &comment) {
		t.Fatal("author should modify own comment")
	}
	if CanModifyComment(memberPrincipal("reader", nil), &comment) {
		t.Fatal("non-author user must not modify the comment")
	}
	if !CanModifyComment(Principal{UserID: "a1", Role: entity.UserRoleAdmin}, &comment) {
		t.Fatal("admin bypasses comment ownership")
	}
}

func TestBoardScopeFor(t *testing.T) {
	org := strPtr("org-1")
	if BoardScopeFor(Principal{UserID: "a", Role: entity.UserRoleAdmin}) != nil {
		t.Fatal("admin list queries must not be scoped")
	}
	scope := BoardScopeFor(memberPrincipal("u1", org))
	if scope == nil || scope.UserID != "u1" || scope.OrganizationID == nil || *scope.OrganizationID != "org-1" {
		t.Fatalf("unexpected scope: %+v", scope)
	}
}
