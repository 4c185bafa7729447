package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"taskboard/internal/entity"
)

func TestListTasksFlatVisibility(t *testing.T) {
	repo := newStubRepo()
	h := newTestHandler(t, repo)
	r := newTestRouter(h)

	creator := repo.addUser(entity.UserRoleUser, nil)
	colleague := repo.addUser(entity.UserRoleUser, nil)
	admin := repo.addUser(entity.UserRoleAdmin, nil)

	createdUnassigned := repo.addTask("board-1", creator.ID, nil)
	assignedToCreator := repo.addTask("board-1", colleague.ID, &creator.ID)
	unrelated := repo.addTask("board-1", colleague.ID, &colleague.ID)

	listFor := func(t *testing.T, user *entity.DbUser) map[string]bool {
		t.Helper()
		w := doRequest(r, http.MethodGet, "/api/tasks", accessTokenFor(t, h, user), "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
		}
		var resp entity.TaskListResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		ids := make(map[string]bool, len(resp.Tasks))
		for _, task := range resp.Tasks {
			ids[task.ID] = true
		}
		return ids
	}

	// A regular user sees tasks they created as well as tasks assigned to
	// them, and nothing else.
	ids := listFor(t, creator)
	if !ids[createdUnassigned.ID] {
		t.Error("created but unassigned task missing from creator's list")
	}
	if !ids[assignedToCreator.ID] {
		t.Error("assigned task missing from creator's list")
	}
	if ids[unrelated.ID] {
		t.Error("creator's list leaked an unrelated task")
	}

	ids = listFor(t, admin)
	for _, task := range []*entity.DbTask{createdUnassigned, assignedToCreator, unrelated} {
		if !ids[task.ID] {
			t.Errorf("admin list missing task %s", task.ID)
		}
	}
}
