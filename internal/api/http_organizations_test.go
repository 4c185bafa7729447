package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"taskboard/internal/entity"
)

func TestUpdateOrganizationScope(t *testing.T) {
	repo := newStubRepo()
	h := newTestHandler(t, repo)
	r := newTestRouter(h)

	acme := repo.addOrg("Acme")
	globex := repo.addOrg("Globex")

	acmeAdmin := repo.addUser(entity.UserRoleAdmin, &acme.ID)
	globexAdmin := repo.addUser(entity.UserRoleAdmin, &globex.ID)
	superAdmin := repo.addUser(entity.UserRoleSuperAdmin, nil)
	member := repo.addUser(entity.UserRoleUser, &acme.ID)

	tests := []struct {
		name       string
		caller     *entity.DbUser
		orgID      string
		wantStatus int
	}{
		{"admin updates own org", acmeAdmin, acme.ID, http.StatusOK},
		{"admin cannot update another org", globexAdmin, acme.ID, http.StatusForbidden},
		{"super admin updates any org", superAdmin, globex.ID, http.StatusOK},
		{"regular user lacks the permission", member, acme.ID, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := accessTokenFor(t, h, tt.caller)
			w := doRequest(r, http.MethodPatch, "/api/organizations/"+tt.orgID, token, `{"description":"updated"}`)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestUpdateOrganizationRenameStaysInOwnOrg(t *testing.T) {
	repo := newStubRepo()
	h := newTestHandler(t, repo)
	r := newTestRouter(h)

	acme := repo.addOrg("Acme")
	globex := repo.addOrg("Globex")
	globexAdmin := repo.addUser(entity.UserRoleAdmin, &globex.ID)
	token := accessTokenFor(t, h, globexAdmin)

	w := doRequest(r, http.MethodPatch, "/api/organizations/"+acme.ID, token, `{"name":"Hostile Takeover"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign rename status = %d, want %d", w.Code, http.StatusForbidden)
	}
	stored, err := repo.GetOrganization(context.Background(), acme.ID)
	if err != nil {
		t.Fatalf("GetOrganization: %v", err)
	}
	if stored.Name != "Acme" {
		t.Fatalf("org name = %q, want unchanged", stored.Name)
	}

	w = doRequest(r, http.MethodPatch, "/api/organizations/"+globex.ID, token, `{"name":"Globex Corp"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("own rename status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	var updated entity.DbOrganization
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if updated.Name != "Globex Corp" {
		t.Fatalf("updated name = %q, want %q", updated.Name, "Globex Corp")
	}
}
