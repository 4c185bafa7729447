package auth

import (
	"errors"

	"taskboard/internal/entity"
)

// Layer B: resource-level ownership and visibility rules. The predicates
// operate on rows the caller has already loaded; they never touch storage.
// Privileged roles (admin, super_admin) bypass all of them.

// ErrPermissionDenied marks a static role/permission (Layer A) denial.
var ErrPermissionDenied = errors.New("permission denied")

// ErrOwnershipDenied marks a resource-level (Layer B) denial. It shares the
// external error shape with ErrPermissionDenied but stays distinguishable
// for logging and tests.
var ErrOwnershipDenied = errors.New("ownership denied")

// CanViewBoard reports whether the principal may read the board and, by
// extension, the tasks and comments nested under it.
func CanViewBoard(p Principal, board *entity.DbBoard) bool {
	if board == nil {
		return false
	}
	if board.Status == entity.BoardStatusDeleted {
		return p.IsPrivileged()
	}
	if p.IsPrivileged() {
		return true
	}
	if board.Visibility == entity.BoardVisibilityPublic {
		return true
	}
	if board.CreatedByID == p.UserID {
		return true
	}
	if board.Visibility == entity.BoardVisibilityOrganization && p.SameOrganization(board.OrganizationID) {
		return true
	}
	return false
}

// CanModifyBoard reports whether the principal may update, archive or delete
// the board. Non-privileged users only touch boards they created.
func CanModifyBoard(p Principal, board *entity.DbBoard) bool {
	if board == nil {
		return false
	}
	if p.IsPrivileged() {
		return true
	}
	return board.CreatedByID == p.UserID
}

// CanViewTask reports whether the principal may read the task. The parent
// board's visibility applies first; assignees and creators can always see
// their own tasks.
func CanViewTask(p Principal, task *entity.DbTask, board *entity.DbBoard) bool {
	if task == nil {
		return false
	}
	if p.IsPrivileged() {
		return true
	}
	if CanViewBoard(p, board) {
		return true
	}
	if task.AssignedUserID != nil && *task.AssignedUserID == p.UserID {
		return true
	}
	return task.CreatedByID == p.UserID
}

// CanModifyTask reports whether the principal may update or delete the task:
// the assignee, the task creator, or the board creator.
func CanModifyTask(p Principal, task *entity.DbTask, board *entity.DbBoard) bool {
	if task == nil {
		return false
	}
	if p.IsPrivileged() {
		return true
	}
	if task.AssignedUserID != nil && *task.AssignedUserID == p.UserID {
		return true
	}
	if task.CreatedByID == p.UserID {
		return true
	}
	return board != nil && board.CreatedByID == p.UserID
}

// CanViewComment inherits the owning task's readability.
func CanViewComment(p Principal, task *entity.DbTask, board *entity.DbBoard) bool {
	return CanViewTask(p, task, board)
}

// CanModifyComment reports whether the principal may edit or delete the
// comment. Only the author, unless privileged.
func CanModifyComment(p Principal, comment *entity.DbComment) bool {
	if comment == nil {
		return false
	}
	if p.IsPrivileged() {
		return true
	}
	return comment.AuthorID == p.UserID
}

// CanDeleteAttachment reports whether the principal may remove the
// attachment. Only the uploader, unless privileged.
func CanDeleteAttachment(p Principal, attachment *entity.DbAttachment) bool {
	if attachment == nil {
		return false
	}
	if p.IsPrivileged() {
		return true
	}
	return attachment.UploadedByID == p.UserID
}

// BoardScopeFor returns the list-query scope enforcing the visibility rule
// for non-privileged principals, or nil when the principal sees everything.
func BoardScopeFor(p Principal) *entity.BoardScope {
	if p.IsPrivileged() {
		return nil
	}
	return &entity.BoardScope{
		UserID:         p.UserID,
		OrganizationID: p.OrganizationID,
	}
}
