// Package permissions holds the role capability rules. The predicates are
// pure and stateless; callers (services and route middleware) are responsible
// for enforcing them before allowing a mutation.
package permissions

import "github.com/chorushq/chorus-api/internal/models"

// CanEditVoiceType reports whether the role may change a member's voice section.
func CanEditVoiceType(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleSectionLeader, models.RoleCreativeTeam:
		return true
	}
	return false
}

// CanEditRole reports whether the role may change another member's role.
func CanEditRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleCreativeTeam
}

// CanEditMemberStatus reports whether the role may change a member's status.
func CanEditMemberStatus(role string) bool {
	return role == models.RoleAdmin || role == models.RoleCreativeTeam
}

// CanManageContent reports whether the role may create and edit shared
// content: forms, events, announcements, songs, auditions and board tasks.
func CanManageContent(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleSectionLeader, models.RoleCreativeTeam:
		return true
	}
	return false
}
