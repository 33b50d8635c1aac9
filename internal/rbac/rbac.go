package rbac

import "github.com/woozysocial/woozy-api/internal/models"

type Capability string

const (
	CapManageTeam     Capability = "manage_team"
	CapManageSettings Capability = "manage_settings"
	CapDeletePosts    Capability = "delete_posts"
	CapApprovePosts   Capability = "approve_posts"
)

type Capabilities struct {
	ManageTeam     bool
	ManageSettings bool
	DeletePosts    bool
	ApprovePosts   bool
}

// CapabilitiesFor returns the default capability set for a role. Unknown
// roles get no capabilities.
func CapabilitiesFor(role string) Capabilities {
	switch role {
	case models.RoleOwner:
		// Owners run the workspace but are not review gates: a workspace
		// with only its owner publishes without review. Approval rights
		// come from an explicit override.
		return Capabilities{ManageTeam: true, ManageSettings: true, DeletePosts: true}
	case models.RoleAdmin:
		return Capabilities{ManageTeam: true, ManageSettings: true, DeletePosts: true, ApprovePosts: true}
	case models.RoleClient:
		return Capabilities{ApprovePosts: true}
	default:
		return Capabilities{}
	}
}

// Resolve merges a membership's explicit overrides over its role defaults.
func Resolve(m *models.Membership) Capabilities {
	caps := CapabilitiesFor(m.Role)
	if m.CanManageTeam != nil {
		caps.ManageTeam = *m.CanManageTeam
	}
	if m.CanManageSettings != nil {
		caps.ManageSettings = *m.CanManageSettings
	}
	if m.CanDeletePosts != nil {
		caps.DeletePosts = *m.CanDeletePosts
	}
	if m.CanApprovePosts != nil {
		caps.ApprovePosts = *m.CanApprovePosts
	}
	return caps
}

// Has is the single predicate every permission check routes through.
func Has(m *models.Membership, cap Capability) bool {
	caps := Resolve(m)
	switch cap {
	case CapManageTeam:
		return caps.ManageTeam
	case CapManageSettings:
		return caps.ManageSettings
	case CapDeletePosts:
		return caps.DeletePosts
	case CapApprovePosts:
		return caps.ApprovePosts
	default:
		return false
	}
}

// IsFinalApprover reports whether the member gates the internal review
// stage: anyone who can approve posts and is not a client-side reviewer.
// view_only is excluded for the same legacy reason IsClientApprover
// accepts it; the two predicates must never both hold for one member.
func IsFinalApprover(m *models.Membership) bool {
	if m.Role == models.RoleClient || m.Role == models.RoleViewOnly {
		return false
	}
	return Has(m, CapApprovePosts)
}

// IsClientApprover reports whether the member is the client-side gate.
// view_only is accepted alongside client because older workspaces stored
// client reviewers under that role.
func IsClientApprover(m *models.Membership) bool {
	if m.Role != models.RoleClient && m.Role != models.RoleViewOnly {
		return false
	}
	return Has(m, CapApprovePosts)
}
