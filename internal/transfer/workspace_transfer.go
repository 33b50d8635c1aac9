package transfer

type WorkspaceCreation struct {
	Name string `json:"name"`
}

type MemberAddition struct {
	WorkspaceID int64  `json:"workspace_id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

type MemberRoleChange struct {
	WorkspaceID       int64  `json:"workspace_id"`
	UserID            int64  `json:"user_id"`
	Role              string `json:"role"`
	CanManageTeam     *bool  `json:"can_manage_team,omitempty"`
	CanManageSettings *bool  `json:"can_manage_settings,omitempty"`
	CanDeletePosts    *bool  `json:"can_delete_posts,omitempty"`
	CanApprovePosts   *bool  `json:"can_approve_posts,omitempty"`
}

type MemberRemoval struct {
	WorkspaceID int64 `json:"workspace_id"`
	UserID      int64 `json:"user_id"`
}

type CheckoutRequest struct {
	Tier string `json:"tier"`
}
