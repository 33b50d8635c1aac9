package models

import (
	"database/sql"
	"time"
)

type Workspace struct {
	ID           int64          `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	ProfileKey   sql.NullString `db:"profile_key" json:"-"`
	ProfileRefID sql.NullString `db:"profile_ref_id" json:"-"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

type Membership struct {
	ID                int64     `db:"id" json:"id"`
	WorkspaceID       int64     `db:"workspace_id" json:"workspace_id"`
	UserID            int64     `db:"user_id" json:"user_id"`
	Role              string    `db:"role" json:"role"`
	CanManageTeam     *bool     `db:"can_manage_team" json:"can_manage_team,omitempty"`
	CanManageSettings *bool     `db:"can_manage_settings" json:"can_manage_settings,omitempty"`
	CanDeletePosts    *bool     `db:"can_delete_posts" json:"can_delete_posts,omitempty"`
	CanApprovePosts   *bool     `db:"can_approve_posts" json:"can_approve_posts,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

const (
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
	RoleEditor   = "editor"
	RoleViewOnly = "view_only"
	RoleClient   = "client"
)
