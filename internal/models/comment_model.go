package models

import "time"

type PostComment struct {
	ID          int64     `db:"id" json:"id"`
	PostID      int64     `db:"post_id" json:"post_id"`
	WorkspaceID int64     `db:"workspace_id" json:"workspace_id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Body        string    `db:"body" json:"body"`
	IsSystem    bool      `db:"is_system" json:"is_system"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
