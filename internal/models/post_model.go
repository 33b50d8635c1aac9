package models

import (
	"database/sql"
	"time"
)

type Post struct {
	ID             int64          `db:"id" json:"id"`
	WorkspaceID    int64          `db:"workspace_id" json:"workspace_id"`
	CreatorID      int64          `db:"creator_id" json:"creator_id"`
	Caption        string         `db:"caption" json:"caption"`
	MediaURLs      []string       `db:"media_urls" json:"media_urls"`
	Platforms      []string       `db:"platforms" json:"platforms"`
	ScheduledTime  sql.NullTime   `db:"scheduled_time" json:"scheduled_time"`
	Status         string         `db:"status" json:"status"`
	ApprovalStatus sql.NullString `db:"approval_status" json:"approval_status"`
	LastError      sql.NullString `db:"last_error" json:"last_error"`
	ExternalID     sql.NullString `db:"external_id" json:"external_id"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusDraft           = "draft"
	PostStatusPendingApproval = "pending_approval"
	PostStatusScheduled       = "scheduled"
	PostStatusPosted          = "posted"
	PostStatusFailed          = "failed"
)
