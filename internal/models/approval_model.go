package models

import (
	"database/sql"
	"time"
)

type Approval struct {
	ID         int64         `db:"id" json:"id"`
	PostID     int64         `db:"post_id" json:"post_id"`
	Status     string        `db:"status" json:"status"`
	ReviewerID sql.NullInt64 `db:"reviewer_id" json:"reviewer_id"`
	ReviewedAt sql.NullTime  `db:"reviewed_at" json:"reviewed_at"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}

const (
	ApprovalPendingInternal  = "pending_internal"
	ApprovalPendingClient    = "pending_client"
	ApprovalChangesRequested = "changes_requested"
	ApprovalApproved         = "approved"
	ApprovalRejected         = "rejected"

	// approvalPendingLegacy is the status older records carry for what is
	// now pending_client.
	approvalPendingLegacy = "pending"
)

// NormalizeApprovalStatus maps legacy status values onto the canonical set.
// Repositories call it on every read so the rest of the system only ever
// sees canonical statuses.
func NormalizeApprovalStatus(status string) string {
	if status == approvalPendingLegacy {
		return ApprovalPendingClient
	}
	return status
}

// PendingClientStatuses lists every stored value that means "waiting on the
// client", including the legacy alias. Used for compare-and-swap updates so
// old rows still transition.
func PendingClientStatuses() []string {
	return []string{ApprovalPendingClient, approvalPendingLegacy}
}
