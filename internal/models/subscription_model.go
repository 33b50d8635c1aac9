package models

import (
	"database/sql"
	"time"
)

type Subscription struct {
	ID                   int64          `db:"id" json:"id"`
	UserID               int64          `db:"user_id" json:"user_id"`
	Tier                 string         `db:"tier" json:"tier"`
	Status               string         `db:"status" json:"status"`
	StripeCustomerID     sql.NullString `db:"stripe_customer_id" json:"-"`
	StripeSubscriptionID sql.NullString `db:"stripe_subscription_id" json:"-"`
	// LegacyProfileKey survives from before credentials were workspace
	// scoped. Lookups fall back to it when the workspace row has none.
	LegacyProfileKey sql.NullString `db:"legacy_profile_key" json:"-"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

const (
	SubscriptionInactive  = "inactive"
	SubscriptionActive    = "active"
	SubscriptionPastDue   = "past_due"
	SubscriptionCancelled = "cancelled"
)
