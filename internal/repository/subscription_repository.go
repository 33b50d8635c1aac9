package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/woozysocial/woozy-api/internal/models"
)

type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Subscription, bool, error)
	GetByCustomerID(ctx context.Context, customerID string) (*models.Subscription, bool, error)
	Upsert(ctx context.Context, subscription *models.Subscription) error
	UpdateStatus(ctx context.Context, userID int64, status string) error
}

type subscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

const subscriptionColumns = `id, user_id, tier, status, stripe_customer_id, stripe_subscription_id, legacy_profile_key, created_at, updated_at`

func scanSubscription(row interface{ Scan(...any) error }) (*models.Subscription, error) {
	var s models.Subscription
	err := row.Scan(&s.ID, &s.UserID, &s.Tier, &s.Status,
		&s.StripeCustomerID, &s.StripeSubscriptionID, &s.LegacyProfileKey,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID int64) (*models.Subscription, bool, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1`

	s, err := scanSubscription(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return s, true, nil
}

func (r *subscriptionRepository) GetByCustomerID(ctx context.Context, customerID string) (*models.Subscription, bool, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE stripe_customer_id = $1`

	s, err := scanSubscription(r.db.QueryRowContext(ctx, query, customerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return s, true, nil
}

func (r *subscriptionRepository) Upsert(ctx context.Context, subscription *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (user_id, tier, status, stripe_customer_id, stripe_subscription_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET tier = EXCLUDED.tier,
			status = EXCLUDED.status,
			stripe_customer_id = EXCLUDED.stripe_customer_id,
			stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, subscription.UserID, subscription.Tier,
		subscription.Status, subscription.StripeCustomerID, subscription.StripeSubscriptionID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *subscriptionRepository) UpdateStatus(ctx context.Context, userID int64, status string) error {
	query := `UPDATE subscriptions SET status = $1, updated_at = $2 WHERE user_id = $3`

	_, err := r.db.ExecContext(ctx, query, status, time.Now(), userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
