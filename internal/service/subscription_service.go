package service

import (
	"context"

	config "github.com/woozysocial/woozy-api/configs"
	"github.com/woozysocial/woozy-api/internal/models"
	"github.com/woozysocial/woozy-api/internal/repository"
	"github.com/woozysocial/woozy-api/pkg/utils"
)

// SubscriptionService is the read side of the subscription capability. The
// only writers are the billing webhook and the dev bootstrap path.
type SubscriptionService interface {
	// PublishableCredential returns the workspace's decrypted publishing
	// credential. Both conditions must hold: the credential exists and
	// the owning user's subscription is active. A lingering credential on
	// a cancelled subscription is not publishable.
	PublishableCredential(ctx context.Context, workspaceID int64) (string, error)
}

type subscriptionService struct {
	cfg config.Config
	w   repository.WorkspaceRepository
	m   repository.MembershipRepository
	s   repository.SubscriptionRepository
}

func NewSubscriptionService(
	cfg config.Config,
	w repository.WorkspaceRepository,
	m repository.MembershipRepository,
	s repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{
		cfg: cfg,
		w:   w,
		m:   m,
		s:   s,
	}
}

func (s *subscriptionService) PublishableCredential(ctx context.Context, workspaceID int64) (string, error) {
	workspace, isExist, err := s.w.GetByID(ctx, workspaceID)
	if err != nil {
		return "", err
	}
	if !isExist {
		return "", models.NotFoundf("workspace %d not found", workspaceID)
	}

	ownerID, err := s.ownerOf(ctx, workspaceID)
	if err != nil {
		return "", err
	}

	encrypted := ""
	if workspace.ProfileKey.Valid && workspace.ProfileKey.String != "" {
		encrypted = workspace.ProfileKey.String
	}

	subscription, hasSubscription, err := s.s.GetByUserID(ctx, ownerID)
	if err != nil {
		return "", err
	}

	// Credential lookups fall back to the pre-workspace model where the
	// profile key lived on the owner's subscription row.
	if encrypted == "" && hasSubscription && subscription.LegacyProfileKey.Valid {
		encrypted = subscription.LegacyProfileKey.String
	}

	if encrypted == "" {
		return "", models.Configurationf("no publishing credential: connect a social account first")
	}

	if !hasSubscription || subscription.Status != models.SubscriptionActive {
		return "", models.Configurationf("subscription is not active")
	}

	credential, err := utils.Decrypt(encrypted, []byte(s.cfg.SecretKey))
	if err != nil {
		return "", models.Configurationf("publishing credential is unreadable")
	}

	return credential, nil
}

func (s *subscriptionService) ownerOf(ctx context.Context, workspaceID int64) (int64, error) {
	members, err := s.m.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return 0, err
	}
	for _, m := range members {
		if m.Role == models.RoleOwner {
			return m.UserID, nil
		}
	}
	return 0, models.Configurationf("workspace %d has no owner", workspaceID)
}
