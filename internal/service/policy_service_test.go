package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozysocial/woozy-api/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func policyWithMembers(members []*models.Membership) PolicyService {
	repo := noopMembershipRepo()
	repo.listByWorkspaceFn = func(_ context.Context, _ int64) ([]*models.Membership, error) {
		return members, nil
	}
	return NewPolicyService(repo)
}

func TestPolicyResolve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	cases := []struct {
		name      string
		scheduled bool
		members   []*models.Membership
		want      PolicyDecision
	}{
		{
			name:      "post now skips review even with approvers",
			scheduled: false,
			members: []*models.Membership{
				{UserID: 1, Role: models.RoleOwner},
				{UserID: 2, Role: models.RoleAdmin},
			},
			want: PublishImmediately,
		},
		{
			name:      "sole owner workspace publishes immediately",
			scheduled: true,
			members: []*models.Membership{
				{UserID: 1, Role: models.RoleOwner},
			},
			want: PublishImmediately,
		},
		{
			name:      "admin present routes to internal review",
			scheduled: true,
			members: []*models.Membership{
				{UserID: 1, Role: models.RoleOwner},
				{UserID: 2, Role: models.RoleAdmin},
			},
			want: RequireInternalReview,
		},
		{
			name:      "client only routes to client review",
			scheduled: true,
			members: []*models.Membership{
				{UserID: 1, Role: models.RoleOwner},
				{UserID: 2, Role: models.RoleEditor},
				{UserID: 3, Role: models.RoleClient},
			},
			want: RequireClientReview,
		},
		{
			name:      "internal approver outranks client approver",
			scheduled: true,
			members: []*models.Membership{
				{UserID: 1, Role: models.RoleOwner},
				{UserID: 2, Role: models.RoleAdmin},
				{UserID: 3, Role: models.RoleClient},
			},
			want: RequireInternalReview,
		},
		{
			name:      "owner with approve override becomes the internal gate",
			scheduled: true,
			members: []*models.Membership{
				{UserID: 1, Role: models.RoleOwner, CanApprovePosts: boolPtr(true)},
			},
			want: RequireInternalReview,
		},
		{
			name:      "client with revoked approval is not a gate",
			scheduled: true,
			members: []*models.Membership{
				{UserID: 1, Role: models.RoleOwner},
				{UserID: 2, Role: models.RoleClient, CanApprovePosts: boolPtr(false)},
			},
			want: PublishImmediately,
		},
		{
			name:      "legacy view_only client reviewer",
			scheduled: true,
			members: []*models.Membership{
				{UserID: 1, Role: models.RoleOwner},
				{UserID: 2, Role: models.RoleViewOnly, CanApprovePosts: boolPtr(true)},
			},
			want: RequireClientReview,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			decision, err := policyWithMembers(tc.members).Resolve(ctx, 1, tc.scheduled)
			require.NoError(t, err)
			assert.Equal(t, tc.want, decision)
		})
	}
}

func TestPolicyResolve_RepoError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("db down")
	repo := noopMembershipRepo()
	repo.listByWorkspaceFn = func(_ context.Context, _ int64) ([]*models.Membership, error) {
		return nil, repoErr
	}

	_, err := NewPolicyService(repo).Resolve(context.Background(), 1, true)
	assert.ErrorIs(t, err, repoErr)
}
