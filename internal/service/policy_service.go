package service

import (
	"context"

	"github.com/woozysocial/woozy-api/internal/rbac"
	"github.com/woozysocial/woozy-api/internal/repository"
)

type PolicyDecision string

const (
	PublishImmediately    PolicyDecision = "publish_immediately"
	RequireInternalReview PolicyDecision = "require_internal_review"
	RequireClientReview   PolicyDecision = "require_client_review"
)

// PolicyService decides which review path a new post takes. Pure query plus
// decision, no side effects.
type PolicyService interface {
	Resolve(ctx context.Context, workspaceID int64, scheduled bool) (PolicyDecision, error)
}

type policyService struct {
	m repository.MembershipRepository
}

func NewPolicyService(m repository.MembershipRepository) PolicyService {
	return &policyService{m: m}
}

func (s *policyService) Resolve(ctx context.Context, workspaceID int64, scheduled bool) (PolicyDecision, error) {
	// Review only applies to content scheduled for later. "Post now" always
	// goes straight out.
	if !scheduled {
		return PublishImmediately, nil
	}

	members, err := s.m.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return "", err
	}

	hasClientApprover := false
	for _, m := range members {
		if rbac.IsFinalApprover(m) {
			return RequireInternalReview, nil
		}
		if rbac.IsClientApprover(m) {
			hasClientApprover = true
		}
	}

	if hasClientApprover {
		return RequireClientReview, nil
	}

	return PublishImmediately, nil
}
