package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/woozysocial/woozy-api/internal/models"
	"github.com/woozysocial/woozy-api/internal/rbac"
	"github.com/woozysocial/woozy-api/internal/repository"
	"github.com/woozysocial/woozy-api/internal/transfer"
)

const (
	ActionApprove         = "approve"
	ActionReject          = "reject"
	ActionRequestChanges  = "request_changes"
	ActionForwardToClient = "forward_to_client"
	ActionMarkResolved    = "mark_resolved"
)

// ApprovalNotifier dispatches a notification to the post creator after a
// review decision. Implemented by the task queue.
type ApprovalNotifier interface {
	NotifyApproval(postID, recipientID int64, action, comment string) error
}

// ApprovalService owns the review lifecycle of a post. Every transition is
// permission-checked, compare-and-swapped against the expected prior status,
// and committed together with its audit comment in one transaction.
type ApprovalService interface {
	HandleAction(ctx context.Context, actorID int64, action *transfer.ApprovalAction) error
}

type approvalService struct {
	db  *sql.DB
	a   repository.ApprovalRepository
	p   repository.PostRepository
	c   repository.CommentRepository
	m   repository.MembershipRepository
	u   repository.UserRepository
	ay  AyrshareService
	sub SubscriptionService
	n   ApprovalNotifier
}

func NewApprovalService(
	db *sql.DB,
	a repository.ApprovalRepository,
	p repository.PostRepository,
	c repository.CommentRepository,
	m repository.MembershipRepository,
	u repository.UserRepository,
	ay AyrshareService,
	sub SubscriptionService,
	n ApprovalNotifier) ApprovalService {
	return &approvalService{
		db:  db,
		a:   a,
		p:   p,
		c:   c,
		m:   m,
		u:   u,
		ay:  ay,
		sub: sub,
		n:   n,
	}
}

// transition is the resolved plan for one state-machine step.
type transition struct {
	from    []string
	to      string
	publish bool
	notify  bool
}

func (s *approvalService) HandleAction(ctx context.Context, actorID int64, action *transfer.ApprovalAction) error {
	membership, isMember, err := s.m.Get(ctx, action.WorkspaceID, actorID)
	if err != nil {
		return err
	}
	if !isMember {
		return models.Forbiddenf("not a member of this workspace")
	}

	post, isExist, err := s.p.GetByID(ctx, action.PostID)
	if err != nil {
		return err
	}
	if !isExist || post.WorkspaceID != action.WorkspaceID {
		return models.NotFoundf("post %d not found", action.PostID)
	}

	approval, isExist, err := s.a.GetByPostID(ctx, action.PostID)
	if err != nil {
		return err
	}
	if !isExist {
		return models.NotFoundf("post %d has no approval record", action.PostID)
	}

	plan, err := s.resolveTransition(membership, approval.Status, action)
	if err != nil {
		return err
	}

	// The approve path needs a credential; detect its absence before any
	// state is touched so the approver gets an actionable failure.
	var credential string
	if plan.publish {
		credential, err = s.sub.PublishableCredential(ctx, action.WorkspaceID)
		if err != nil {
			return err
		}
	}

	actor, isExist, err := s.u.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !isExist {
		return models.NotFoundf("user %d not found", actorID)
	}

	if err := s.commitTransition(ctx, post, plan, actorID, systemComment(actor.Name, action)); err != nil {
		return err
	}

	if plan.notify {
		if err := s.n.NotifyApproval(post.ID, post.CreatorID, action.Action, action.Comment); err != nil {
			slog.Error("enqueueing approval notification", "post_id", post.ID, "error", err)
		}
	}

	if plan.publish {
		return s.publishApproved(ctx, post, credential)
	}

	return nil
}

func (s *approvalService) resolveTransition(membership *models.Membership, current string, action *transfer.ApprovalAction) (*transition, error) {
	switch action.Action {
	case ActionApprove:
		switch current {
		case models.ApprovalPendingInternal:
			if !rbac.IsFinalApprover(membership) {
				return nil, models.Forbiddenf("approving requires final approver rights")
			}
			return &transition{from: []string{models.ApprovalPendingInternal}, to: models.ApprovalApproved, publish: true}, nil
		case models.ApprovalPendingClient:
			if !rbac.IsClientApprover(membership) {
				return nil, models.Forbiddenf("approving requires client approver rights")
			}
			return &transition{from: models.PendingClientStatuses(), to: models.ApprovalApproved, publish: true}, nil
		}

	case ActionReject:
		if current != models.ApprovalPendingClient {
			break
		}
		if !rbac.IsClientApprover(membership) {
			return nil, models.Forbiddenf("rejecting requires client approver rights")
		}
		if strings.TrimSpace(action.Comment) == "" {
			return nil, models.Validationf("a comment is required when rejecting")
		}
		return &transition{from: models.PendingClientStatuses(), to: models.ApprovalRejected, notify: true}, nil

	case ActionRequestChanges:
		switch current {
		case models.ApprovalPendingInternal:
			if !rbac.IsFinalApprover(membership) {
				return nil, models.Forbiddenf("requesting changes requires final approver rights")
			}
			return &transition{from: []string{models.ApprovalPendingInternal}, to: models.ApprovalChangesRequested, notify: true}, nil
		case models.ApprovalPendingClient:
			if !rbac.IsClientApprover(membership) {
				return nil, models.Forbiddenf("requesting changes requires client approver rights")
			}
			if strings.TrimSpace(action.Comment) == "" {
				return nil, models.Validationf("a comment is required when requesting changes")
			}
			return &transition{from: models.PendingClientStatuses(), to: models.ApprovalChangesRequested, notify: true}, nil
		}

	case ActionForwardToClient:
		if current != models.ApprovalPendingInternal {
			break
		}
		if !rbac.IsFinalApprover(membership) {
			return nil, models.Forbiddenf("forwarding requires final approver rights")
		}
		return &transition{from: []string{models.ApprovalPendingInternal}, to: models.ApprovalPendingClient}, nil

	case ActionMarkResolved:
		if current != models.ApprovalChangesRequested {
			break
		}
		switch membership.Role {
		case models.RoleOwner, models.RoleAdmin, models.RoleEditor:
		default:
			return nil, models.Forbiddenf("resolving changes requires an editor or admin")
		}
		// Re-enters internal review; the routing decision made at intake
		// holds for the post's lifetime.
		return &transition{from: []string{models.ApprovalChangesRequested}, to: models.ApprovalPendingInternal}, nil

	default:
		return nil, models.Validationf("unknown approval action %q", action.Action)
	}

	return nil, models.Validationf("action %q is not valid from status %q", action.Action, current)
}

// commitTransition performs the compare-and-swap status update, the post's
// read-only projection, and the audit comment in one transaction.
func (s *approvalService) commitTransition(ctx context.Context, post *models.Post, plan *transition, actorID int64, comment string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	swapped, err := s.a.Transition(ctx, tx, post.ID, plan.from, plan.to, actorID)
	if err != nil {
		return err
	}
	if !swapped {
		// Another reviewer got there first. No side effects.
		return models.Validationf("post is no longer awaiting this action")
	}

	if err := s.p.UpdateApprovalStatus(ctx, tx, post.ID, plan.to); err != nil {
		return err
	}

	audit := &models.PostComment{
		PostID:      post.ID,
		WorkspaceID: post.WorkspaceID,
		UserID:      actorID,
		Body:        comment,
		IsSystem:    true,
	}
	if _, err := s.c.Create(ctx, tx, audit); err != nil {
		return err
	}

	return tx.Commit()
}

// publishApproved submits the post after its approval has been committed. A
// failed submission marks the post failed but never rolls the approval back;
// the retry action re-attempts publish without re-review.
func (s *approvalService) publishApproved(ctx context.Context, post *models.Post, credential string) error {
	externalID, finalStatus, err := s.ay.SubmitPost(ctx, post, credential)
	if err != nil {
		if updateErr := s.p.SetFailed(ctx, post.ID, err.Error()); updateErr != nil {
			slog.Error("recording publish failure", "post_id", post.ID, "error", updateErr)
		}
		return err
	}

	return s.p.SetPublished(ctx, post.ID, externalID, finalStatus)
}

func systemComment(actorName string, action *transfer.ApprovalAction) string {
	switch action.Action {
	case ActionApprove:
		return fmt.Sprintf("%s approved this post", actorName)
	case ActionReject:
		return fmt.Sprintf("%s rejected this post: %s", actorName, action.Comment)
	case ActionRequestChanges:
		if strings.TrimSpace(action.Comment) == "" {
			return fmt.Sprintf("%s requested changes", actorName)
		}
		return fmt.Sprintf("%s requested changes: %s", actorName, action.Comment)
	case ActionForwardToClient:
		return fmt.Sprintf("%s forwarded this post for client review", actorName)
	case ActionMarkResolved:
		return fmt.Sprintf("%s marked the requested changes as resolved", actorName)
	default:
		return fmt.Sprintf("%s updated this post", actorName)
	}
}
