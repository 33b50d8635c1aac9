package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/woozysocial/woozy-api/internal/models"
	"github.com/woozysocial/woozy-api/internal/rbac"
	"github.com/woozysocial/woozy-api/internal/repository"
	"github.com/woozysocial/woozy-api/internal/transfer"
)

type PostService interface {
	CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation) (*transfer.PostCreationResult, error)
	List(ctx context.Context, workspaceID, userID int64) ([]*models.Post, error)
	PostInfo(ctx context.Context, workspaceID, userID, postID int64) (*models.Post, error)
	Remove(ctx context.Context, workspaceID, userID, postID int64) error
	Retry(ctx context.Context, workspaceID, userID, postID int64) error
	AddComment(ctx context.Context, userID int64, cc *transfer.CommentCreation) error
	ListComments(ctx context.Context, workspaceID, userID, postID int64) ([]*models.PostComment, error)
}

type postService struct {
	db     *sql.DB
	pr     repository.PostRepository
	ar     repository.ApprovalRepository
	cr     repository.CommentRepository
	mr     repository.MembershipRepository
	policy PolicyService
	sub    SubscriptionService
	ay     AyrshareService
}

func NewPostService(
	db *sql.DB,
	pr repository.PostRepository,
	ar repository.ApprovalRepository,
	cr repository.CommentRepository,
	mr repository.MembershipRepository,
	policy PolicyService,
	sub SubscriptionService,
	ay AyrshareService) PostService {
	return &postService{
		db:     db,
		pr:     pr,
		ar:     ar,
		cr:     cr,
		mr:     mr,
		policy: policy,
		sub:    sub,
		ay:     ay,
	}
}

func (s *postService) CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation) (*transfer.PostCreationResult, error) {
	membership, isMember, err := s.mr.Get(ctx, pc.WorkspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, models.Forbiddenf("not a member of this workspace")
	}
	switch membership.Role {
	case models.RoleOwner, models.RoleAdmin, models.RoleEditor:
	default:
		return nil, models.Forbiddenf("your role cannot compose posts")
	}

	if strings.TrimSpace(pc.Caption) == "" {
		return nil, models.Validationf("caption cannot be empty")
	}
	if len(pc.Platforms) == 0 {
		return nil, models.Validationf("no target platforms selected")
	}

	var scheduledTime sql.NullTime
	if pc.ScheduledTime != "" {
		t, err := time.Parse(time.RFC3339, pc.ScheduledTime)
		if err != nil {
			return nil, models.Validationf("invalid scheduled time format: %v", err)
		}
		scheduledTime = sql.NullTime{Time: t, Valid: true}
	}
	scheduled := scheduledTime.Valid && scheduledTime.Time.After(time.Now())

	decision, err := s.policy.Resolve(ctx, pc.WorkspaceID, scheduled)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		WorkspaceID:   pc.WorkspaceID,
		CreatorID:     userID,
		Caption:       pc.Caption,
		MediaURLs:     pc.MediaURLs,
		Platforms:     pc.Platforms,
		ScheduledTime: scheduledTime,
	}

	if decision == PublishImmediately {
		return s.createAndPublish(ctx, post)
	}

	initial := models.ApprovalPendingInternal
	if decision == RequireClientReview {
		initial = models.ApprovalPendingClient
	}
	return s.createForReview(ctx, post, initial)
}

func (s *postService) createAndPublish(ctx context.Context, post *models.Post) (*transfer.PostCreationResult, error) {
	credential, err := s.sub.PublishableCredential(ctx, post.WorkspaceID)
	if err != nil {
		return nil, err
	}

	post.Status = models.PostStatusDraft
	postID, err := s.pr.Create(ctx, nil, post)
	if err != nil {
		return nil, err
	}
	post.ID = postID

	externalID, finalStatus, err := s.ay.SubmitPost(ctx, post, credential)
	if err != nil {
		if updateErr := s.pr.SetFailed(ctx, postID, err.Error()); updateErr != nil {
			slog.Error("recording publish failure", "post_id", postID, "error", updateErr)
		}
		return nil, err
	}

	if err := s.pr.SetPublished(ctx, postID, externalID, finalStatus); err != nil {
		return nil, err
	}

	return &transfer.PostCreationResult{PostID: postID, Status: finalStatus}, nil
}

func (s *postService) createForReview(ctx context.Context, post *models.Post, initialStatus string) (*transfer.PostCreationResult, error) {
	post.Status = models.PostStatusPendingApproval
	post.ApprovalStatus = sql.NullString{String: initialStatus, Valid: true}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	postID, err := s.pr.Create(ctx, tx, post)
	if err != nil {
		return nil, err
	}

	approval := &models.Approval{PostID: postID, Status: initialStatus}
	if _, err := s.ar.Create(ctx, tx, approval); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &transfer.PostCreationResult{PostID: postID, Status: initialStatus}, nil
}

func (s *postService) List(ctx context.Context, workspaceID, userID int64) ([]*models.Post, error) {
	_, isMember, err := s.mr.Get(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, models.Forbiddenf("not a member of this workspace")
	}

	return s.pr.ListByWorkspace(ctx, workspaceID)
}

func (s *postService) PostInfo(ctx context.Context, workspaceID, userID, postID int64) (*models.Post, error) {
	_, isMember, err := s.mr.Get(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, models.Forbiddenf("not a member of this workspace")
	}

	post, isExist, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !isExist || post.WorkspaceID != workspaceID {
		return nil, models.NotFoundf("post %d not found", postID)
	}

	return post, nil
}

// Remove deletes remotely first, then locally. The remote delete is best
// effort: a 404 means already gone, any other failure is logged and the
// local record still goes away, since the local store is authoritative for
// the user-facing list.
func (s *postService) Remove(ctx context.Context, workspaceID, userID, postID int64) error {
	membership, isMember, err := s.mr.Get(ctx, workspaceID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return models.Forbiddenf("not a member of this workspace")
	}

	post, isExist, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !isExist || post.WorkspaceID != workspaceID {
		return models.NotFoundf("post %d not found", postID)
	}

	if post.CreatorID != userID && !rbac.Has(membership, rbac.CapDeletePosts) {
		return models.Forbiddenf("deleting this post requires delete rights")
	}

	if post.ExternalID.Valid && post.ExternalID.String != "" {
		credential, err := s.sub.PublishableCredential(ctx, workspaceID)
		if err != nil {
			slog.Error("resolving credential for remote delete", "post_id", postID, "error", err)
		} else if err := s.ay.DeletePost(ctx, post.ExternalID.String, credential); err != nil {
			slog.Error("remote delete failed, removing local record anyway", "post_id", postID, "error", err)
		}
	}

	return s.pr.Remove(ctx, postID)
}

// Retry re-attempts publish for an approved post whose submission failed.
// The approval decision stands; only the publish is repeated.
func (s *postService) Retry(ctx context.Context, workspaceID, userID, postID int64) error {
	membership, isMember, err := s.mr.Get(ctx, workspaceID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return models.Forbiddenf("not a member of this workspace")
	}
	switch membership.Role {
	case models.RoleOwner, models.RoleAdmin, models.RoleEditor:
	default:
		return models.Forbiddenf("your role cannot retry publishing")
	}

	post, isExist, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !isExist || post.WorkspaceID != workspaceID {
		return models.NotFoundf("post %d not found", postID)
	}
	if post.Status != models.PostStatusFailed {
		return models.Validationf("only failed posts can be retried")
	}

	approval, hasApproval, err := s.ar.GetByPostID(ctx, postID)
	if err != nil {
		return err
	}
	if hasApproval && approval.Status != models.ApprovalApproved {
		return models.Validationf("post has not been approved")
	}

	credential, err := s.sub.PublishableCredential(ctx, workspaceID)
	if err != nil {
		return err
	}

	externalID, finalStatus, err := s.ay.SubmitPost(ctx, post, credential)
	if err != nil {
		if updateErr := s.pr.SetFailed(ctx, postID, err.Error()); updateErr != nil {
			slog.Error("recording publish failure", "post_id", postID, "error", updateErr)
		}
		return err
	}

	return s.pr.SetPublished(ctx, postID, externalID, finalStatus)
}

func (s *postService) AddComment(ctx context.Context, userID int64, cc *transfer.CommentCreation) error {
	_, isMember, err := s.mr.Get(ctx, cc.WorkspaceID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return models.Forbiddenf("not a member of this workspace")
	}

	if strings.TrimSpace(cc.Body) == "" {
		return models.Validationf("comment cannot be empty")
	}

	post, isExist, err := s.pr.GetByID(ctx, cc.PostID)
	if err != nil {
		return err
	}
	if !isExist || post.WorkspaceID != cc.WorkspaceID {
		return models.NotFoundf("post %d not found", cc.PostID)
	}

	comment := &models.PostComment{
		PostID:      cc.PostID,
		WorkspaceID: cc.WorkspaceID,
		UserID:      userID,
		Body:        cc.Body,
	}
	_, err = s.cr.Create(ctx, nil, comment)
	return err
}

func (s *postService) ListComments(ctx context.Context, workspaceID, userID, postID int64) ([]*models.PostComment, error) {
	_, isMember, err := s.mr.Get(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, models.Forbiddenf("not a member of this workspace")
	}

	post, isExist, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !isExist || post.WorkspaceID != workspaceID {
		return nil, models.NotFoundf("post %d not found", postID)
	}

	return s.cr.ListByPostID(ctx, postID)
}
