package service

import (
	"context"
	"database/sql"

	"github.com/woozysocial/woozy-api/internal/models"
	"github.com/woozysocial/woozy-api/internal/transfer"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn               func(context.Context, *sql.Tx, *models.Post) (int64, error)
	getByIDFn              func(context.Context, int64) (*models.Post, bool, error)
	listByWorkspaceFn      func(context.Context, int64) ([]*models.Post, error)
	listScheduledFn        func(context.Context, int64) ([]*models.Post, error)
	setPublishedFn         func(context.Context, int64, string, string) error
	setFailedFn            func(context.Context, int64, string) error
	updateApprovalStatusFn func(context.Context, *sql.Tx, int64, string) error
	removeFn               func(context.Context, int64) error
}

func (s *postRepoStub) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	return s.createFn(ctx, tx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id int64) (*models.Post, bool, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListByWorkspace(ctx context.Context, workspaceID int64) ([]*models.Post, error) {
	return s.listByWorkspaceFn(ctx, workspaceID)
}
func (s *postRepoStub) ListScheduled(ctx context.Context, workspaceID int64) ([]*models.Post, error) {
	return s.listScheduledFn(ctx, workspaceID)
}
func (s *postRepoStub) SetPublished(ctx context.Context, postID int64, externalID, status string) error {
	return s.setPublishedFn(ctx, postID, externalID, status)
}
func (s *postRepoStub) SetFailed(ctx context.Context, postID int64, errMsg string) error {
	return s.setFailedFn(ctx, postID, errMsg)
}
func (s *postRepoStub) UpdateApprovalStatus(ctx context.Context, tx *sql.Tx, postID int64, approvalStatus string) error {
	return s.updateApprovalStatusFn(ctx, tx, postID, approvalStatus)
}
func (s *postRepoStub) Remove(ctx context.Context, id int64) error {
	return s.removeFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *sql.Tx, _ *models.Post) (int64, error) { return 1, nil },
		getByIDFn: func(_ context.Context, _ int64) (*models.Post, bool, error) {
			return &models.Post{ID: 1, WorkspaceID: 1}, true, nil
		},
		listByWorkspaceFn:      func(_ context.Context, _ int64) ([]*models.Post, error) { return nil, nil },
		listScheduledFn:        func(_ context.Context, _ int64) ([]*models.Post, error) { return nil, nil },
		setPublishedFn:         func(_ context.Context, _ int64, _, _ string) error { return nil },
		setFailedFn:            func(_ context.Context, _ int64, _ string) error { return nil },
		updateApprovalStatusFn: func(_ context.Context, _ *sql.Tx, _ int64, _ string) error { return nil },
		removeFn:               func(_ context.Context, _ int64) error { return nil },
	}
}

// approvalRepoStub is a stub for repository.ApprovalRepository.
type approvalRepoStub struct {
	createFn      func(context.Context, *sql.Tx, *models.Approval) (int64, error)
	getByPostIDFn func(context.Context, int64) (*models.Approval, bool, error)
	transitionFn  func(context.Context, *sql.Tx, int64, []string, string, int64) (bool, error)
}

func (s *approvalRepoStub) Create(ctx context.Context, tx *sql.Tx, approval *models.Approval) (int64, error) {
	return s.createFn(ctx, tx, approval)
}
func (s *approvalRepoStub) GetByPostID(ctx context.Context, postID int64) (*models.Approval, bool, error) {
	return s.getByPostIDFn(ctx, postID)
}
func (s *approvalRepoStub) Transition(ctx context.Context, tx *sql.Tx, postID int64, from []string, to string, reviewerID int64) (bool, error) {
	return s.transitionFn(ctx, tx, postID, from, to, reviewerID)
}

func noopApprovalRepo() *approvalRepoStub {
	return &approvalRepoStub{
		createFn: func(_ context.Context, _ *sql.Tx, _ *models.Approval) (int64, error) { return 1, nil },
		getByPostIDFn: func(_ context.Context, _ int64) (*models.Approval, bool, error) {
			return &models.Approval{ID: 1, PostID: 1, Status: models.ApprovalPendingInternal}, true, nil
		},
		transitionFn: func(_ context.Context, _ *sql.Tx, _ int64, _ []string, _ string, _ int64) (bool, error) {
			return true, nil
		},
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *sql.Tx, *models.PostComment) (int64, error)
	listByPostIDFn func(context.Context, int64) ([]*models.PostComment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, tx *sql.Tx, comment *models.PostComment) (int64, error) {
	return s.createFn(ctx, tx, comment)
}
func (s *commentRepoStub) ListByPostID(ctx context.Context, postID int64) ([]*models.PostComment, error) {
	return s.listByPostIDFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:       func(_ context.Context, _ *sql.Tx, _ *models.PostComment) (int64, error) { return 1, nil },
		listByPostIDFn: func(_ context.Context, _ int64) ([]*models.PostComment, error) { return nil, nil },
	}
}

// membershipRepoStub is a stub for repository.MembershipRepository.
type membershipRepoStub struct {
	createFn          func(context.Context, *sql.Tx, *models.Membership) (int64, error)
	getFn             func(context.Context, int64, int64) (*models.Membership, bool, error)
	listByWorkspaceFn func(context.Context, int64) ([]*models.Membership, error)
	updateRoleFn      func(context.Context, int64, int64, string) error
	updateOverridesFn func(context.Context, int64, int64, *bool, *bool, *bool, *bool) error
	removeFn          func(context.Context, int64, int64) error
}

func (s *membershipRepoStub) Create(ctx context.Context, tx *sql.Tx, membership *models.Membership) (int64, error) {
	return s.createFn(ctx, tx, membership)
}
func (s *membershipRepoStub) Get(ctx context.Context, workspaceID, userID int64) (*models.Membership, bool, error) {
	return s.getFn(ctx, workspaceID, userID)
}
func (s *membershipRepoStub) ListByWorkspace(ctx context.Context, workspaceID int64) ([]*models.Membership, error) {
	return s.listByWorkspaceFn(ctx, workspaceID)
}
func (s *membershipRepoStub) UpdateRole(ctx context.Context, workspaceID, userID int64, role string) error {
	return s.updateRoleFn(ctx, workspaceID, userID, role)
}
func (s *membershipRepoStub) UpdateOverrides(ctx context.Context, workspaceID, userID int64, manageTeam, manageSettings, deletePosts, approvePosts *bool) error {
	return s.updateOverridesFn(ctx, workspaceID, userID, manageTeam, manageSettings, deletePosts, approvePosts)
}
func (s *membershipRepoStub) Remove(ctx context.Context, workspaceID, userID int64) error {
	return s.removeFn(ctx, workspaceID, userID)
}

func noopMembershipRepo() *membershipRepoStub {
	return &membershipRepoStub{
		createFn: func(_ context.Context, _ *sql.Tx, _ *models.Membership) (int64, error) { return 1, nil },
		getFn: func(_ context.Context, _, _ int64) (*models.Membership, bool, error) {
			return &models.Membership{WorkspaceID: 1, UserID: 1, Role: models.RoleOwner}, true, nil
		},
		listByWorkspaceFn: func(_ context.Context, _ int64) ([]*models.Membership, error) { return nil, nil },
		updateRoleFn:      func(_ context.Context, _, _ int64, _ string) error { return nil },
		updateOverridesFn: func(_ context.Context, _, _ int64, _, _, _, _ *bool) error { return nil },
		removeFn:          func(_ context.Context, _, _ int64) error { return nil },
	}
}

// workspaceRepoStub is a stub for repository.WorkspaceRepository.
type workspaceRepoStub struct {
	createFn           func(context.Context, *sql.Tx, *models.Workspace) (int64, error)
	getByIDFn          func(context.Context, int64) (*models.Workspace, bool, error)
	getOwnedByUserFn   func(context.Context, int64) (*models.Workspace, bool, error)
	listByMemberFn     func(context.Context, int64) ([]*models.Workspace, error)
	listWithProfilesFn func(context.Context) ([]*models.Workspace, error)
	setProfileFn       func(context.Context, int64, string, string) error
}

func (s *workspaceRepoStub) Create(ctx context.Context, tx *sql.Tx, workspace *models.Workspace) (int64, error) {
	return s.createFn(ctx, tx, workspace)
}
func (s *workspaceRepoStub) GetByID(ctx context.Context, id int64) (*models.Workspace, bool, error) {
	return s.getByIDFn(ctx, id)
}
func (s *workspaceRepoStub) GetOwnedByUser(ctx context.Context, userID int64) (*models.Workspace, bool, error) {
	return s.getOwnedByUserFn(ctx, userID)
}
func (s *workspaceRepoStub) ListByMember(ctx context.Context, userID int64) ([]*models.Workspace, error) {
	return s.listByMemberFn(ctx, userID)
}
func (s *workspaceRepoStub) ListWithProfiles(ctx context.Context) ([]*models.Workspace, error) {
	return s.listWithProfilesFn(ctx)
}
func (s *workspaceRepoStub) SetProfile(ctx context.Context, workspaceID int64, profileKey, refID string) error {
	return s.setProfileFn(ctx, workspaceID, profileKey, refID)
}

func noopWorkspaceRepo() *workspaceRepoStub {
	return &workspaceRepoStub{
		createFn: func(_ context.Context, _ *sql.Tx, _ *models.Workspace) (int64, error) { return 1, nil },
		getByIDFn: func(_ context.Context, _ int64) (*models.Workspace, bool, error) {
			return &models.Workspace{ID: 1, Name: "Acme"}, true, nil
		},
		getOwnedByUserFn:   func(_ context.Context, _ int64) (*models.Workspace, bool, error) { return nil, false, nil },
		listByMemberFn:     func(_ context.Context, _ int64) ([]*models.Workspace, error) { return nil, nil },
		listWithProfilesFn: func(_ context.Context) ([]*models.Workspace, error) { return nil, nil },
		setProfileFn:       func(_ context.Context, _ int64, _, _ string) error { return nil },
	}
}

// subscriptionRepoStub is a stub for repository.SubscriptionRepository.
type subscriptionRepoStub struct {
	getByUserIDFn     func(context.Context, int64) (*models.Subscription, bool, error)
	getByCustomerIDFn func(context.Context, string) (*models.Subscription, bool, error)
	upsertFn          func(context.Context, *models.Subscription) error
	updateStatusFn    func(context.Context, int64, string) error
}

func (s *subscriptionRepoStub) GetByUserID(ctx context.Context, userID int64) (*models.Subscription, bool, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *subscriptionRepoStub) GetByCustomerID(ctx context.Context, customerID string) (*models.Subscription, bool, error) {
	return s.getByCustomerIDFn(ctx, customerID)
}
func (s *subscriptionRepoStub) Upsert(ctx context.Context, subscription *models.Subscription) error {
	return s.upsertFn(ctx, subscription)
}
func (s *subscriptionRepoStub) UpdateStatus(ctx context.Context, userID int64, status string) error {
	return s.updateStatusFn(ctx, userID, status)
}

func noopSubscriptionRepo() *subscriptionRepoStub {
	return &subscriptionRepoStub{
		getByUserIDFn: func(_ context.Context, _ int64) (*models.Subscription, bool, error) {
			return nil, false, nil
		},
		getByCustomerIDFn: func(_ context.Context, _ string) (*models.Subscription, bool, error) {
			return nil, false, nil
		},
		upsertFn:       func(_ context.Context, _ *models.Subscription) error { return nil },
		updateStatusFn: func(_ context.Context, _ int64, _ string) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, int64) (*models.User, bool, error)
	getByEmailFn func(context.Context, string) (*models.User, bool, error)
	createFn     func(context.Context, *sql.Tx, *models.User) (int64, error)
	updateFn     func(context.Context, *models.User) error
	removeFn     func(context.Context, int64) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error) {
	return s.createFn(ctx, tx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Remove(ctx context.Context, id int64) error {
	return s.removeFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id int64) (*models.User, bool, error) {
			return &models.User{ID: id, Name: "Jordan", Email: "jordan@example.com"}, true, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, bool, error) { return nil, false, nil },
		createFn:     func(_ context.Context, _ *sql.Tx, _ *models.User) (int64, error) { return 1, nil },
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
		removeFn:     func(_ context.Context, _ int64) error { return nil },
	}
}

// ayrshareStub is a stub for AyrshareService.
type ayrshareStub struct {
	submitPostFn    func(context.Context, *models.Post, string) (string, string, error)
	deletePostFn    func(context.Context, string, string) error
	historyFn       func(context.Context, string) ([]transfer.AyrshareHistoryItem, error)
	createProfileFn func(context.Context, string) (*transfer.AyrshareProfile, error)
	deleteProfileFn func(context.Context, string) error
}

func (s *ayrshareStub) SubmitPost(ctx context.Context, post *models.Post, profileKey string) (string, string, error) {
	return s.submitPostFn(ctx, post, profileKey)
}
func (s *ayrshareStub) DeletePost(ctx context.Context, externalID, profileKey string) error {
	return s.deletePostFn(ctx, externalID, profileKey)
}
func (s *ayrshareStub) History(ctx context.Context, profileKey string) ([]transfer.AyrshareHistoryItem, error) {
	return s.historyFn(ctx, profileKey)
}
func (s *ayrshareStub) CreateProfile(ctx context.Context, title string) (*transfer.AyrshareProfile, error) {
	return s.createProfileFn(ctx, title)
}
func (s *ayrshareStub) DeleteProfile(ctx context.Context, profileKey string) error {
	return s.deleteProfileFn(ctx, profileKey)
}

func noopAyrshare() *ayrshareStub {
	return &ayrshareStub{
		submitPostFn: func(_ context.Context, _ *models.Post, _ string) (string, string, error) {
			return "ext-1", models.PostStatusPosted, nil
		},
		deletePostFn: func(_ context.Context, _, _ string) error { return nil },
		historyFn:    func(_ context.Context, _ string) ([]transfer.AyrshareHistoryItem, error) { return nil, nil },
		createProfileFn: func(_ context.Context, title string) (*transfer.AyrshareProfile, error) {
			return &transfer.AyrshareProfile{Status: "success", Title: title, RefID: "ref-1", ProfileKey: "profile-key-1"}, nil
		},
		deleteProfileFn: func(_ context.Context, _ string) error { return nil },
	}
}

// subscriptionServiceStub is a stub for SubscriptionService.
type subscriptionServiceStub struct {
	publishableCredentialFn func(context.Context, int64) (string, error)
}

func (s *subscriptionServiceStub) PublishableCredential(ctx context.Context, workspaceID int64) (string, error) {
	return s.publishableCredentialFn(ctx, workspaceID)
}

func noopSubscriptionService() *subscriptionServiceStub {
	return &subscriptionServiceStub{
		publishableCredentialFn: func(_ context.Context, _ int64) (string, error) { return "profile-key-1", nil },
	}
}

// notifierStub records notifications instead of enqueueing them.
type notifierStub struct {
	calls []notifierCall
}

type notifierCall struct {
	postID      int64
	recipientID int64
	action      string
	comment     string
}

func (s *notifierStub) NotifyApproval(postID, recipientID int64, action, comment string) error {
	s.calls = append(s.calls, notifierCall{postID: postID, recipientID: recipientID, action: action, comment: comment})
	return nil
}

// reconcilerStub records compensation requests.
type reconcilerStub struct {
	calls []reconcilerCall
}

type reconcilerCall struct {
	workspaceID  int64
	encryptedKey string
	refID        string
}

func (s *reconcilerStub) ReconcileProfile(workspaceID int64, encryptedKey, refID string) error {
	s.calls = append(s.calls, reconcilerCall{workspaceID: workspaceID, encryptedKey: encryptedKey, refID: refID})
	return nil
}
