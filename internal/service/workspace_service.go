package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/woozysocial/woozy-api/internal/models"
	"github.com/woozysocial/woozy-api/internal/rbac"
	"github.com/woozysocial/woozy-api/internal/repository"
	"github.com/woozysocial/woozy-api/internal/transfer"
)

type WorkspaceService interface {
	Create(ctx context.Context, userID int64, wc *transfer.WorkspaceCreation) (int64, error)
	ListForUser(ctx context.Context, userID int64) ([]*models.Workspace, error)
	AddMember(ctx context.Context, actorID int64, ma *transfer.MemberAddition) error
	ChangeMember(ctx context.Context, actorID int64, mc *transfer.MemberRoleChange) error
	RemoveMember(ctx context.Context, actorID int64, mr *transfer.MemberRemoval) error
	ListMembers(ctx context.Context, workspaceID, userID int64) ([]*models.Membership, error)
}

type workspaceService struct {
	db *sql.DB
	w  repository.WorkspaceRepository
	m  repository.MembershipRepository
	u  repository.UserRepository
}

func NewWorkspaceService(
	db *sql.DB,
	w repository.WorkspaceRepository,
	m repository.MembershipRepository,
	u repository.UserRepository) WorkspaceService {
	return &workspaceService{
		db: db,
		w:  w,
		m:  m,
		u:  u,
	}
}

func validRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleEditor, models.RoleViewOnly, models.RoleClient:
		return true
	}
	return false
}

func (s *workspaceService) Create(ctx context.Context, userID int64, wc *transfer.WorkspaceCreation) (int64, error) {
	if strings.TrimSpace(wc.Name) == "" {
		return 0, models.Validationf("workspace name cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	workspaceID, err := s.w.Create(ctx, tx, &models.Workspace{Name: wc.Name})
	if err != nil {
		return 0, err
	}

	membership := &models.Membership{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        models.RoleOwner,
	}
	if _, err := s.m.Create(ctx, tx, membership); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return workspaceID, nil
}

func (s *workspaceService) ListForUser(ctx context.Context, userID int64) ([]*models.Workspace, error) {
	return s.w.ListByMember(ctx, userID)
}

func (s *workspaceService) AddMember(ctx context.Context, actorID int64, ma *transfer.MemberAddition) error {
	actor, isMember, err := s.m.Get(ctx, ma.WorkspaceID, actorID)
	if err != nil {
		return err
	}
	if !isMember || !rbac.Has(actor, rbac.CapManageTeam) {
		return models.Forbiddenf("managing the team requires team rights")
	}

	// Only one owner per workspace; new members come in below owner.
	if !validRole(ma.Role) {
		return models.Validationf("invalid role %q", ma.Role)
	}

	user, isExist, err := s.u.GetByEmail(ctx, ma.Email)
	if err != nil {
		return err
	}
	if !isExist {
		return models.NotFoundf("no account for %s", ma.Email)
	}

	_, alreadyMember, err := s.m.Get(ctx, ma.WorkspaceID, user.ID)
	if err != nil {
		return err
	}
	if alreadyMember {
		return models.Validationf("%s is already a member", ma.Email)
	}

	membership := &models.Membership{
		WorkspaceID: ma.WorkspaceID,
		UserID:      user.ID,
		Role:        ma.Role,
	}
	_, err = s.m.Create(ctx, nil, membership)
	return err
}

func (s *workspaceService) ChangeMember(ctx context.Context, actorID int64, mc *transfer.MemberRoleChange) error {
	actor, isMember, err := s.m.Get(ctx, mc.WorkspaceID, actorID)
	if err != nil {
		return err
	}
	if !isMember || !rbac.Has(actor, rbac.CapManageTeam) {
		return models.Forbiddenf("managing the team requires team rights")
	}

	target, isExist, err := s.m.Get(ctx, mc.WorkspaceID, mc.UserID)
	if err != nil {
		return err
	}
	if !isExist {
		return models.NotFoundf("user %d is not a member", mc.UserID)
	}
	if target.Role == models.RoleOwner {
		return models.Validationf("the owner's role cannot be changed")
	}

	if mc.Role != "" {
		if !validRole(mc.Role) {
			return models.Validationf("invalid role %q", mc.Role)
		}
		if err := s.m.UpdateRole(ctx, mc.WorkspaceID, mc.UserID, mc.Role); err != nil {
			return err
		}
	}

	if mc.CanManageTeam != nil || mc.CanManageSettings != nil || mc.CanDeletePosts != nil || mc.CanApprovePosts != nil {
		manageTeam := mc.CanManageTeam
		if manageTeam == nil {
			manageTeam = target.CanManageTeam
		}
		manageSettings := mc.CanManageSettings
		if manageSettings == nil {
			manageSettings = target.CanManageSettings
		}
		deletePosts := mc.CanDeletePosts
		if deletePosts == nil {
			deletePosts = target.CanDeletePosts
		}
		approvePosts := mc.CanApprovePosts
		if approvePosts == nil {
			approvePosts = target.CanApprovePosts
		}
		return s.m.UpdateOverrides(ctx, mc.WorkspaceID, mc.UserID, manageTeam, manageSettings, deletePosts, approvePosts)
	}

	return nil
}

func (s *workspaceService) RemoveMember(ctx context.Context, actorID int64, mr *transfer.MemberRemoval) error {
	actor, isMember, err := s.m.Get(ctx, mr.WorkspaceID, actorID)
	if err != nil {
		return err
	}
	if !isMember {
		return models.Forbiddenf("not a member of this workspace")
	}

	// Leaving yourself needs no team rights; removing anyone else does.
	if actorID != mr.UserID && !rbac.Has(actor, rbac.CapManageTeam) {
		return models.Forbiddenf("managing the team requires team rights")
	}

	target, isExist, err := s.m.Get(ctx, mr.WorkspaceID, mr.UserID)
	if err != nil {
		return err
	}
	if !isExist {
		return models.NotFoundf("user %d is not a member", mr.UserID)
	}
	if target.Role == models.RoleOwner {
		// There is no ownership transfer path, so the owner stays.
		return models.Validationf("the owner cannot leave or be removed")
	}

	return s.m.Remove(ctx, mr.WorkspaceID, mr.UserID)
}

func (s *workspaceService) ListMembers(ctx context.Context, workspaceID, userID int64) ([]*models.Membership, error) {
	_, isMember, err := s.m.Get(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, models.Forbiddenf("not a member of this workspace")
	}

	return s.m.ListByWorkspace(ctx, workspaceID)
}
