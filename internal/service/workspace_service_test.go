package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozysocial/woozy-api/internal/models"
	"github.com/woozysocial/woozy-api/internal/transfer"
)

type workspaceFixture struct {
	db      *sql.DB
	mock    sqlmock.Sqlmock
	wspaces *workspaceRepoStub
	members *membershipRepoStub
	users   *userRepoStub
}

func newWorkspaceFixture(t *testing.T) *workspaceFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &workspaceFixture{
		db:      db,
		mock:    mock,
		wspaces: noopWorkspaceRepo(),
		members: noopMembershipRepo(),
		users:   noopUserRepo(),
	}
}

func (f *workspaceFixture) service() WorkspaceService {
	return NewWorkspaceService(f.db, f.wspaces, f.members, f.users)
}

func TestWorkspaceCreate_SetsCreatorAsOwner(t *testing.T) {
	f := newWorkspaceFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	var membership *models.Membership
	f.members.createFn = func(_ context.Context, tx *sql.Tx, m *models.Membership) (int64, error) {
		require.NotNil(t, tx)
		membership = m
		return 1, nil
	}

	workspaceID, err := f.service().Create(context.Background(), 42, &transfer.WorkspaceCreation{Name: "Acme"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), workspaceID)
	require.NotNil(t, membership)
	assert.Equal(t, int64(42), membership.UserID)
	assert.Equal(t, models.RoleOwner, membership.Role)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestWorkspaceCreate_EmptyName(t *testing.T) {
	f := newWorkspaceFixture(t)

	_, err := f.service().Create(context.Background(), 42, &transfer.WorkspaceCreation{Name: "  "})

	var validation *models.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestAddMember_RequiresTeamRights(t *testing.T) {
	f := newWorkspaceFixture(t)
	f.members.getFn = func(_ context.Context, workspaceID, userID int64) (*models.Membership, bool, error) {
		return &models.Membership{WorkspaceID: workspaceID, UserID: userID, Role: models.RoleEditor}, true, nil
	}

	err := f.service().AddMember(context.Background(), 7, &transfer.MemberAddition{
		WorkspaceID: 1, Email: "new@example.com", Role: models.RoleEditor,
	})

	var forbidden *models.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestAddMember_RejectsOwnerRole(t *testing.T) {
	f := newWorkspaceFixture(t)

	err := f.service().AddMember(context.Background(), 7, &transfer.MemberAddition{
		WorkspaceID: 1, Email: "new@example.com", Role: models.RoleOwner,
	})

	var validation *models.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestAddMember_UnknownAccount(t *testing.T) {
	f := newWorkspaceFixture(t)

	err := f.service().AddMember(context.Background(), 7, &transfer.MemberAddition{
		WorkspaceID: 1, Email: "stranger@example.com", Role: models.RoleClient,
	})

	var notFound *models.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAddMember_Success(t *testing.T) {
	f := newWorkspaceFixture(t)
	f.users.getByEmailFn = func(_ context.Context, email string) (*models.User, bool, error) {
		return &models.User{ID: 9, Email: email}, true, nil
	}

	calls := 0
	f.members.getFn = func(_ context.Context, workspaceID, userID int64) (*models.Membership, bool, error) {
		calls++
		if calls == 1 {
			// Actor lookup.
			return &models.Membership{WorkspaceID: workspaceID, UserID: userID, Role: models.RoleAdmin}, true, nil
		}
		// Target is not yet a member.
		return nil, false, nil
	}

	var created *models.Membership
	f.members.createFn = func(_ context.Context, _ *sql.Tx, m *models.Membership) (int64, error) {
		created = m
		return 2, nil
	}

	err := f.service().AddMember(context.Background(), 7, &transfer.MemberAddition{
		WorkspaceID: 1, Email: "client@example.com", Role: models.RoleClient,
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, int64(9), created.UserID)
	assert.Equal(t, models.RoleClient, created.Role)
}

func TestChangeMember_OwnerRoleImmutable(t *testing.T) {
	f := newWorkspaceFixture(t)
	f.members.getFn = func(_ context.Context, workspaceID, userID int64) (*models.Membership, bool, error) {
		if userID == 7 {
			return &models.Membership{WorkspaceID: workspaceID, UserID: userID, Role: models.RoleAdmin}, true, nil
		}
		return &models.Membership{WorkspaceID: workspaceID, UserID: userID, Role: models.RoleOwner}, true, nil
	}

	err := f.service().ChangeMember(context.Background(), 7, &transfer.MemberRoleChange{
		WorkspaceID: 1, UserID: 42, Role: models.RoleEditor,
	})

	var validation *models.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestChangeMember_OverridesMergeWithExisting(t *testing.T) {
	f := newWorkspaceFixture(t)
	existingDelete := true
	existingSettings := false
	f.members.getFn = func(_ context.Context, workspaceID, userID int64) (*models.Membership, bool, error) {
		if userID == 7 {
			return &models.Membership{WorkspaceID: workspaceID, UserID: userID, Role: models.RoleAdmin}, true, nil
		}
		return &models.Membership{
			WorkspaceID:       workspaceID,
			UserID:            userID,
			Role:              models.RoleEditor,
			CanManageSettings: &existingSettings,
			CanDeletePosts:    &existingDelete,
		}, true, nil
	}

	var gotManage, gotSettings, gotDelete, gotApprove *bool
	f.members.updateOverridesFn = func(_ context.Context, _, _ int64, manageTeam, manageSettings, deletePosts, approvePosts *bool) error {
		gotManage, gotSettings, gotDelete, gotApprove = manageTeam, manageSettings, deletePosts, approvePosts
		return nil
	}

	grantApprove := true
	err := f.service().ChangeMember(context.Background(), 7, &transfer.MemberRoleChange{
		WorkspaceID: 1, UserID: 9, CanApprovePosts: &grantApprove,
	})
	require.NoError(t, err)

	assert.Nil(t, gotManage)
	require.NotNil(t, gotSettings)
	assert.False(t, *gotSettings)
	require.NotNil(t, gotDelete)
	assert.True(t, *gotDelete)
	require.NotNil(t, gotApprove)
	assert.True(t, *gotApprove)
}

func TestChangeMember_SettingsOverrideAlone(t *testing.T) {
	f := newWorkspaceFixture(t)
	f.members.getFn = func(_ context.Context, workspaceID, userID int64) (*models.Membership, bool, error) {
		if userID == 7 {
			return &models.Membership{WorkspaceID: workspaceID, UserID: userID, Role: models.RoleAdmin}, true, nil
		}
		return &models.Membership{WorkspaceID: workspaceID, UserID: userID, Role: models.RoleEditor}, true, nil
	}

	var gotSettings *bool
	written := false
	f.members.updateOverridesFn = func(_ context.Context, _, _ int64, _, manageSettings, _, _ *bool) error {
		written = true
		gotSettings = manageSettings
		return nil
	}

	grantSettings := true
	err := f.service().ChangeMember(context.Background(), 7, &transfer.MemberRoleChange{
		WorkspaceID: 1, UserID: 9, CanManageSettings: &grantSettings,
	})
	require.NoError(t, err)

	assert.True(t, written)
	require.NotNil(t, gotSettings)
	assert.True(t, *gotSettings)
}

func TestRemoveMember_OwnerCannotLeave(t *testing.T) {
	f := newWorkspaceFixture(t)

	err := f.service().RemoveMember(context.Background(), 1, &transfer.MemberRemoval{WorkspaceID: 1, UserID: 1})

	var validation *models.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestRemoveMember_SelfRemovalNeedsNoRights(t *testing.T) {
	f := newWorkspaceFixture(t)
	f.members.getFn = func(_ context.Context, workspaceID, userID int64) (*models.Membership, bool, error) {
		return &models.Membership{WorkspaceID: workspaceID, UserID: userID, Role: models.RoleEditor}, true, nil
	}

	removed := false
	f.members.removeFn = func(_ context.Context, _, _ int64) error {
		removed = true
		return nil
	}

	err := f.service().RemoveMember(context.Background(), 7, &transfer.MemberRemoval{WorkspaceID: 1, UserID: 7})
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestRemoveMember_OthersNeedTeamRights(t *testing.T) {
	f := newWorkspaceFixture(t)
	f.members.getFn = func(_ context.Context, workspaceID, userID int64) (*models.Membership, bool, error) {
		return &models.Membership{WorkspaceID: workspaceID, UserID: userID, Role: models.RoleEditor}, true, nil
	}

	err := f.service().RemoveMember(context.Background(), 7, &transfer.MemberRemoval{WorkspaceID: 1, UserID: 9})

	var forbidden *models.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}
