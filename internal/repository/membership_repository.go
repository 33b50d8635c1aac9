package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/woozysocial/woozy-api/internal/models"
)

type MembershipRepository interface {
	Create(ctx context.Context, tx *sql.Tx, membership *models.Membership) (int64, error)
	Get(ctx context.Context, workspaceID, userID int64) (*models.Membership, bool, error)
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]*models.Membership, error)
	UpdateRole(ctx context.Context, workspaceID, userID int64, role string) error
	UpdateOverrides(ctx context.Context, workspaceID, userID int64, manageTeam, manageSettings, deletePosts, approvePosts *bool) error
	Remove(ctx context.Context, workspaceID, userID int64) error
}

type membershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

const membershipColumns = `id, workspace_id, user_id, role, can_manage_team, can_manage_settings, can_delete_posts, can_approve_posts, created_at, updated_at`

func scanMembership(row interface{ Scan(...any) error }) (*models.Membership, error) {
	var m models.Membership
	err := row.Scan(&m.ID, &m.WorkspaceID, &m.UserID, &m.Role,
		&m.CanManageTeam, &m.CanManageSettings, &m.CanDeletePosts, &m.CanApprovePosts,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) Create(ctx context.Context, tx *sql.Tx, membership *models.Membership) (int64, error) {
	query := `
		INSERT INTO memberships (workspace_id, user_id, role, can_manage_team, can_manage_settings, can_delete_posts, can_approve_posts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	var err error

	args := []any{membership.WorkspaceID, membership.UserID, membership.Role,
		membership.CanManageTeam, membership.CanManageSettings,
		membership.CanDeletePosts, membership.CanApprovePosts}

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *membershipRepository) Get(ctx context.Context, workspaceID, userID int64) (*models.Membership, bool, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE workspace_id = $1 AND user_id = $2`

	m, err := scanMembership(r.db.QueryRowContext(ctx, query, workspaceID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return m, true, nil
}

func (r *membershipRepository) ListByWorkspace(ctx context.Context, workspaceID int64) ([]*models.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE workspace_id = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (r *membershipRepository) UpdateRole(ctx context.Context, workspaceID, userID int64, role string) error {
	query := `UPDATE memberships SET role = $1, updated_at = $2 WHERE workspace_id = $3 AND user_id = $4`

	_, err := r.db.ExecContext(ctx, query, role, time.Now(), workspaceID, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *membershipRepository) UpdateOverrides(ctx context.Context, workspaceID, userID int64, manageTeam, manageSettings, deletePosts, approvePosts *bool) error {
	query := `
		UPDATE memberships
		SET can_manage_team = $1,
			can_manage_settings = $2,
			can_delete_posts = $3,
			can_approve_posts = $4,
			updated_at = $5
		WHERE workspace_id = $6 AND user_id = $7
	`
	_, err := r.db.ExecContext(ctx, query, manageTeam, manageSettings, deletePosts, approvePosts, time.Now(), workspaceID, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *membershipRepository) Remove(ctx context.Context, workspaceID, userID int64) error {
	query := `DELETE FROM memberships WHERE workspace_id = $1 AND user_id = $2`

	_, err := r.db.ExecContext(ctx, query, workspaceID, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
