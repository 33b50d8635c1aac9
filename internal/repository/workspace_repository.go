package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/woozysocial/woozy-api/internal/models"
)

type WorkspaceRepository interface {
	Create(ctx context.Context, tx *sql.Tx, workspace *models.Workspace) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Workspace, bool, error)
	// GetOwnedByUser returns the first workspace the user owns, if any.
	GetOwnedByUser(ctx context.Context, userID int64) (*models.Workspace, bool, error)
	ListByMember(ctx context.Context, userID int64) ([]*models.Workspace, error)
	ListWithProfiles(ctx context.Context) ([]*models.Workspace, error)
	SetProfile(ctx context.Context, workspaceID int64, profileKey, refID string) error
}

type workspaceRepository struct {
	db *sql.DB
}

func NewWorkspaceRepository(db *sql.DB) WorkspaceRepository {
	return &workspaceRepository{db: db}
}

const workspaceColumns = `id, name, profile_key, profile_ref_id, created_at, updated_at`

func scanWorkspace(row interface{ Scan(...any) error }) (*models.Workspace, error) {
	var w models.Workspace
	err := row.Scan(&w.ID, &w.Name, &w.ProfileKey, &w.ProfileRefID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *workspaceRepository) Create(ctx context.Context, tx *sql.Tx, workspace *models.Workspace) (int64, error) {
	query := `INSERT INTO workspaces (name) VALUES ($1) RETURNING id`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, workspace.Name).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, workspace.Name).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *workspaceRepository) GetByID(ctx context.Context, id int64) (*models.Workspace, bool, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE id = $1`

	w, err := scanWorkspace(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return w, true, nil
}

func (r *workspaceRepository) GetOwnedByUser(ctx context.Context, userID int64) (*models.Workspace, bool, error) {
	query := `
		SELECT w.id, w.name, w.profile_key, w.profile_ref_id, w.created_at, w.updated_at
		FROM workspaces w
		JOIN memberships m ON m.workspace_id = w.id
		WHERE m.user_id = $1 AND m.role = $2
		ORDER BY w.id ASC
		LIMIT 1
	`

	w, err := scanWorkspace(r.db.QueryRowContext(ctx, query, userID, models.RoleOwner))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return w, true, nil
}

func (r *workspaceRepository) ListByMember(ctx context.Context, userID int64) ([]*models.Workspace, error) {
	query := `
		SELECT w.id, w.name, w.profile_key, w.profile_ref_id, w.created_at, w.updated_at
		FROM workspaces w
		JOIN memberships m ON m.workspace_id = w.id
		WHERE m.user_id = $1
		ORDER BY w.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var workspaces []*models.Workspace
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		workspaces = append(workspaces, w)
	}
	return workspaces, rows.Err()
}

func (r *workspaceRepository) ListWithProfiles(ctx context.Context) ([]*models.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE profile_key IS NOT NULL`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var workspaces []*models.Workspace
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		workspaces = append(workspaces, w)
	}
	return workspaces, rows.Err()
}

func (r *workspaceRepository) SetProfile(ctx context.Context, workspaceID int64, profileKey, refID string) error {
	query := `
		UPDATE workspaces
		SET profile_key = $1,
			profile_ref_id = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, profileKey, refID, time.Now(), workspaceID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
