package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/woozysocial/woozy-api/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Post, bool, error)
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]*models.Post, error)
	ListScheduled(ctx context.Context, workspaceID int64) ([]*models.Post, error)
	SetPublished(ctx context.Context, postID int64, externalID, status string) error
	SetFailed(ctx context.Context, postID int64, errMsg string) error
	UpdateApprovalStatus(ctx context.Context, tx *sql.Tx, postID int64, approvalStatus string) error
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, workspace_id, creator_id, caption, media_urls, platforms, scheduled_time, status, approval_status, last_error, external_id, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var post models.Post
	err := row.Scan(&post.ID, &post.WorkspaceID, &post.CreatorID, &post.Caption,
		pq.Array(&post.MediaURLs), pq.Array(&post.Platforms), &post.ScheduledTime,
		&post.Status, &post.ApprovalStatus, &post.LastError, &post.ExternalID,
		&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if post.ApprovalStatus.Valid {
		post.ApprovalStatus.String = models.NormalizeApprovalStatus(post.ApprovalStatus.String)
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (workspace_id, creator_id, caption, media_urls, platforms, scheduled_time, status, approval_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	var err error

	args := []any{post.WorkspaceID, post.CreatorID, post.Caption,
		pq.Array(post.MediaURLs), pq.Array(post.Platforms), post.ScheduledTime,
		post.Status, post.ApprovalStatus}

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

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, bool, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return post, true, nil
}

func (r *postRepository) ListByWorkspace(ctx context.Context, workspaceID int64) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE workspace_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) ListScheduled(ctx context.Context, workspaceID int64) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE workspace_id = $1 AND status = $2 AND external_id IS NOT NULL`

	rows, err := r.db.QueryContext(ctx, query, workspaceID, models.PostStatusScheduled)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) SetPublished(ctx context.Context, postID int64, externalID, status string) error {
	query := `
		UPDATE posts
		SET status = $1,
			external_id = $2,
			last_error = NULL,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, status, externalID, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) SetFailed(ctx context.Context, postID int64, errMsg string) error {
	query := `
		UPDATE posts
		SET status = $1,
			last_error = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusFailed, errMsg, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) UpdateApprovalStatus(ctx context.Context, tx *sql.Tx, postID int64, approvalStatus string) error {
	query := `UPDATE posts SET approval_status = $1, updated_at = $2 WHERE id = $3`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, approvalStatus, time.Now(), postID)
	} else {
		_, err = r.db.ExecContext(ctx, query, approvalStatus, time.Now(), postID)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
