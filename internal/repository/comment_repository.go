package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/woozysocial/woozy-api/internal/models"
)

// Comments are append-only. There is deliberately no update or delete here.
type CommentRepository interface {
	Create(ctx context.Context, tx *sql.Tx, comment *models.PostComment) (int64, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PostComment, error)
}

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, tx *sql.Tx, comment *models.PostComment) (int64, error) {
	query := `
		INSERT INTO post_comments (post_id, workspace_id, user_id, body, is_system)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	var err error

	args := []any{comment.PostID, comment.WorkspaceID, comment.UserID, comment.Body, comment.IsSystem}

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

func (r *commentRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostComment, error) {
	query := `SELECT id, post_id, workspace_id, user_id, body, is_system, created_at FROM post_comments WHERE post_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var comments []*models.PostComment
	for rows.Next() {
		var comment models.PostComment
		err := rows.Scan(&comment.ID, &comment.PostID, &comment.WorkspaceID,
			&comment.UserID, &comment.Body, &comment.IsSystem, &comment.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}
