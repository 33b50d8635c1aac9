package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/woozysocial/woozy-api/internal/models"
)

type ApprovalRepository interface {
	Create(ctx context.Context, tx *sql.Tx, approval *models.Approval) (int64, error)
	GetByPostID(ctx context.Context, postID int64) (*models.Approval, bool, error)
	// Transition performs a compare-and-swap: the row moves to the new
	// status only if its current status is one of the expected values.
	// Returns false when another actor already moved it.
	Transition(ctx context.Context, tx *sql.Tx, postID int64, from []string, to string, reviewerID int64) (bool, error)
}

type approvalRepository struct {
	db *sql.DB
}

func NewApprovalRepository(db *sql.DB) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Create(ctx context.Context, tx *sql.Tx, approval *models.Approval) (int64, error) {
	query := `
		INSERT INTO approvals (post_id, status)
		VALUES ($1, $2)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, approval.PostID, approval.Status).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, approval.PostID, approval.Status).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *approvalRepository) GetByPostID(ctx context.Context, postID int64) (*models.Approval, bool, error) {
	query := `SELECT id, post_id, status, reviewer_id, reviewed_at, created_at, updated_at FROM approvals WHERE post_id = $1`

	var approval models.Approval
	err := r.db.QueryRowContext(ctx, query, postID).Scan(&approval.ID, &approval.PostID,
		&approval.Status, &approval.ReviewerID, &approval.ReviewedAt,
		&approval.CreatedAt, &approval.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	approval.Status = models.NormalizeApprovalStatus(approval.Status)
	return &approval, true, nil
}

func (r *approvalRepository) Transition(ctx context.Context, tx *sql.Tx, postID int64, from []string, to string, reviewerID int64) (bool, error) {
	query := `
		UPDATE approvals
		SET status = $1,
			reviewer_id = $2,
			reviewed_at = $3,
			updated_at = $3
		WHERE post_id = $4 AND status = ANY($5)
	`

	now := time.Now()

	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, to, reviewerID, now, postID, pq.Array(from))
	} else {
		res, err = r.db.ExecContext(ctx, query, to, reviewerID, now, postID, pq.Array(from))
	}
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	return affected == 1, nil
}
