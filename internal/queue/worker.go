package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/woozysocial/woozy-api/pkg/utils"
)

func (q *Queue) HandleNotifyApprovalTask(ctx context.Context, task *asynq.Task) error {
	var payload NotifyApprovalPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	recipient, isExist, err := q.u.GetByID(ctx, payload.RecipientID)
	if err != nil {
		return err
	}
	if !isExist {
		// Recipient deleted since the decision; nothing to deliver.
		slog.Info("notification recipient no longer exists", "user_id", payload.RecipientID)
		return nil
	}

	post, isExist, err := q.p.GetByID(ctx, payload.PostID)
	if err != nil {
		return err
	}
	if !isExist {
		slog.Info("notification post no longer exists", "post_id", payload.PostID)
		return nil
	}

	// TODO: wire an email sender; log-only delivery until one is picked.
	slog.Info("approval notification",
		"to", recipient.Email,
		"post_id", post.ID,
		"action", payload.Action,
		"comment", payload.Comment)

	return nil
}

// HandleReconcileProfileTask re-attaches a profile that was created at
// Ayrshare but whose key never reached the workspace row. If another
// profile won the race in the meantime, the newly created one is deleted
// remotely instead.
func (q *Queue) HandleReconcileProfileTask(ctx context.Context, task *asynq.Task) error {
	var payload ReconcileProfilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	workspace, isExist, err := q.w.GetByID(ctx, payload.WorkspaceID)
	if err != nil {
		return err
	}
	if !isExist {
		return fmt.Errorf("workspace %d not found", payload.WorkspaceID)
	}

	if workspace.ProfileKey.Valid && workspace.ProfileKey.String != "" {
		if workspace.ProfileKey.String == payload.EncryptedKey {
			return nil
		}

		profileKey, err := utils.Decrypt(payload.EncryptedKey, []byte(q.cfg.SecretKey))
		if err != nil {
			return err
		}
		if err := q.ay.DeleteProfile(ctx, profileKey); err != nil {
			return err
		}

		slog.Info("deleted orphaned publishing profile",
			"workspace_id", payload.WorkspaceID, "ref_id", payload.RefID)
		return nil
	}

	if err := q.w.SetProfile(ctx, payload.WorkspaceID, payload.EncryptedKey, payload.RefID); err != nil {
		return err
	}

	slog.Info("publishing profile reconciled",
		"workspace_id", payload.WorkspaceID, "ref_id", payload.RefID)
	return nil
}
