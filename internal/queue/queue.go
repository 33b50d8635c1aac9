package queue

import (
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Enqueuer pushes queue tasks from the services without exposing asynq to
// them.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

func (e *Enqueuer) enqueue(taskType string, payload any, opts ...asynq.Option) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(taskType, taskPayload)

	info, err := e.client.Enqueue(task, opts...)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	slog.Info("task enqueued", "type", taskType, "id", info.ID)
	return nil
}

func (e *Enqueuer) NotifyApproval(postID, recipientID int64, action, comment string) error {
	return e.enqueue(TaskTypeNotifyApproval, NotifyApprovalPayload{
		PostID:      postID,
		RecipientID: recipientID,
		Action:      action,
		Comment:     comment,
	})
}

func (e *Enqueuer) ReconcileProfile(workspaceID int64, encryptedKey, refID string) error {
	return e.enqueue(TaskTypeReconcileProfile, ReconcileProfilePayload{
		WorkspaceID:  workspaceID,
		EncryptedKey: encryptedKey,
		RefID:        refID,
	}, asynq.MaxRetry(10))
}
