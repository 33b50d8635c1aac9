package queue

import (
	config "github.com/woozysocial/woozy-api/configs"
	"github.com/woozysocial/woozy-api/internal/repository"
	"github.com/woozysocial/woozy-api/internal/service"
)

type Queue struct {
	cfg config.Config
	u   repository.UserRepository
	p   repository.PostRepository
	w   repository.WorkspaceRepository
	ay  service.AyrshareService
}

func NewQueue(
	cfg config.Config,
	u repository.UserRepository,
	p repository.PostRepository,
	w repository.WorkspaceRepository,
	ay service.AyrshareService) *Queue {
	return &Queue{
		cfg: cfg,
		u:   u,
		p:   p,
		w:   w,
		ay:  ay,
	}
}

const (
	TaskTypeNotifyApproval   = "notify:approval"
	TaskTypeReconcileProfile = "billing:reconcile_profile"
)

type NotifyApprovalPayload struct {
	PostID      int64  `json:"post_id"`
	RecipientID int64  `json:"recipient_id"`
	Action      string `json:"action"`
	Comment     string `json:"comment,omitempty"`
}

type ReconcileProfilePayload struct {
	WorkspaceID  int64  `json:"workspace_id"`
	EncryptedKey string `json:"encrypted_key"`
	RefID        string `json:"ref_id"`
}
