package job

import (
	"context"
	"log/slog"
	"sync"

	config "github.com/woozysocial/woozy-api/configs"
	"github.com/woozysocial/woozy-api/internal/models"
	"github.com/woozysocial/woozy-api/internal/repository"
	"github.com/woozysocial/woozy-api/internal/service"
	"github.com/woozysocial/woozy-api/pkg/utils"
)

// StatusSyncJob walks every workspace with a publishing profile and pulls
// the provider's history so scheduled posts flip to posted or failed once
// their time passes. The provider does not call back; polling is the only
// way to learn the outcome.
type StatusSyncJob struct {
	cfg config.Config
	w   repository.WorkspaceRepository
	p   repository.PostRepository
	ay  service.AyrshareService
}

func NewStatusSyncJob(
	cfg config.Config,
	w repository.WorkspaceRepository,
	p repository.PostRepository,
	ay service.AyrshareService) *StatusSyncJob {
	return &StatusSyncJob{
		cfg: cfg,
		w:   w,
		p:   p,
		ay:  ay,
	}
}

func (j *StatusSyncJob) SyncStatuses() {
	ctx := context.Background()

	workspaces, err := j.w.ListWithProfiles(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, workspace := range workspaces {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(workspace *models.Workspace) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := j.syncWorkspace(ctx, workspace); err != nil {
				slog.Info("status sync failed", "workspace_id", workspace.ID, "error", err.Error())
			}
		}(workspace)
	}

	wg.Wait()
}

func (j *StatusSyncJob) syncWorkspace(ctx context.Context, workspace *models.Workspace) error {
	posts, err := j.p.ListScheduled(ctx, workspace.ID)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return nil
	}

	profileKey, err := utils.Decrypt(workspace.ProfileKey.String, []byte(j.cfg.SecretKey))
	if err != nil {
		return err
	}

	history, err := j.ay.History(ctx, profileKey)
	if err != nil {
		return err
	}

	statusByID := make(map[string]string, len(history))
	for _, item := range history {
		statusByID[item.ID] = item.Status
	}

	for _, post := range posts {
		if !post.ExternalID.Valid {
			continue
		}

		switch statusByID[post.ExternalID.String] {
		case "success", "posted":
			if err := j.p.SetPublished(ctx, post.ID, post.ExternalID.String, models.PostStatusPosted); err != nil {
				return err
			}
		case "error":
			if err := j.p.SetFailed(ctx, post.ID, "provider reported a publish error"); err != nil {
				return err
			}
		}
	}

	return nil
}
