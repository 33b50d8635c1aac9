package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	config "github.com/woozysocial/woozy-api/configs"
	"github.com/woozysocial/woozy-api/internal/models"
	"github.com/woozysocial/woozy-api/internal/transfer"
)

// AyrshareService is the publish adapter. Every call is scoped to one
// workspace by its profile key; keys are never shared across calls.
type AyrshareService interface {
	SubmitPost(ctx context.Context, post *models.Post, profileKey string) (externalID, finalStatus string, err error)
	DeletePost(ctx context.Context, externalID, profileKey string) error
	History(ctx context.Context, profileKey string) ([]transfer.AyrshareHistoryItem, error)
	CreateProfile(ctx context.Context, title string) (*transfer.AyrshareProfile, error)
	DeleteProfile(ctx context.Context, profileKey string) error
}

type ayrshareService struct {
	cfg    config.Config
	client *http.Client
}

func NewAyrshareService(cfg config.Config) AyrshareService {
	return &ayrshareService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Ayrshare.Timeout},
	}
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".m4v":  true,
	".avi":  true,
	".webm": true,
}

func isVideoURL(mediaURL string) bool {
	ext := strings.ToLower(path.Ext(strings.SplitN(mediaURL, "?", 2)[0]))
	return videoExtensions[ext]
}

// videoTitle derives the platform-required video title from the caption.
func videoTitle(caption string) string {
	runes := []rune(caption)
	if len(runes) > 100 {
		return string(runes[:100])
	}
	return caption
}

func (s *ayrshareService) SubmitPost(ctx context.Context, post *models.Post, profileKey string) (string, string, error) {
	payload := transfer.AyrsharePostRequest{
		Post:      post.Caption,
		Platforms: post.Platforms,
		MediaURLs: post.MediaURLs,
	}

	// The schedule is recomputed at submission time: a window that elapsed
	// while the post sat in review goes out as an immediate post.
	finalStatus := models.PostStatusPosted
	if post.ScheduledTime.Valid && post.ScheduledTime.Time.After(time.Now()) {
		payload.ScheduleDate = post.ScheduledTime.Time.UTC().Format("2006-01-02T15:04:05Z")
		finalStatus = models.PostStatusScheduled
	}

	for _, u := range post.MediaURLs {
		if isVideoURL(u) {
			payload.IsVideo = true
			payload.Title = videoTitle(post.Caption)
			break
		}
	}

	var response transfer.AyrsharePostResponse
	statusCode, err := s.do(ctx, http.MethodPost, "/post", profileKey, payload, &response)
	if err != nil {
		return "", "", err
	}

	// A 200 can still carry an application-level failure in the body.
	if statusCode != http.StatusOK || response.Status != "success" {
		return "", "", models.Upstreamf("%s", joinPostErrors(&response))
	}

	externalID := response.ID
	if externalID == "" {
		for _, entry := range response.Posts {
			if entry.ID != "" {
				externalID = entry.ID
				break
			}
		}
	}
	if externalID == "" {
		return "", "", models.Upstreamf("provider returned no post id")
	}

	return externalID, finalStatus, nil
}

func (s *ayrshareService) DeletePost(ctx context.Context, externalID, profileKey string) error {
	payload := transfer.AyrshareDeleteRequest{ID: externalID}

	var response transfer.AyrsharePostResponse
	statusCode, err := s.do(ctx, http.MethodDelete, "/post", profileKey, payload, &response)
	if err != nil {
		return err
	}

	// Already gone remotely counts as deleted.
	if statusCode == http.StatusNotFound {
		return nil
	}
	// A 200 can still carry an application-level failure in the body.
	if statusCode != http.StatusOK || response.Status != "success" {
		return models.Upstreamf("delete failed: %s", joinPostErrors(&response))
	}

	return nil
}

func (s *ayrshareService) History(ctx context.Context, profileKey string) ([]transfer.AyrshareHistoryItem, error) {
	var response transfer.AyrshareHistoryResponse
	statusCode, err := s.do(ctx, http.MethodGet, "/history", profileKey, nil, &response)
	if err != nil {
		return nil, err
	}

	if statusCode != http.StatusOK {
		return nil, models.Upstreamf("history request returned status %d", statusCode)
	}

	return response.History, nil
}

func (s *ayrshareService) CreateProfile(ctx context.Context, title string) (*transfer.AyrshareProfile, error) {
	payload := transfer.AyrshareProfileRequest{Title: title}

	var profile transfer.AyrshareProfile
	statusCode, err := s.do(ctx, http.MethodPost, "/profiles/profile", "", payload, &profile)
	if err != nil {
		return nil, err
	}

	if statusCode != http.StatusOK || profile.ProfileKey == "" {
		return nil, models.Upstreamf("profile creation returned status %d", statusCode)
	}

	return &profile, nil
}

func (s *ayrshareService) DeleteProfile(ctx context.Context, profileKey string) error {
	statusCode, err := s.do(ctx, http.MethodDelete, "/profiles/profile", profileKey, nil, nil)
	if err != nil {
		return err
	}

	if statusCode != http.StatusOK && statusCode != http.StatusNotFound {
		return models.Upstreamf("profile deletion returned status %d", statusCode)
	}

	return nil
}

func (s *ayrshareService) do(ctx context.Context, method, endpoint, profileKey string, payload, out any) (int, error) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.cfg.Ayrshare.BaseURL+endpoint, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.Ayrshare.APIKey)
	if profileKey != "" {
		req.Header.Set("Profile-Key", profileKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		// Timeouts and transport failures read the same as provider errors:
		// the remote side effect may or may not have happened.
		return 0, models.Upstreamf("provider request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			// Error responses are not guaranteed to be JSON; the status
			// code alone is enough for those.
			if resp.StatusCode == http.StatusOK {
				return resp.StatusCode, models.Upstreamf("decoding provider response: %v", err)
			}
		}
	}

	return resp.StatusCode, nil
}

// joinPostErrors flattens the provider's structured per-post error list into
// one human-readable string, surfaced to the caller unchanged.
func joinPostErrors(response *transfer.AyrsharePostResponse) string {
	var messages []string
	for _, entry := range response.Posts {
		if entry.Message != "" {
			messages = append(messages, entry.Message)
		}
		for _, e := range entry.Errors {
			if e.Message != "" {
				messages = append(messages, e.Message)
			}
		}
	}
	for _, e := range response.Errors {
		if e.Message != "" {
			messages = append(messages, e.Message)
		}
	}
	if len(messages) == 0 {
		return fmt.Sprintf("provider returned status %q", response.Status)
	}
	return strings.Join(messages, "; ")
}
