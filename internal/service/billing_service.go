package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	config "github.com/woozysocial/woozy-api/configs"
	"github.com/woozysocial/woozy-api/internal/models"
	"github.com/woozysocial/woozy-api/internal/repository"
	"github.com/woozysocial/woozy-api/internal/transfer"
	"github.com/woozysocial/woozy-api/pkg/utils"
)

const signatureTolerance = 5 * time.Minute

// ProfileReconciler re-attaches an Ayrshare profile that was created
// remotely but not persisted locally. Implemented by the task queue.
type ProfileReconciler interface {
	ReconcileProfile(workspaceID int64, encryptedKey, refID string) error
}

// BillingService consumes Stripe webhook events and creates
// checkout/portal sessions. It is the only writer of subscription rows and
// workspace publishing credentials, apart from the allow-listed dev
// bootstrap which it also owns.
type BillingService interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	CreateCheckoutSession(ctx context.Context, userID int64, tier string) (string, error)
	CreatePortalSession(ctx context.Context, userID int64) (string, error)
	DevBootstrap(ctx context.Context, userID int64) error
}

type billingService struct {
	cfg    config.Config
	db     *sql.DB
	u      repository.UserRepository
	s      repository.SubscriptionRepository
	w      repository.WorkspaceRepository
	m      repository.MembershipRepository
	ay     AyrshareService
	rec    ProfileReconciler
	client *http.Client
}

func NewBillingService(
	cfg config.Config,
	db *sql.DB,
	u repository.UserRepository,
	s repository.SubscriptionRepository,
	w repository.WorkspaceRepository,
	m repository.MembershipRepository,
	ay AyrshareService,
	rec ProfileReconciler) BillingService {
	return &billingService{
		cfg:    cfg,
		db:     db,
		u:      u,
		s:      s,
		w:      w,
		m:      m,
		ay:     ay,
		rec:    rec,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// HandleWebhook processes one signed event. It must tolerate duplicate and
// out-of-order delivery: Stripe retries on any non-2xx response.
func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if err := utils.VerifyStripeSignature(payload, signature, s.cfg.Stripe.WebhookSecret, signatureTolerance); err != nil {
		slog.Info("webhook signature rejected", "error", err)
		return models.Validationf("invalid webhook signature")
	}

	var event transfer.StripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return models.Validationf("invalid webhook payload: %v", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(ctx, &event)

	case "customer.subscription.deleted":
		return s.handleSubscriptionDeleted(ctx, &event)

	default:
		// Unhandled event types are acknowledged, never failed: a non-2xx
		// would make Stripe retry them forever.
		return nil
	}
}

func (s *billingService) handleCheckoutCompleted(ctx context.Context, event *transfer.StripeEvent) error {
	var session transfer.StripeCheckoutSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return models.Validationf("invalid checkout session object: %v", err)
	}

	if session.Metadata.UserID == "" {
		// A session created without our metadata cannot be attributed.
		slog.Info("checkout session missing user metadata", "event_id", event.ID)
		return nil
	}
	userID, err := strconv.ParseInt(session.Metadata.UserID, 10, 64)
	if err != nil {
		slog.Info("checkout session has malformed user metadata", "event_id", event.ID, "user_id", session.Metadata.UserID)
		return nil
	}

	tier := session.Metadata.Tier
	if tier == "" {
		tier = "basic"
	}

	subscription := &models.Subscription{
		UserID:               userID,
		Tier:                 tier,
		Status:               models.SubscriptionActive,
		StripeCustomerID:     sql.NullString{String: session.Customer, Valid: session.Customer != ""},
		StripeSubscriptionID: sql.NullString{String: session.Subscription, Valid: session.Subscription != ""},
	}
	if err := s.s.Upsert(ctx, subscription); err != nil {
		return err
	}

	return s.ensureWorkspaceProfile(ctx, userID)
}

func (s *billingService) handleSubscriptionDeleted(ctx context.Context, event *transfer.StripeEvent) error {
	var object transfer.StripeSubscriptionObject
	if err := json.Unmarshal(event.Data.Object, &object); err != nil {
		return models.Validationf("invalid subscription object: %v", err)
	}

	subscription, isExist, err := s.s.GetByCustomerID(ctx, object.Customer)
	if err != nil {
		return err
	}
	if !isExist {
		// Already handled, or a customer this system never provisioned.
		slog.Info("subscription deletion for unknown customer", "customer_id", object.Customer)
		return nil
	}

	return s.s.UpdateStatus(ctx, subscription.UserID, models.SubscriptionCancelled)
}

// ensureWorkspaceProfile resolves which workspace receives the publishing
// credential. The owned-workspace-with-credential check doubles as the
// idempotency guard for redelivered events.
func (s *billingService) ensureWorkspaceProfile(ctx context.Context, userID int64) error {
	workspace, isOwned, err := s.w.GetOwnedByUser(ctx, userID)
	if err != nil {
		return err
	}

	if isOwned && workspace.ProfileKey.Valid && workspace.ProfileKey.String != "" {
		return nil
	}

	var workspaceID int64
	var workspaceName string
	if isOwned {
		workspaceID = workspace.ID
		workspaceName = workspace.Name
	} else {
		workspaceID, workspaceName, err = s.createOwnedWorkspace(ctx, userID)
		if err != nil {
			return err
		}
	}

	profile, err := s.ay.CreateProfile(ctx, workspaceName)
	if err != nil {
		return err
	}

	encryptedKey, err := utils.Encrypt([]byte(profile.ProfileKey), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	if err := s.w.SetProfile(ctx, workspaceID, encryptedKey, profile.RefID); err != nil {
		// The remote profile exists but is not attached locally. Hand it to
		// the reconciliation queue rather than orphaning it.
		slog.Error("persisting profile key failed, enqueueing reconciliation", "workspace_id", workspaceID, "error", err)
		if recErr := s.rec.ReconcileProfile(workspaceID, encryptedKey, profile.RefID); recErr != nil {
			slog.Error("enqueueing profile reconciliation", "workspace_id", workspaceID, "error", recErr)
		}
		return err
	}

	return nil
}

func (s *billingService) createOwnedWorkspace(ctx context.Context, userID int64) (int64, string, error) {
	user, isExist, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return 0, "", err
	}
	if !isExist {
		return 0, "", models.NotFoundf("user %d not found", userID)
	}

	name := fmt.Sprintf("%s's workspace", user.Name)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", err
	}
	defer tx.Rollback()

	workspaceID, err := s.w.Create(ctx, tx, &models.Workspace{Name: name})
	if err != nil {
		return 0, "", err
	}

	membership := &models.Membership{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        models.RoleOwner,
	}
	if _, err := s.m.Create(ctx, tx, membership); err != nil {
		return 0, "", err
	}

	if err := tx.Commit(); err != nil {
		return 0, "", err
	}

	return workspaceID, name, nil
}

func (s *billingService) CreateCheckoutSession(ctx context.Context, userID int64, tier string) (string, error) {
	priceID, err := s.priceFor(tier)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", s.cfg.FrontendURL+"/billing/success")
	form.Set("cancel_url", s.cfg.FrontendURL+"/billing/cancelled")
	form.Set("metadata[user_id]", strconv.FormatInt(userID, 10))
	form.Set("metadata[tier]", tier)

	subscription, isExist, err := s.s.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if isExist && subscription.StripeCustomerID.Valid {
		form.Set("customer", subscription.StripeCustomerID.String)
	}

	session, err := s.stripePost(ctx, "/v1/checkout/sessions", form)
	if err != nil {
		return "", err
	}

	return session.URL, nil
}

func (s *billingService) CreatePortalSession(ctx context.Context, userID int64) (string, error) {
	subscription, isExist, err := s.s.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !isExist || !subscription.StripeCustomerID.Valid {
		return "", models.Configurationf("no billing account: subscribe first")
	}

	form := url.Values{}
	form.Set("customer", subscription.StripeCustomerID.String)
	form.Set("return_url", s.cfg.FrontendURL+"/settings/billing")

	session, err := s.stripePost(ctx, "/v1/billing_portal/sessions", form)
	if err != nil {
		return "", err
	}

	return session.URL, nil
}

// DevBootstrap provisions a publishing credential without billing, for
// allow-listed development and trial accounts only.
func (s *billingService) DevBootstrap(ctx context.Context, userID int64) error {
	user, isExist, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !isExist {
		return models.NotFoundf("user %d not found", userID)
	}

	allowed := false
	for _, email := range s.cfg.DevBypassEmails {
		if strings.EqualFold(email, user.Email) {
			allowed = true
			break
		}
	}
	if !allowed {
		return models.Forbiddenf("account is not on the development allow-list")
	}

	subscription := &models.Subscription{
		UserID: userID,
		Tier:   "dev",
		Status: models.SubscriptionActive,
	}
	if err := s.s.Upsert(ctx, subscription); err != nil {
		return err
	}

	return s.ensureWorkspaceProfile(ctx, userID)
}

func (s *billingService) priceFor(tier string) (string, error) {
	switch tier {
	case "basic":
		return s.cfg.Stripe.PriceBasic, nil
	case "pro":
		return s.cfg.Stripe.PricePro, nil
	default:
		return "", models.Validationf("unknown subscription tier %q", tier)
	}
}

func (s *billingService) stripePost(ctx context.Context, endpoint string, form url.Values) (*transfer.StripeSessionResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Stripe.BaseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.cfg.Stripe.SecretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, models.Upstreamf("billing request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.Upstreamf("billing provider returned status %d", resp.StatusCode)
	}

	var session transfer.StripeSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, models.Upstreamf("decoding billing response: %v", err)
	}

	return &session, nil
}
