package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/woozysocial/woozy-api/internal/service"
	"github.com/woozysocial/woozy-api/internal/transfer"
)

type BillingHandler struct {
	s service.BillingService
}

func NewBillingHandler(service service.BillingService) *BillingHandler {
	return &BillingHandler{s: service}
}

// HandleWebhook is unauthenticated; the signature header is the only proof
// of origin. The raw body must reach the verifier untouched.
func (h *BillingHandler) HandleWebhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")

	if err := h.s.HandleWebhook(c.Context(), c.Body(), signature); err != nil {
		return ErrorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *BillingHandler) CreateCheckout(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	url, err := h.s.CreateCheckoutSession(c.Context(), userID, req.Tier)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"url": url})
}

func (h *BillingHandler) CreatePortal(c *fiber.Ctx) error {
	userID := GetUserID(c)

	url, err := h.s.CreatePortalSession(c.Context(), userID)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"url": url})
}

func (h *BillingHandler) DevBootstrap(c *fiber.Ctx) error {
	userID := GetUserID(c)

	if err := h.s.DevBootstrap(c.Context(), userID); err != nil {
		return ErrorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
