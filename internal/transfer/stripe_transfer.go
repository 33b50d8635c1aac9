package transfer

import "encoding/json"

type StripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type StripeCheckoutSession struct {
	ID           string `json:"id"`
	Customer     string `json:"customer"`
	Subscription string `json:"subscription"`
	Metadata     struct {
		UserID string `json:"user_id"`
		Tier   string `json:"tier"`
	} `json:"metadata"`
}

type StripeSubscriptionObject struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
}

type StripeSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
