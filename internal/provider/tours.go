package provider

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nribeiro/voyago/internal/upstream"
)

// ViatorTours is the real tour/activity provider.
type ViatorTours struct {
	baseURL string
	apiKey  string
	http    *upstream.Client
}

// NewViatorTours builds the tour client. Pass "" for the production default
// base URL.
func NewViatorTours(baseURL, apiKey string) *ViatorTours {
	if baseURL == "" {
		baseURL = "https://api.viator.com"
	}
	return &ViatorTours{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    upstream.NewClient("tours", 30*time.Second),
	}
}

// SearchTours proxies POST /partner/products/search with the caller's body.
func (v *ViatorTours) SearchTours(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	headers := map[string]string{"X-API-Key": v.apiKey}
	var raw json.RawMessage
	if err := v.http.PostJSON(ctx, v.baseURL+"/partner/products/search", headers, body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

var _ TourProvider = (*ViatorTours)(nil)
