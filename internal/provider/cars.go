package provider

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/nribeiro/voyago/internal/upstream"
)

// PricelineCars is the real car rental provider, backed by the Priceline
// RapidAPI gateway.
type PricelineCars struct {
	baseURL string
	host    string
	apiKey  string
	http    *upstream.Client
}

// NewPricelineCars builds the car rental client. Pass "" for the production
// default base URL.
func NewPricelineCars(baseURL, apiKey string) *PricelineCars {
	if baseURL == "" {
		baseURL = "https://priceline-com-provider.p.rapidapi.com"
	}
	u, _ := url.Parse(baseURL)
	return &PricelineCars{
		baseURL: baseURL,
		host:    u.Host,
		apiKey:  apiKey,
		http:    upstream.NewClient("cars", 30*time.Second),
	}
}

func (p *PricelineCars) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u := p.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	headers := map[string]string{
		"X-RapidAPI-Key":  p.apiKey,
		"X-RapidAPI-Host": p.host,
	}
	var raw json.RawMessage
	if err := p.http.GetJSON(ctx, u, headers, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// AutoComplete proxies the pickup/drop-off location search.
func (p *PricelineCars) AutoComplete(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return p.get(ctx, "/v2/cars/autoComplete", query)
}

// SearchCars proxies the rental offer search.
func (p *PricelineCars) SearchCars(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return p.get(ctx, "/v2/cars/resultsRequest", query)
}

var _ CarProvider = (*PricelineCars)(nil)
