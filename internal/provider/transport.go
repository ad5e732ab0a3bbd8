package provider

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/nribeiro/voyago/internal/upstream"
)

// APITransport is the real ground/sea transport provider.
type APITransport struct {
	baseURL string
	apiKey  string
	http    *upstream.Client
}

// NewAPITransport builds the transport client. Pass "" for the production
// default base URL.
func NewAPITransport(baseURL, apiKey string) *APITransport {
	if baseURL == "" {
		baseURL = "https://api.distribusion.com"
	}
	return &APITransport{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    upstream.NewClient("transport", 30*time.Second),
	}
}

// SearchTransport proxies a transport leg search, defaulting the currency
// when the caller leaves it out.
func (t *APITransport) SearchTransport(ctx context.Context, query url.Values) (json.RawMessage, error) {
	if query.Get("currency") == "" {
		query = cloneValues(query)
		query.Set("currency", "EUR")
	}
	headers := map[string]string{"X-API-Key": t.apiKey}
	var raw json.RawMessage
	if err := t.http.GetJSON(ctx, t.baseURL+"/retailers/v4/connections/find?"+query.Encode(), headers, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// cloneValues copies query values before mutating defaults in.
func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

var _ TransportProvider = (*APITransport)(nil)
