package provider

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/nribeiro/voyago/internal/upstream"
)

// OpenTripMap is the real attractions provider. The API key travels as a
// query parameter, not a header.
type OpenTripMap struct {
	baseURL string
	apiKey  string
	http    *upstream.Client
}

// NewOpenTripMap builds the attractions client. Pass "" for the production
// default base URL.
func NewOpenTripMap(baseURL, apiKey string) *OpenTripMap {
	if baseURL == "" {
		baseURL = "https://api.opentripmap.com"
	}
	return &OpenTripMap{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    upstream.NewClient("attractions", 30*time.Second),
	}
}

// Geoname resolves a place name to coordinates.
func (o *OpenTripMap) Geoname(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return o.get(ctx, "/0.1/en/places/geoname", query)
}

// Radius lists places around a coordinate.
func (o *OpenTripMap) Radius(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return o.get(ctx, "/0.1/en/places/radius", query)
}

// PlaceDetails fetches one place by its xid.
func (o *OpenTripMap) PlaceDetails(ctx context.Context, xid string) (json.RawMessage, error) {
	return o.get(ctx, "/0.1/en/places/xid/"+url.PathEscape(xid), url.Values{})
}

func (o *OpenTripMap) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	query = cloneValues(query)
	query.Set("apikey", o.apiKey)
	var raw json.RawMessage
	if err := o.http.GetJSON(ctx, o.baseURL+path+"?"+query.Encode(), nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

var _ AttractionProvider = (*OpenTripMap)(nil)
