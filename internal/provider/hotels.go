package provider

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/nribeiro/voyago/internal/upstream"
)

// BookingHotels is the real hotel provider, backed by the Booking.com
// RapidAPI gateway. Authentication is a static key pair in request headers.
type BookingHotels struct {
	baseURL string
	host    string
	apiKey  string
	http    *upstream.Client
}

// NewBookingHotels builds the hotel client. Pass "" for the production
// default base URL.
func NewBookingHotels(baseURL, apiKey string) *BookingHotels {
	if baseURL == "" {
		baseURL = "https://booking-com15.p.rapidapi.com"
	}
	u, _ := url.Parse(baseURL)
	return &BookingHotels{
		baseURL: baseURL,
		host:    u.Host,
		apiKey:  apiKey,
		http:    upstream.NewClient("hotel", 30*time.Second),
	}
}

func (b *BookingHotels) headers() map[string]string {
	return map[string]string{
		"X-RapidAPI-Key":  b.apiKey,
		"X-RapidAPI-Host": b.host,
	}
}

func (b *BookingHotels) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u := b.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	var raw json.RawMessage
	if err := b.http.GetJSON(ctx, u, b.headers(), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// SearchDestination proxies the lodging destination keyword search.
func (b *BookingHotels) SearchDestination(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return b.get(ctx, "/api/v1/hotels/searchDestination", query)
}

// SearchHotels proxies the hotel offer search.
func (b *BookingHotels) SearchHotels(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return b.get(ctx, "/api/v1/hotels/searchHotels", query)
}

var _ HotelProvider = (*BookingHotels)(nil)
