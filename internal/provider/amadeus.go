package provider

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nribeiro/voyago/internal/upstream"
)

// amadeusTokenMargin is subtracted from the advertised token lifetime so a
// token is never presented moments before it expires server-side.
const amadeusTokenMargin = 120 * time.Second

// Amadeus is the real flight provider. It authenticates with an OAuth2
// client-credentials grant and caches the bearer token in memory alongside
// its expiry; a new token is requested only when the cache is empty or the
// margin-adjusted expiry has passed. Concurrent refreshes coalesce into a
// single token call. Deliberately minimal: no refresh-ahead, no retry on
// issuance failure.
type Amadeus struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *upstream.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
	tokenGroup  singleflight.Group

	now func() time.Time
}

// NewAmadeus builds the Amadeus client. baseURL selects the production or
// test environment; pass "" for the production default.
func NewAmadeus(baseURL, clientID, clientSecret string) *Amadeus {
	if baseURL == "" {
		baseURL = "https://api.amadeus.com"
	}
	return &Amadeus{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         upstream.NewClient("amadeus", 30*time.Second),
		now:          time.Now,
	}
}

// accessToken returns the cached bearer token, fetching a fresh one when the
// cache is empty or expired. Concurrent callers that hit an expired cache
// share one in-flight token request via singleflight.
func (a *Amadeus) accessToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	if a.token != "" && a.now().Before(a.tokenExpiry) {
		token := a.token
		a.mu.Unlock()
		return token, nil
	}
	a.mu.Unlock()

	token, err, _ := a.tokenGroup.Do("token", func() (any, error) {
		return a.fetchToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

// fetchToken requests a fresh token and updates the cache.
func (a *Amadeus) fetchToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", a.clientID)
	form.Set("client_secret", a.clientSecret)

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := a.http.PostForm(ctx, a.baseURL+"/v1/security/oauth2/token", form.Encode(), &out); err != nil {
		return "", err
	}

	a.mu.Lock()
	a.token = out.AccessToken
	a.tokenExpiry = a.now().Add(time.Duration(out.ExpiresIn)*time.Second - amadeusTokenMargin)
	a.mu.Unlock()

	return out.AccessToken, nil
}

// authedGet performs a bearer-authenticated GET against an Amadeus path.
func (a *Amadeus) authedGet(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	token, err := a.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	u := a.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}

	var raw json.RawMessage
	if err := a.http.GetJSON(ctx, u, map[string]string{"Authorization": "Bearer " + token}, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// SearchOffers proxies GET /v2/shopping/flight-offers.
func (a *Amadeus) SearchOffers(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return a.authedGet(ctx, "/v2/shopping/flight-offers", query)
}

// SearchAirports proxies GET /v1/reference-data/locations.
func (a *Amadeus) SearchAirports(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return a.authedGet(ctx, "/v1/reference-data/locations", query)
}

var _ FlightProvider = (*Amadeus)(nil)
