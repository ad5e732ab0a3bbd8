package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nribeiro/voyago/internal/domain"
	"github.com/nribeiro/voyago/internal/repo"
	"github.com/nribeiro/voyago/internal/upstream"
)

// Default Google OAuth endpoints; overridable in tests.
const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Claims is the JWT payload issued after a successful Google sign-in.
// Subject carries the user's UUID.
type Claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

// AuthConfig carries the OAuth client credentials and token signing setup.
type AuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	// RedirectURL is this server's callback endpoint, registered with Google.
	RedirectURL string
	JWTSecret   []byte
	TokenTTL    time.Duration
}

// AuthService implements the Google sign-in flow: consent redirect, code
// exchange, account upsert, and stateless JWT issuance.
type AuthService struct {
	cfg   AuthConfig
	users repo.UserRepo
	http  *upstream.Client

	tokenURL    string
	userinfoURL string

	now func() time.Time
}

// NewAuthService constructs an AuthService backed by the provided UserRepo.
func NewAuthService(cfg AuthConfig, users repo.UserRepo) *AuthService {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		cfg:         cfg,
		users:       users,
		http:        upstream.NewClient("google", 15*time.Second),
		tokenURL:    googleTokenURL,
		userinfoURL: googleUserinfoURL,
		now:         time.Now,
	}
}

// LoginURL builds the Google consent page URL the client is redirected to.
func (s *AuthService) LoginURL(state string) string {
	q := url.Values{}
	q.Set("client_id", s.cfg.GoogleClientID)
	q.Set("redirect_uri", s.cfg.RedirectURL)
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	q.Set("state", state)
	return googleAuthURL + "?" + q.Encode()
}

// HandleCallback exchanges the authorization code, upserts the account, and
// returns the user plus a signed session token.
func (s *AuthService) HandleCallback(ctx context.Context, code string) (domain.User, string, error) {
	if code == "" {
		return domain.User{}, "", fmt.Errorf("service.AuthService.HandleCallback: %w: missing authorization code", domain.ErrValidation)
	}

	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", s.cfg.GoogleClientID)
	form.Set("client_secret", s.cfg.GoogleClientSecret)
	form.Set("redirect_uri", s.cfg.RedirectURL)
	form.Set("grant_type", "authorization_code")

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := s.http.PostForm(ctx, s.tokenURL, form.Encode(), &token); err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.HandleCallback: exchange code: %w", err)
	}

	var profile struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	headers := map[string]string{"Authorization": "Bearer " + token.AccessToken}
	if err := s.http.GetJSON(ctx, s.userinfoURL, headers, &profile); err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.HandleCallback: fetch profile: %w", err)
	}
	if profile.ID == "" {
		return domain.User{}, "", fmt.Errorf("service.AuthService.HandleCallback: google returned an empty profile id")
	}

	user, err := s.users.UpsertByGoogleID(ctx, domain.User{
		GoogleID: profile.ID,
		Email:    profile.Email,
		Name:     profile.Name,
		Picture:  profile.Picture,
	})
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.HandleCallback: %w", err)
	}

	signed, err := s.issueToken(user)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.HandleCallback: %w", err)
	}
	return user, signed, nil
}

// issueToken signs an HS256 JWT for the user.
func (s *AuthService) issueToken(user domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "voyago",
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Picture,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns the user id it names.
func (s *AuthService) ParseToken(tokenString string) (uuid.UUID, *Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.cfg.JWTSecret, nil
	})
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("service.AuthService.ParseToken: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("service.AuthService.ParseToken: subject is not a user id: %w", err)
	}
	return userID, claims, nil
}
