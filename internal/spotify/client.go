// Package spotify searches the Spotify catalog for a track matching a mood.
// All failures are returned as error values; nothing here panics or retries.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/justestif/mood-music/internal/mood"
)

const (
	// DefaultAPIBaseURL is the Spotify Web API root.
	DefaultAPIBaseURL = "https://api.spotify.com/v1/"
	// DefaultMarket restricts results to tracks available in the US.
	DefaultMarket = "US"
	// DefaultLimit is the page size requested from search.
	DefaultLimit = 50
	// DefaultTimeout bounds each outbound call.
	DefaultTimeout = 10 * time.Second
)

// Sentinel errors.
var (
	// ErrNotConfigured is returned when client credentials are not set.
	ErrNotConfigured = errors.New("spotify credentials not configured")

	// ErrTokenUnavailable is returned when no access token could be obtained.
	ErrTokenUnavailable = errors.New("spotify token unavailable")

	// ErrSearchFailed is returned when the search call or its decoding fails.
	ErrSearchFailed = errors.New("spotify search failed")

	// ErrNoTracks is returned when a search yields no tracks.
	ErrNoTracks = errors.New("no tracks found")
)

// Config holds Spotify API configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	APIBaseURL   string
	Market       string
	Limit        int
	Timeout      time.Duration
}

// Client talks to the Spotify accounts and search endpoints.
type Client struct {
	cfg        Config
	httpClient *http.Client
	intn       func(n int) int
	log        logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the base HTTP client used for both calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRand sets the random source used to pick a track.
func WithRand(r *rand.Rand) Option {
	return func(c *Client) {
		c.intn = r.IntN
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a Client. Zero-valued config fields take their defaults.
func New(cfg Config, opts ...Option) *Client {
	if cfg.TokenURL == "" {
		cfg.TokenURL = spotifyauth.TokenURL
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if !strings.HasSuffix(cfg.APIBaseURL, "/") {
		cfg.APIBaseURL += "/"
	}
	if cfg.Market == "" {
		cfg.Market = DefaultMarket
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		intn:       rand.IntN,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether both client credentials are set.
func (c *Client) Configured() bool {
	return c.cfg.ClientID != "" && c.cfg.ClientSecret != ""
}

// ClientIDSet reports whether a client ID was provided.
func (c *Client) ClientIDSet() bool {
	return c.cfg.ClientID != ""
}

// Token exchanges the client credentials for an access token.
func (c *Client) Token(ctx context.Context) (*oauth2.Token, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	cc := &clientcredentials.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		TokenURL:     c.cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	token, err := cc.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenUnavailable, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrTokenUnavailable)
	}

	return token, nil
}

// SearchTrack searches for a track matching m and picks one at random,
// preferring tracks that carry a preview URL.
func (c *Client) SearchTrack(ctx context.Context, token *oauth2.Token, m mood.Mood) (Track, error) {
	if token == nil {
		return Track{}, ErrTokenUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	api := spotify.New(
		oauth2.NewClient(ctx, oauth2.StaticTokenSource(token)),
		spotify.WithBaseURL(c.cfg.APIBaseURL),
	)

	term := mood.SearchTerm(m)
	c.log.WithFields(logrus.Fields{"mood": m, "term": term}).Debug("searching spotify")

	result, err := api.Search(ctx, term, spotify.SearchTypeTrack,
		spotify.Limit(c.cfg.Limit),
		spotify.Market(c.cfg.Market),
	)
	if err != nil {
		return Track{}, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	if result.Tracks == nil || len(result.Tracks.Tracks) == 0 {
		return Track{}, ErrNoTracks
	}

	pool := preferPreview(result.Tracks.Tracks)
	c.log.WithFields(logrus.Fields{
		"mood":         m,
		"found":        len(result.Tracks.Tracks),
		"with_preview": hasAnyPreview(pool),
		"candidates":   len(pool),
	}).Debug("spotify search results")

	return convertTrack(pool[c.intn(len(pool))]), nil
}

// Find obtains a token and searches for a track matching m.
func (c *Client) Find(ctx context.Context, m mood.Mood) (Track, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return Track{}, err
	}
	return c.SearchTrack(ctx, token, m)
}
