package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/justestif/mood-music/internal/mood"
)

type apiTrack struct {
	Name         string            `json:"name"`
	Artists      []map[string]any  `json:"artists"`
	PreviewURL   *string           `json:"preview_url"`
	ExternalURLs map[string]string `json:"external_urls"`
	Album        map[string]any    `json:"album"`
}

func track(name, preview string, artists ...string) apiTrack {
	t := apiTrack{
		Name:         name,
		ExternalURLs: map[string]string{"spotify": "https://open.spotify.com/track/" + name},
		Album:        map[string]any{"images": []map[string]any{}},
	}
	for _, a := range artists {
		t.Artists = append(t.Artists, map[string]any{"name": a})
	}
	if preview != "" {
		t.PreviewURL = &preview
	}
	return t
}

// fakeSpotify serves the token and search endpoints.
type fakeSpotify struct {
	tokenStatus  int
	searchStatus int
	tracks       []apiTrack

	tokenCalls  atomic.Int32
	searchCalls atomic.Int32
	lastQuery   atomic.Value
}

func (f *fakeSpotify) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing token form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q, want client_credentials", got)
		}
		if got := r.PostForm.Get("client_id"); got != "id" {
			t.Errorf("client_id = %q, want id", got)
		}
		if f.tokenStatus != 0 && f.tokenStatus != http.StatusOK {
			w.WriteHeader(f.tokenStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		f.searchCalls.Add(1)
		f.lastQuery.Store(r.URL.Query())
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want Bearer test-token", got)
		}
		if f.searchStatus != 0 && f.searchStatus != http.StatusOK {
			w.WriteHeader(f.searchStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"tracks": map[string]any{"items": f.tracks},
		})
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeSpotify, cfg Config) *Client {
	t.Helper()
	server := httptest.NewServer(f.handler(t))
	t.Cleanup(server.Close)

	cfg.TokenURL = server.URL + "/api/token"
	cfg.APIBaseURL = server.URL + "/v1"

	log := logrus.New()
	log.SetOutput(io.Discard)

	return New(cfg,
		WithHTTPClient(server.Client()),
		WithRand(rand.New(rand.NewPCG(7, 11))),
		WithLogger(log),
	)
}

func TestConfigured(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		want   bool
		wantID bool
	}{
		{"both set", Config{ClientID: "id", ClientSecret: "secret"}, true, true},
		{"id only", Config{ClientID: "id"}, false, true},
		{"secret only", Config{ClientSecret: "secret"}, false, false},
		{"neither", Config{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.cfg)
			if got := c.Configured(); got != tt.want {
				t.Errorf("Configured() = %v, want %v", got, tt.want)
			}
			if got := c.ClientIDSet(); got != tt.wantID {
				t.Errorf("ClientIDSet() = %v, want %v", got, tt.wantID)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	c := New(Config{})
	if c.cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("APIBaseURL = %q, want %q", c.cfg.APIBaseURL, DefaultAPIBaseURL)
	}
	if c.cfg.TokenURL != "https://accounts.spotify.com/api/token" {
		t.Errorf("TokenURL = %q", c.cfg.TokenURL)
	}
	if c.cfg.Limit != 50 || c.cfg.Market != "US" || c.cfg.Timeout != 10*time.Second {
		t.Errorf("unexpected defaults: %+v", c.cfg)
	}
}

func TestTokenNotConfigured(t *testing.T) {
	f := &fakeSpotify{}
	c := newTestClient(t, f, Config{ClientID: "id"})

	_, err := c.Token(context.Background())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Token() error = %v, want ErrNotConfigured", err)
	}
	if n := f.tokenCalls.Load(); n != 0 {
		t.Errorf("token endpoint called %d times, want 0", n)
	}
}

func TestTokenFailure(t *testing.T) {
	f := &fakeSpotify{tokenStatus: http.StatusUnauthorized}
	c := newTestClient(t, f, Config{ClientID: "id", ClientSecret: "secret"})

	_, err := c.Token(context.Background())
	if !errors.Is(err, ErrTokenUnavailable) {
		t.Fatalf("Token() error = %v, want ErrTokenUnavailable", err)
	}
}

func TestFind(t *testing.T) {
	f := &fakeSpotify{tracks: []apiTrack{
		track("Sunrise", "https://p.scdn.co/sunrise", "Artist A", "Artist B"),
	}}
	f.tracks[0].Album = map[string]any{"images": []map[string]any{
		{"url": "https://i.scdn.co/large", "height": 640, "width": 640},
		{"url": "https://i.scdn.co/small", "height": 64, "width": 64},
	}}
	c := newTestClient(t, f, Config{ClientID: "id", ClientSecret: "secret"})

	got, err := c.Find(context.Background(), mood.Happy)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	want := Track{
		Name:        "Sunrise",
		Artist:      "Artist A, Artist B",
		PreviewURL:  "https://p.scdn.co/sunrise",
		ExternalURL: "https://open.spotify.com/track/Sunrise",
		AlbumImage:  "https://i.scdn.co/large",
	}
	if got != want {
		t.Errorf("Find() = %+v, want %+v", got, want)
	}

	q, _ := f.lastQuery.Load().(url.Values)
	checks := map[string]string{
		"q":      "upbeat happy energetic",
		"type":   "track",
		"limit":  "50",
		"market": "US",
	}
	for k, v := range checks {
		if len(q[k]) == 0 || q[k][0] != v {
			t.Errorf("query %s = %v, want %q", k, q[k], v)
		}
	}
}

func TestSearchPrefersPreview(t *testing.T) {
	f := &fakeSpotify{tracks: []apiTrack{
		track("no-1", "", "A"),
		track("with-1", "https://p/1", "B"),
		track("no-2", "", "C"),
		track("with-2", "https://p/2", "D"),
		track("no-3", "", "E"),
	}}
	c := newTestClient(t, f, Config{ClientID: "id", ClientSecret: "secret"})
	token := &oauth2.Token{AccessToken: "test-token", TokenType: "Bearer"}

	for i := 0; i < 30; i++ {
		got, err := c.SearchTrack(context.Background(), token, mood.Sad)
		if err != nil {
			t.Fatalf("SearchTrack() error = %v", err)
		}
		if !got.HasPreview() {
			t.Fatalf("SearchTrack() picked %q without preview", got.Name)
		}
	}
}

func TestSearchWithoutAnyPreview(t *testing.T) {
	f := &fakeSpotify{tracks: []apiTrack{
		track("no-1", "", "A"),
		track("no-2", "", "B"),
	}}
	c := newTestClient(t, f, Config{ClientID: "id", ClientSecret: "secret"})
	token := &oauth2.Token{AccessToken: "test-token", TokenType: "Bearer"}

	got, err := c.SearchTrack(context.Background(), token, mood.Angry)
	if err != nil {
		t.Fatalf("SearchTrack() error = %v", err)
	}
	if got.HasPreview() {
		t.Errorf("HasPreview() = true for %+v", got)
	}
	if got.AlbumImage != "" {
		t.Errorf("AlbumImage = %q, want empty", got.AlbumImage)
	}
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		fake    *fakeSpotify
		wantErr error
	}{
		{"empty result", &fakeSpotify{}, ErrNoTracks},
		{"server error", &fakeSpotify{searchStatus: http.StatusInternalServerError}, ErrSearchFailed},
		{"unauthorized", &fakeSpotify{searchStatus: http.StatusUnauthorized}, ErrSearchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.fake, Config{ClientID: "id", ClientSecret: "secret"})

			_, err := c.Find(context.Background(), mood.Neutral)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Find() error = %v, want %v", err, tt.wantErr)
			}
			if n := tt.fake.searchCalls.Load(); n != 1 {
				t.Errorf("search called %d times, want exactly 1", n)
			}
		})
	}
}

func TestSearchNilToken(t *testing.T) {
	c := New(Config{ClientID: "id", ClientSecret: "secret"})
	_, err := c.SearchTrack(context.Background(), nil, mood.Happy)
	if !errors.Is(err, ErrTokenUnavailable) {
		t.Errorf("SearchTrack() error = %v, want ErrTokenUnavailable", err)
	}
}
