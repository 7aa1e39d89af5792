package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/justestif/mood-music/internal/mood"
	"github.com/justestif/mood-music/internal/resolver"
)

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	resolver  *resolver.Resolver
	templates *Templates
	log       logrus.FieldLogger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(r *resolver.Resolver, templates *Templates, log logrus.FieldLogger) *Handlers {
	return &Handlers{
		resolver:  r,
		templates: templates,
		log:       log,
	}
}

// Home handles the front-end page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	status := h.resolver.Status()

	data := HomePageData{
		PageData: PageData{
			Title:       "Mood Music",
			CurrentPath: r.URL.Path,
		},
		Moods:             mood.All,
		SpotifyConfigured: status.SpotifyConfigured,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, "home", data); err != nil {
		h.log.WithError(err).Error("rendering home page")
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
}

// Status reports configuration and local file counts (GET /api/status).
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	s := h.resolver.Status()

	counts := make(map[string]int, len(s.MoodFiles))
	for m, n := range s.MoodFiles {
		counts[string(m)] = n
	}

	h.writeJSON(w, http.StatusOK, statusResponse{
		SpotifyConfigured:   s.SpotifyConfigured,
		SpotifyClientIDSet:  s.SpotifyClientIDSet,
		LocalFilesAvailable: s.LocalFilesAvailable,
		MoodFiles:           counts,
	})
}

// Song returns a song for the mood in the path (GET /api/song/{mood}).
// The spotify query parameter set to "true" prefers a Spotify track.
func (h *Handlers) Song(w http.ResponseWriter, r *http.Request) {
	m := mood.Parse(chi.URLParam(r, "mood"))
	preferSpotify := strings.EqualFold(r.URL.Query().Get("spotify"), "true")

	res, err := h.resolver.Resolve(r.Context(), m, preferSpotify)
	if err != nil {
		var nf *resolver.NotFoundError
		if errors.As(err, &nf) {
			h.writeJSON(w, http.StatusNotFound, errorResponse{OK: false, Message: nf.Message})
			return
		}
		h.log.WithError(err).WithField("mood", m).Error("resolving song")
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{OK: false, Message: "internal error"})
		return
	}

	switch res.Source {
	case resolver.SourceSpotify:
		t := res.Track
		resp := spotifySongResponse{
			OK:          true,
			Source:      string(res.Source),
			Mood:        string(res.Mood),
			Name:        t.Name,
			Artist:      t.Artist,
			PreviewURL:  t.PreviewURL,
			ExternalURL: t.ExternalURL,
		}
		if t.AlbumImage != "" {
			resp.AlbumImage = &t.AlbumImage
		}
		h.writeJSON(w, http.StatusOK, resp)
	default:
		h.writeJSON(w, http.StatusOK, localSongResponse{
			OK:     true,
			Source: string(res.Source),
			Mood:   string(res.Mood),
			Path:   res.Local.Path,
			File:   res.Local.File,
			Title:  res.Meta.Title,
			Artist: res.Meta.Artist,
		})
	}
}

type statusResponse struct {
	SpotifyConfigured   bool           `json:"spotify_configured"`
	SpotifyClientIDSet  bool           `json:"spotify_client_id_set"`
	LocalFilesAvailable bool           `json:"local_files_available"`
	MoodFiles           map[string]int `json:"mood_files"`
}

type localSongResponse struct {
	OK     bool   `json:"ok"`
	Source string `json:"source"`
	Mood   string `json:"mood"`
	Path   string `json:"path"`
	File   string `json:"file"`
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
}

type spotifySongResponse struct {
	OK          bool    `json:"ok"`
	Source      string  `json:"source"`
	Mood        string  `json:"mood"`
	Name        string  `json:"name"`
	Artist      string  `json:"artist"`
	PreviewURL  string  `json:"preview_url"`
	ExternalURL string  `json:"external_url"`
	AlbumImage  *string `json:"album_image"`
}

type errorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
// The status is already sent when encoding fails, so the error is only logged.
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).WithField("status", status).Warn("encoding JSON response")
	}
}
