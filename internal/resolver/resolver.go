// Package resolver decides which song to return for a mood request.
//
// A request walks a fixed chain: Spotify when the caller asks for it and the
// provider is configured, then local files (with mood fallbacks), then a
// last-resort Spotify attempt when local files are absent and Spotify was not
// already requested. Every step reports an explicit result; external failures
// never escape as errors other than ErrNotFound.
package resolver

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/justestif/mood-music/internal/catalog"
	"github.com/justestif/mood-music/internal/metrics"
	"github.com/justestif/mood-music/internal/mood"
	"github.com/justestif/mood-music/internal/selector"
	"github.com/justestif/mood-music/internal/spotify"
)

// Source identifies where a song came from.
type Source string

// Song sources.
const (
	SourceLocal   Source = "local"
	SourceSpotify Source = "spotify"
)

const (
	hintPrefix     = "No music files found for this mood. "
	hintConfigured = "Spotify is configured but no preview available. "
	hintAction     = "Add MP3s in /static/static_music/{mood}/ folders or configure Spotify API with preview URLs."
)

// ErrNotFound is returned when no song is available from any source.
var ErrNotFound = errors.New("no song available")

// Provider is the external search used by the resolver.
type Provider interface {
	Configured() bool
	ClientIDSet() bool
	Find(ctx context.Context, m mood.Mood) (spotify.Track, error)
}

// Result is a resolved song. Exactly one of Local or Track is set,
// according to Source.
type Result struct {
	Source Source
	Mood   mood.Mood
	Local  *selector.Selection
	Meta   catalog.Metadata
	Track  *spotify.Track
}

// NotFoundError carries the hint shown to callers when nothing is available.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// Unwrap lets callers match with errors.Is(err, ErrNotFound).
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Status describes the service configuration.
type Status struct {
	SpotifyConfigured   bool
	SpotifyClientIDSet  bool
	LocalFilesAvailable bool
	MoodFiles           map[mood.Mood]int
}

// Resolver resolves mood requests to songs.
type Resolver struct {
	catalog  *catalog.Catalog
	selector *selector.Selector
	provider Provider
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
}

// New creates a Resolver. m may be nil.
func New(c *catalog.Catalog, sel *selector.Selector, p Provider, m *metrics.Metrics, log logrus.FieldLogger) *Resolver {
	return &Resolver{
		catalog:  c,
		selector: sel,
		provider: p,
		metrics:  m,
		log:      log,
	}
}

// Status reports provider configuration and local file counts.
func (r *Resolver) Status() Status {
	return Status{
		SpotifyConfigured:   r.provider.Configured(),
		SpotifyClientIDSet:  r.provider.ClientIDSet(),
		LocalFilesAvailable: r.catalog.HasFiles(),
		MoodFiles:           r.catalog.Counts(),
	}
}

// Resolve returns a song for m. preferSpotify asks for an external track
// before local files. The only error returned is a *NotFoundError.
func (r *Resolver) Resolve(ctx context.Context, m mood.Mood, preferSpotify bool) (Result, error) {
	log := r.log.WithFields(logrus.Fields{"mood": m, "prefer_spotify": preferSpotify})
	configured := r.provider.Configured()

	if preferSpotify {
		if !configured {
			log.Info("spotify requested but credentials not configured, using local files")
		} else if res, ok := r.tryExternal(ctx, m, log); ok {
			return res, nil
		}
	}

	sel, err := r.selector.Select(m)
	if err == nil {
		meta, _ := r.catalog.Meta(sel.File)
		log.WithField("file", sel.File).Info("serving local file")
		r.metrics.SongServed(string(SourceLocal), string(m))
		return Result{Source: SourceLocal, Mood: m, Local: &sel, Meta: meta}, nil
	}

	if configured && !preferSpotify {
		log.Info("no local files, trying spotify as fallback")
		if res, ok := r.tryExternal(ctx, m, log); ok {
			return res, nil
		}
	}

	r.metrics.NotFound()
	log.Warn("no song available")
	return Result{}, &NotFoundError{Message: r.hint(configured)}
}

// tryExternal runs one token + search round. A track without a preview
// counts as a failure.
func (r *Resolver) tryExternal(ctx context.Context, m mood.Mood, log logrus.FieldLogger) (Result, bool) {
	track, err := r.provider.Find(ctx, m)
	if err != nil {
		stage := metrics.StageSearch
		if errors.Is(err, spotify.ErrTokenUnavailable) || errors.Is(err, spotify.ErrNotConfigured) {
			stage = metrics.StageToken
		}
		r.metrics.ExternalFailed(stage)
		log.WithError(err).WithField("stage", stage).Warn("spotify lookup failed, falling back")
		return Result{}, false
	}

	if !track.HasPreview() {
		r.metrics.ExternalFailed(metrics.StageNoPreview)
		log.WithField("track", track.Name).Info("spotify track has no preview, falling back")
		return Result{}, false
	}

	log.WithFields(logrus.Fields{"track": track.Name, "artist": track.Artist}).Info("serving spotify track")
	r.metrics.SongServed(string(SourceSpotify), string(m))
	return Result{Source: SourceSpotify, Mood: m, Track: &track}, true
}

func (r *Resolver) hint(configured bool) string {
	msg := hintPrefix
	if configured {
		msg += hintConfigured
	}
	return msg + hintAction
}
