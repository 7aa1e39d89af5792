// Package selector picks a local file for a mood without repeating the
// previous pick when an alternative exists.
package selector

import (
	"errors"
	"math/rand/v2"

	"github.com/justestif/mood-music/internal/catalog"
	"github.com/justestif/mood-music/internal/mood"
)

// StaticRoute is the URL prefix under which local files are served.
const StaticRoute = "/static/static_music/"

// ErrNoContent is returned when neither the mood nor any fallback mood has files.
var ErrNoContent = errors.New("no local content available")

// Selection is a file chosen for a request.
type Selection struct {
	Mood mood.Mood // requested mood
	File string    // "<mood>/<filename>", possibly from a fallback mood
	Path string    // URL path of the file
}

// Selector chooses local files for moods.
type Selector struct {
	catalog *catalog.Catalog
	store   Store
	intn    func(n int) int
}

// Option configures a Selector.
type Option func(*Selector)

// WithStore sets the last-served store.
func WithStore(s Store) Option {
	return func(sel *Selector) {
		sel.store = s
	}
}

// WithRand sets the random source used to pick among candidates.
func WithRand(r *rand.Rand) Option {
	return func(sel *Selector) {
		sel.intn = r.IntN
	}
}

// New creates a Selector over c. By default it uses a fresh MemoryStore.
func New(c *catalog.Catalog, opts ...Option) *Selector {
	s := &Selector{
		catalog: c,
		store:   NewMemoryStore(),
		intn:    rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Candidates returns the files eligible for m: its own files, or those of the
// first non-empty mood in the fallback order.
func (s *Selector) Candidates(m mood.Mood) []string {
	if files := s.catalog.Files(m); len(files) > 0 {
		return files
	}
	for _, fb := range mood.FallbackOrder {
		if files := s.catalog.Files(fb); len(files) > 0 {
			return files
		}
	}
	return nil
}

// Select picks a file for m and records it as last served for m.
// Unsupported moods share a single last-served slot.
// Returns ErrNoContent if no candidates exist.
func (s *Selector) Select(m mood.Mood) (Selection, error) {
	files := s.Candidates(m)
	if len(files) == 0 {
		return Selection{}, ErrNoContent
	}

	key := mood.Bucket(m)

	var chosen string
	if len(files) == 1 {
		chosen = files[0]
	} else {
		candidates := files
		if previous, ok := s.store.Last(key); ok {
			candidates = exclude(files, previous)
		}
		// Exclusion only empties the set if every entry equals previous.
		if len(candidates) == 0 {
			candidates = files
		}
		chosen = candidates[s.intn(len(candidates))]
	}

	s.store.Set(key, chosen)

	return Selection{
		Mood: m,
		File: chosen,
		Path: StaticRoute + chosen,
	}, nil
}

func exclude(files []string, drop string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f != drop {
			out = append(out, f)
		}
	}
	return out
}
