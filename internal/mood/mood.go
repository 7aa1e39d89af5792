// Package mood defines the fixed set of moods the service understands.
package mood

import "strings"

// Mood is an emotion label that drives content selection.
type Mood string

// Supported moods.
const (
	Happy     Mood = "happy"
	Sad       Mood = "sad"
	Angry     Mood = "angry"
	Neutral   Mood = "neutral"
	Surprised Mood = "surprised"
	Fearful   Mood = "fearful"
	Disgusted Mood = "disgusted"
)

// All lists every supported mood in canonical order.
var All = []Mood{Happy, Sad, Angry, Neutral, Surprised, Fearful, Disgusted}

// FallbackOrder is consulted, in order, when the requested mood has no local files.
var FallbackOrder = []Mood{Neutral, Happy, Sad, Angry}

// defaultSearchTerm is used for moods outside the fixed set.
const defaultSearchTerm = "music"

var searchTerms = map[Mood]string{
	Happy:     "upbeat happy energetic",
	Sad:       "sad melancholic emotional",
	Angry:     "intense aggressive powerful",
	Neutral:   "calm peaceful ambient",
	Surprised: "energetic exciting dynamic",
	Fearful:   "dark atmospheric tense",
	Disgusted: "intense dramatic",
}

// Other groups every mood outside the supported set.
const Other Mood = "other"

// Parse lowercases a raw mood string. Unknown values are returned as-is so
// callers can still fall back to other moods.
func Parse(s string) Mood {
	return Mood(strings.ToLower(s))
}

// Known reports whether m is one of the supported moods.
func Known(m Mood) bool {
	_, ok := searchTerms[m]
	return ok
}

// Bucket returns m for supported moods and Other for anything else.
// Use it to key per-mood state that must stay bounded.
func Bucket(m Mood) Mood {
	if Known(m) {
		return m
	}
	return Other
}

// SearchTerm returns the catalog search phrase for a mood.
func SearchTerm(m Mood) string {
	if term, ok := searchTerms[m]; ok {
		return term
	}
	return defaultSearchTerm
}

func (m Mood) String() string {
	return string(m)
}
