package spotify

import (
	"strings"

	"github.com/zmb3/spotify/v2"
)

// Track is a catalog track picked for a request. It is never persisted.
type Track struct {
	Name        string
	Artist      string // Comma-separated artist names
	PreviewURL  string // Empty when Spotify offers no preview
	ExternalURL string
	AlbumImage  string // First album image, empty when the album has none
}

// HasPreview reports whether the track carries a playable preview.
func (t Track) HasPreview() bool {
	return t.PreviewURL != ""
}

// preferPreview returns the tracks with a preview URL, or all tracks when
// none have one.
func preferPreview(tracks []spotify.FullTrack) []spotify.FullTrack {
	withPreview := make([]spotify.FullTrack, 0, len(tracks))
	for _, t := range tracks {
		if t.PreviewURL != "" {
			withPreview = append(withPreview, t)
		}
	}
	if len(withPreview) == 0 {
		return tracks
	}
	return withPreview
}

func hasAnyPreview(tracks []spotify.FullTrack) bool {
	for _, t := range tracks {
		if t.PreviewURL != "" {
			return true
		}
	}
	return false
}

// convertTrack converts a Spotify FullTrack to a Track.
func convertTrack(ft spotify.FullTrack) Track {
	artists := make([]string, len(ft.Artists))
	for i, a := range ft.Artists {
		artists[i] = a.Name
	}

	var image string
	if len(ft.Album.Images) > 0 {
		image = ft.Album.Images[0].URL
	}

	return Track{
		Name:        ft.Name,
		Artist:      strings.Join(artists, ", "),
		PreviewURL:  ft.PreviewURL,
		ExternalURL: ft.ExternalURLs["spotify"],
		AlbumImage:  image,
	}
}
