// Package catalog discovers the local audio files available for each mood.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/dhowden/tag"
	"github.com/sirupsen/logrus"

	"github.com/justestif/mood-music/internal/mood"
)

const audioExt = ".mp3"

// Metadata holds best-effort tag information read from an audio file.
type Metadata struct {
	Title  string
	Artist string
}

// Catalog maps each mood to the files found for it at startup.
// It is immutable once built and safe for concurrent use.
type Catalog struct {
	files map[mood.Mood][]string
	meta  map[string]Metadata
}

// Build scans root for one directory per mood and records every file with a
// case-insensitive .mp3 extension as "<mood>/<filename>". Missing mood
// directories are not an error. Entry order follows the directory listing and
// callers should not rely on it.
func Build(root fs.FS, log logrus.FieldLogger) (*Catalog, error) {
	c := &Catalog{
		files: make(map[mood.Mood][]string, len(mood.All)),
		meta:  make(map[string]Metadata),
	}

	for _, m := range mood.All {
		entries, err := fs.ReadDir(root, string(m))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || isNotDir(root, string(m)) {
				continue
			}
			return nil, fmt.Errorf("reading %s directory: %w", m, err)
		}

		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), audioExt) {
				continue
			}
			file := path.Join(string(m), e.Name())
			c.files[m] = append(c.files[m], file)

			md, err := readMetadata(root, file)
			if err != nil {
				log.WithError(err).WithField("file", file).Debug("no tag metadata")
				continue
			}
			c.meta[file] = md
		}

		log.WithFields(logrus.Fields{"mood": m, "files": len(c.files[m])}).Info("scanned mood directory")
	}

	return c, nil
}

// New creates a catalog from an explicit mood → files mapping.
func New(files map[mood.Mood][]string) *Catalog {
	c := &Catalog{
		files: make(map[mood.Mood][]string, len(files)),
		meta:  make(map[string]Metadata),
	}
	for m, list := range files {
		c.files[m] = append([]string(nil), list...)
	}
	return c
}

// Files returns the files recorded for a mood. The returned slice is a copy.
func (c *Catalog) Files(m mood.Mood) []string {
	return append([]string(nil), c.files[m]...)
}

// Counts returns the number of files per supported mood, including zeros.
func (c *Catalog) Counts() map[mood.Mood]int {
	counts := make(map[mood.Mood]int, len(mood.All))
	for _, m := range mood.All {
		counts[m] = len(c.files[m])
	}
	return counts
}

// Total returns the number of files across all moods.
func (c *Catalog) Total() int {
	total := 0
	for _, list := range c.files {
		total += len(list)
	}
	return total
}

// HasFiles reports whether any mood has at least one file.
func (c *Catalog) HasFiles() bool {
	return c.Total() > 0
}

// Meta returns tag metadata for a file when it could be read at build time.
func (c *Catalog) Meta(file string) (Metadata, bool) {
	md, ok := c.meta[file]
	return md, ok
}

// readMetadata reads ID3 title and artist from a file in root.
func readMetadata(root fs.FS, file string) (Metadata, error) {
	f, err := root.Open(file)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	rs, ok := f.(io.ReadSeeker)
	if !ok {
		return Metadata{}, fmt.Errorf("%s: file does not support seeking", file)
	}

	m, err := tag.ReadFrom(rs)
	if err != nil {
		return Metadata{}, err
	}

	return Metadata{Title: m.Title(), Artist: m.Artist()}, nil
}

// isNotDir reports whether name exists in root but is not a directory.
func isNotDir(root fs.FS, name string) bool {
	info, err := fs.Stat(root, name)
	return err == nil && !info.IsDir()
}
