// Command mood-music serves a song for a requested mood from local files or Spotify.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/justestif/mood-music/internal/catalog"
	"github.com/justestif/mood-music/internal/config"
	"github.com/justestif/mood-music/internal/metrics"
	"github.com/justestif/mood-music/internal/resolver"
	"github.com/justestif/mood-music/internal/selector"
	"github.com/justestif/mood-music/internal/spotify"
	"github.com/justestif/mood-music/internal/web"
	webfs "github.com/justestif/mood-music/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := cfg.NewLogger()

	// Music directory is scanned once; files added later need a restart.
	musicFS := os.DirFS(cfg.MusicDir)
	cat, err := catalog.Build(musicFS, log.WithField("dir", cfg.MusicDir))
	if err != nil {
		return fmt.Errorf("scanning music directory: %w", err)
	}

	m := metrics.New()
	for mood, n := range cat.Counts() {
		m.SetCatalogFiles(string(mood), n)
	}

	provider := spotify.New(spotify.Config{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
	}, spotify.WithLogger(log))

	log.WithFields(logrus.Fields{
		"spotify_configured": provider.Configured(),
		"local_files":        cat.Total(),
	}).Info("configuration loaded")

	templates, err := webfs.Templates()
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := webfs.Static()
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	server, err := web.NewServer(web.ServerConfig{
		Addr:        cfg.Addr(),
		TemplatesFS: templates,
		StaticFS:    static,
		MusicFS:     musicFS,
		Resolver:    resolver.New(cat, selector.New(cat), provider, m, log),
		Metrics:     m,
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}
