// Package app wires the bot's dependencies together.
package app

import (
	"context"

	"github.com/glrecs/recsbot/internal/config"
	"github.com/glrecs/recsbot/internal/db"
	"github.com/glrecs/recsbot/internal/drive"
	"github.com/glrecs/recsbot/internal/extractor"
	"github.com/glrecs/recsbot/internal/poster"
	"github.com/glrecs/recsbot/internal/selector"
)

// App is the main application container holding all dependencies. Clients
// are constructed once here and passed down explicitly.
type App struct {
	Config    *config.Config
	Store     *db.Store
	Drive     *drive.Client
	Poster    poster.Poster
	Extractor *extractor.Extractor
	Selector  *selector.Selector
}

// Options tweaks how the app is assembled.
type Options struct {
	// DryRun stops each run right before publishing.
	DryRun bool
}

// New creates a new application instance with all dependencies wired up.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	// Create database connection
	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	// Create Drive client
	driveClient, err := drive.NewClient(ctx, drive.Config{
		CredentialsFile:   cfg.ServiceAccountFile,
		RequestsPerSecond: cfg.DriveRateLimit,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	// Create poster
	twPoster := poster.NewTwitterPoster(poster.TwitterConfig{
		ConsumerKey:       cfg.ConsumerKey,
		ConsumerSecret:    cfg.ConsumerSecret,
		AccessKey:         cfg.AccessKey,
		AccessSecret:      cfg.AccessSecret,
		RateLimitCooldown: cfg.RateLimitCooldown,
	})

	// Create extractor
	ext := extractor.New(extractor.Config{
		FallbackAltText: cfg.FallbackAltText,
	})

	sel := selector.New(selector.Config{
		Library:  driveClient,
		Poster:   twPoster,
		Parser:   ext,
		ParentID: cfg.DriveFolderID,
		TempDir:  cfg.TempDir,
		Caption:  cfg.PostCaption,
		DryRun:   opts.DryRun,
	})

	return &App{
		Config:    cfg,
		Store:     store,
		Drive:     driveClient,
		Poster:    twPoster,
		Extractor: ext,
		Selector:  sel,
	}, nil
}

// Close closes all resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
