// Package scheduler runs the posting workflow on a cron schedule.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/glrecs/recsbot/internal/config"
	"github.com/glrecs/recsbot/internal/db"
	"github.com/glrecs/recsbot/internal/poster"
	"github.com/glrecs/recsbot/internal/selector"
	"github.com/robfig/cron/v3"
)

// Scheduler runs posting cycles on the configured schedule and tracks
// component health.
type Scheduler struct {
	cfg    *config.Config
	store  *db.Store
	sel    *selector.Selector
	poster poster.Poster
	health *Health
}

// Config holds scheduler configuration.
type Config struct {
	Cfg      *config.Config
	Store    *db.Store
	Selector *selector.Selector
	Poster   poster.Poster
}

// New creates a new scheduler.
func New(cfg Config) *Scheduler {
	return &Scheduler{
		cfg:    cfg.Cfg,
		store:  cfg.Store,
		sel:    cfg.Selector,
		poster: cfg.Poster,
		health: NewHealth(),
	}
}

// Run starts the scheduler and blocks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("starting scheduler",
		"schedule", s.cfg.PostSchedule,
		"max_posts_per_day", s.cfg.MaxPostsPerDay,
	)

	// Validate credentials on startup
	if err := s.poster.ValidateCredentials(ctx); err != nil {
		s.health.SetUnhealthy("poster", err)
		slog.Error("failed to validate posting credentials", "error", err)
	} else {
		s.health.SetHealthy("poster", "authenticated")
	}

	c := cron.New()
	if _, err := c.AddFunc(s.cfg.PostSchedule, func() {
		s.RunPostCycle(ctx)
	}); err != nil {
		return fmt.Errorf("parse post schedule %q: %w", s.cfg.PostSchedule, err)
	}

	c.Start()

	<-ctx.Done()
	slog.Info("scheduler shutting down")

	// Let an in-flight cycle finish before returning.
	<-c.Stop().Done()
	return ctx.Err()
}

// RunPostCycle performs one posting attempt, honoring the daily cap.
func (s *Scheduler) RunPostCycle(ctx context.Context) {
	slog.Debug("running post cycle")

	postsToday, err := s.store.CountPostsToday(ctx, s.poster.Platform())
	if err != nil {
		// Without the count we can't enforce the daily cap; sit this one out.
		s.health.SetUnhealthy("post", err)
		slog.Error("failed to count today's posts, skipping cycle", "error", err)
		return
	}
	if postsToday >= int64(s.cfg.MaxPostsPerDay) {
		slog.Info("daily post limit reached", "posts_today", postsToday, "max", s.cfg.MaxPostsPerDay)
		return
	}

	result, err := s.sel.Run(ctx)
	if err != nil {
		s.health.SetUnhealthy("post", err)
		slog.Error("post cycle failed", "error", err)
		return
	}
	if result == nil {
		slog.Info("post cycle found nothing to post")
		return
	}

	s.health.SetHealthy("post", "posted successfully")
	slog.Info("posted",
		"folder", result.Folder.Name,
		"url", result.Post.PostURL,
	)

	// Record the post
	replyID := sql.NullString{}
	if len(result.Post.ReplyIDs) > 0 {
		replyID = sql.NullString{String: result.Post.ReplyIDs[0], Valid: true}
	}

	_, err = s.store.CreatePost(ctx, db.CreatePostParams{
		FolderID:        result.Folder.ID,
		FolderName:      result.Folder.Name,
		ImageFile:       result.Image.Name,
		DescriptionFile: result.Description.Name,
		Platform:        s.poster.Platform(),
		PlatformPostID:  result.Post.PostID,
		ReplyPostID:     replyID,
		PostURL:         sql.NullString{String: result.Post.PostURL, Valid: result.Post.PostURL != ""},
		AltText:         result.Text.AltText,
	})
	if err != nil {
		slog.Warn("failed to record post", "error", err)
	}
}

// Health returns the health tracker.
func (s *Scheduler) Health() *Health {
	return s.health
}
