// Package selector drives one posting run: pick a usable content folder,
// fetch its image and description, extract text and publish.
package selector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/glrecs/recsbot/internal/drive"
	"github.com/glrecs/recsbot/internal/extractor"
	"github.com/glrecs/recsbot/internal/poster"
)

// ErrNoUsableFolder is returned when every candidate folder was tried
// without a successful publish.
var ErrNoUsableFolder = errors.New("no usable folder found")

// Library is the remote storage the selector browses and fetches from.
type Library interface {
	ListFolders(ctx context.Context, parentID string) ([]drive.Folder, error)
	ListFiles(ctx context.Context, folderID string) ([]drive.File, error)
	Download(ctx context.Context, fileID, destPath string) (string, error)
}

// Parser extracts post text from a downloaded description file.
type Parser interface {
	FromFile(path string) (extractor.Description, error)
}

// Selector runs the selection workflow. One instance handles one run at a
// time; each run works on fresh remote state.
type Selector struct {
	library Library
	poster  poster.Poster
	parser  Parser

	parentID string
	tempDir  string
	caption  string
	dryRun   bool
	rng      *rand.Rand
}

// Config holds selector configuration.
type Config struct {
	Library Library
	Poster  poster.Poster
	Parser  Parser

	// ParentID is the Drive folder containing the candidate folders.
	ParentID string

	// TempDir is where fetched files land, one subdirectory per folder.
	TempDir string

	// Caption is the fixed text of the primary post.
	Caption string

	// DryRun stops the workflow right before publishing.
	DryRun bool

	// Seed fixes the shuffle order; zero means time-seeded.
	Seed int64
}

// New creates a selector.
func New(cfg Config) *Selector {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Selector{
		library:  cfg.Library,
		poster:   cfg.Poster,
		parser:   cfg.Parser,
		parentID: cfg.ParentID,
		tempDir:  cfg.TempDir,
		caption:  cfg.Caption,
		dryRun:   cfg.DryRun,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Result describes a completed run.
type Result struct {
	Folder      drive.Folder
	Image       drive.File
	Description drive.File
	ImagePath   string
	Text        extractor.Description
	Post        *poster.PostResult // nil on dry runs
}

// Run performs a single pass: candidates are shuffled and tried in order
// until one publishes. A folder that fails validation, fetch, parsing or
// publishing is skipped and the next one is tried. A rate-limit signal
// aborts the whole run. No candidate folders at all is a no-op success
// with a nil Result.
func (s *Selector) Run(ctx context.Context) (*Result, error) {
	folders, err := s.library.ListFolders(ctx, s.parentID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	if len(folders) == 0 {
		slog.Info("no candidate folders, nothing to post")
		return nil, nil
	}

	s.rng.Shuffle(len(folders), func(i, j int) {
		folders[i], folders[j] = folders[j], folders[i]
	})

	for _, folder := range folders {
		result, err := s.tryFolder(ctx, folder)
		if err != nil {
			if errors.Is(err, poster.ErrRateLimited) {
				return nil, fmt.Errorf("folder %q: %w", folder.Name, err)
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("skipping folder", "folder", folder.Name, "error", err)
			continue
		}

		slog.Info("run complete",
			"folder", folder.Name,
			"image", result.Image.Name,
			"dry_run", s.dryRun,
		)
		return result, nil
	}

	return nil, ErrNoUsableFolder
}

// tryFolder validates, fetches, parses and publishes a single folder.
func (s *Selector) tryFolder(ctx context.Context, folder drive.Folder) (*Result, error) {
	files, err := s.library.ListFiles(ctx, folder.ID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	images, descriptions := drive.ClassifyFiles(files)
	if len(images) == 0 {
		return nil, errors.New("no image files")
	}
	if len(descriptions) != 1 {
		return nil, fmt.Errorf("want exactly one description file, found %d", len(descriptions))
	}

	image := images[s.rng.Intn(len(images))]
	description := descriptions[0]

	base := filepath.Join(s.tempDir, folder.Name)
	imagePath, err := s.library.Download(ctx, image.ID, filepath.Join(base, image.Name))
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	descPath, err := s.library.Download(ctx, description.ID, filepath.Join(base, description.Name))
	if err != nil {
		return nil, fmt.Errorf("fetch description: %w", err)
	}

	text, err := s.parser.FromFile(descPath)
	if err != nil {
		return nil, fmt.Errorf("extract description: %w", err)
	}

	result := &Result{
		Folder:      folder,
		Image:       image,
		Description: description,
		ImagePath:   imagePath,
		Text:        text,
	}

	if s.dryRun {
		return result, nil
	}

	post, err := s.poster.Publish(ctx, poster.Post{
		ImagePath: imagePath,
		AltText:   text.AltText,
		Caption:   s.caption,
		ReplyText: text.FullText,
	})
	if err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	result.Post = post

	return result, nil
}
