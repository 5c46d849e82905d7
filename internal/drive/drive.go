package drive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	folderMimeType = "application/vnd.google-apps.folder"
	listPageSize   = 500
)

// exportMimeTypes maps native Google document types to the interchange
// format they are exported as. Everything else downloads as raw bytes.
var exportMimeTypes = map[string]string{
	"application/vnd.google-apps.document":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.google-apps.spreadsheet":  "text/csv",
	"application/vnd.google-apps.presentation": "application/pdf",
	"application/vnd.google-apps.drawing":      "image/png",
}

// exportExtensions maps export formats to the local file extension.
var exportExtensions = map[string]string{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"text/csv":        ".csv",
	"application/pdf": ".pdf",
	"image/png":       ".png",
}

// Client browses and fetches content from Google Drive. All requests pass
// through a shared rate limiter.
type Client struct {
	svc     *gdrive.Service
	limiter *rate.Limiter
}

// Config holds configuration for the Drive client.
type Config struct {
	// CredentialsFile is the path to a service account JSON key.
	CredentialsFile string

	// RequestsPerSecond caps the Drive API request rate (default 5).
	RequestsPerSecond float64

	// Options are appended to the service options; tests use this to point
	// the client at a fake server.
	Options []option.ClientOption
}

// NewClient creates an authenticated Drive client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts,
			option.WithCredentialsFile(cfg.CredentialsFile),
			option.WithScopes(gdrive.DriveReadonlyScope),
		)
	}
	opts = append(opts, cfg.Options...)

	svc, err := gdrive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	return &Client{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

// ListFolders returns all non-trashed direct subfolders of parentID,
// following continuation tokens until the listing is exhausted. An empty
// parent yields an empty slice, not an error.
func (c *Client) ListFolders(ctx context.Context, parentID string) ([]Folder, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false", parentID, folderMimeType)

	var folders []Folder
	pageToken := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		res, err := c.svc.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name)").
			PageSize(listPageSize).
			PageToken(pageToken).
			Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("list folders: %w", err)
		}

		for _, f := range res.Files {
			folders = append(folders, Folder{ID: f.Id, Name: f.Name})
		}

		pageToken = res.NextPageToken
		if pageToken == "" {
			break
		}
	}

	slog.Debug("listed drive folders", "parent", parentID, "count", len(folders))
	return folders, nil
}

// ListFiles returns all non-trashed direct children of a folder, each
// tagged with name and MIME type.
func (c *Client) ListFiles(ctx context.Context, folderID string) ([]File, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	var files []File
	pageToken := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		res, err := c.svc.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType)").
			PageSize(listPageSize).
			PageToken(pageToken).
			Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("list files: %w", err)
		}

		for _, f := range res.Files {
			files = append(files, File{ID: f.Id, Name: f.Name, MimeType: f.MimeType})
		}

		pageToken = res.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return files, nil
}

// Download fetches file bytes to destPath, creating any missing parent
// directories. Native Google document types are exported to an interchange
// format instead, and the destination extension is rewritten to match.
// It returns the final local path.
func (c *Client) Download(ctx context.Context, fileID, destPath string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	meta, err := c.svc.Files.Get(fileID).Fields("name", "mimeType").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get file metadata: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var resp *http.Response
	if exportMime, ok := exportMimeTypes[meta.MimeType]; ok {
		resp, err = c.svc.Files.Export(fileID, exportMime).Context(ctx).Download()
		if err != nil {
			return "", fmt.Errorf("export file %s: %w", fileID, err)
		}
		destPath = replaceExtension(destPath, exportExtensions[exportMime])
	} else {
		resp, err = c.svc.Files.Get(fileID).Context(ctx).Download()
		if err != nil {
			return "", fmt.Errorf("download file %s: %w", fileID, err)
		}
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return "", fmt.Errorf("create destination directory: %w", err)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create destination file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("write file %s: %w", destPath, err)
	}

	slog.Debug("downloaded file", "id", fileID, "path", destPath)
	return destPath, nil
}

// replaceExtension swaps the extension of path for ext.
func replaceExtension(path, ext string) string {
	if ext == "" {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
