package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), Config{
		RequestsPerSecond: 1000, // don't slow tests down
		Options: []option.ClientOption{
			option.WithoutAuthentication(),
			option.WithEndpoint(server.URL),
		},
	})
	require.NoError(t, err)
	return client
}

type listResponse struct {
	Files         []fileJSON `json:"files"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

type fileJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType,omitempty"`
}

func TestClient_ListFolders(t *testing.T) {
	t.Run("exhausts all pages exactly once", func(t *testing.T) {
		pages := map[string]listResponse{
			"": {
				Files:         []fileJSON{{ID: "f1", Name: "one"}, {ID: "f2", Name: "two"}},
				NextPageToken: "page2",
			},
			"page2": {
				Files:         []fileJSON{{ID: "f3", Name: "three"}},
				NextPageToken: "page3",
			},
			"page3": {
				Files: []fileJSON{{ID: "f4", Name: "four"}},
			},
		}

		var requests int
		mux := http.NewServeMux()
		mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
			requests++
			q := r.URL.Query().Get("q")
			assert.Contains(t, q, "'parent-1' in parents")
			assert.Contains(t, q, "trashed=false")

			page, ok := pages[r.URL.Query().Get("pageToken")]
			require.True(t, ok, "unexpected page token")
			json.NewEncoder(w).Encode(page)
		})

		client := newTestClient(t, mux)

		folders, err := client.ListFolders(context.Background(), "parent-1")
		require.NoError(t, err)
		assert.Equal(t, 3, requests)

		ids := make([]string, 0, len(folders))
		for _, f := range folders {
			ids = append(ids, f.ID)
		}
		assert.Equal(t, []string{"f1", "f2", "f3", "f4"}, ids)
	})

	t.Run("empty parent returns empty slice", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(listResponse{})
		})

		client := newTestClient(t, mux)

		folders, err := client.ListFolders(context.Background(), "parent-1")
		require.NoError(t, err)
		assert.Empty(t, folders)
	})

	t.Run("server error surfaces", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		client := newTestClient(t, mux)

		_, err := client.ListFolders(context.Background(), "parent-1")
		assert.Error(t, err)
	})
}

func TestClient_ListFiles(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Query().Get("q"), "'folder-1' in parents")
			json.NewEncoder(w).Encode(listResponse{
				Files: []fileJSON{
					{ID: "img", Name: "cover.png", MimeType: "image/png"},
					{ID: "txt", Name: "desc.txt", MimeType: "text/plain"},
				},
			})
		})

		client := newTestClient(t, mux)

		files, err := client.ListFiles(context.Background(), "folder-1")
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, "cover.png", files[0].Name)
		assert.Equal(t, "text/plain", files[1].MimeType)
	})

	t.Run("exhausts all pages exactly once", func(t *testing.T) {
		pages := map[string]listResponse{
			"": {
				Files:         []fileJSON{{ID: "a", Name: "one.png"}, {ID: "b", Name: "two.png"}},
				NextPageToken: "page2",
			},
			"page2": {
				Files: []fileJSON{{ID: "c", Name: "desc.txt"}},
			},
		}

		var requests int
		mux := http.NewServeMux()
		mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
			requests++
			page, ok := pages[r.URL.Query().Get("pageToken")]
			require.True(t, ok, "unexpected page token")
			json.NewEncoder(w).Encode(page)
		})

		client := newTestClient(t, mux)

		files, err := client.ListFiles(context.Background(), "folder-1")
		require.NoError(t, err)
		assert.Equal(t, 2, requests)

		ids := make([]string, 0, len(files))
		for _, f := range files {
			ids = append(ids, f.ID)
		}
		assert.Equal(t, []string{"a", "b", "c"}, ids)
	})
}

func TestClient_Download(t *testing.T) {
	t.Run("plain file", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/files/file-1", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("alt") == "media" {
				fmt.Fprint(w, "image-bytes")
				return
			}
			json.NewEncoder(w).Encode(fileJSON{ID: "file-1", Name: "cover.png", MimeType: "image/png"})
		})

		client := newTestClient(t, mux)

		dest := filepath.Join(t.TempDir(), "sub", "cover.png")
		got, err := client.Download(context.Background(), "file-1", dest)
		require.NoError(t, err)
		assert.Equal(t, dest, got)

		content, err := os.ReadFile(got)
		require.NoError(t, err)
		assert.Equal(t, "image-bytes", string(content))
	})

	t.Run("google doc is exported with rewritten extension", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/files/doc-1", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(fileJSON{
				ID:       "doc-1",
				Name:     "description",
				MimeType: "application/vnd.google-apps.document",
			})
		})
		mux.HandleFunc("/files/doc-1/export", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t,
				"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
				r.URL.Query().Get("mimeType"))
			fmt.Fprint(w, "docx-bytes")
		})

		client := newTestClient(t, mux)

		dest := filepath.Join(t.TempDir(), "description.gdoc")
		got, err := client.Download(context.Background(), "doc-1", dest)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(got, "description.docx"))

		content, err := os.ReadFile(got)
		require.NoError(t, err)
		assert.Equal(t, "docx-bytes", string(content))
	})

	t.Run("missing file surfaces error", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/files/gone", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		client := newTestClient(t, mux)

		_, err := client.Download(context.Background(), "gone", filepath.Join(t.TempDir(), "gone.png"))
		assert.Error(t, err)
	})
}

func TestReplaceExtension(t *testing.T) {
	assert.Equal(t, "a/b.docx", replaceExtension("a/b.gdoc", ".docx"))
	assert.Equal(t, "plain.csv", replaceExtension("plain", ".csv"))
	assert.Equal(t, "keep.png", replaceExtension("keep.png", ""))
}
