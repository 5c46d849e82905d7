package drive

import "strings"

// Folder is a remote content folder, fetched fresh each run.
type Folder struct {
	ID   string
	Name string
}

// File is a remote file with just enough metadata to classify it.
type File struct {
	ID       string
	Name     string
	MimeType string
}

// descriptionPrefix marks a document as the folder's description file.
const descriptionPrefix = "desc"

var imageExtensions = []string{
	".jpg", ".jpeg", ".png", ".webp", ".gif", ".bmp",
	".tiff", ".svg", ".heif", ".ico", ".jfif",
	".mp4", ".avi", ".mov", ".wmv", ".mkv", ".flv", ".webm",
	".mp3", ".wav", ".aac", ".ogg",
}

var descriptionExtensions = []string{
	".txt", ".rtf", ".doc", ".docx", ".pdf", ".odt",
	".md", ".markdown", ".csv", ".html", ".xml", ".json",
}

// IsImage reports whether a file name looks like postable media.
// Matching is case-insensitive.
func IsImage(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// IsDescription reports whether a file name looks like a description file:
// a document whose name starts with "desc" (covering "descrip" and
// "description"). Matching is case-insensitive.
func IsDescription(name string) bool {
	lower := strings.ToLower(name)
	if !strings.HasPrefix(lower, descriptionPrefix) {
		return false
	}
	for _, ext := range descriptionExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ClassifyFiles splits a folder listing into images and description files.
func ClassifyFiles(files []File) (images, descriptions []File) {
	for _, f := range files {
		switch {
		case IsDescription(f.Name):
			descriptions = append(descriptions, f)
		case IsImage(f.Name):
			images = append(images, f)
		}
	}
	return images, descriptions
}
