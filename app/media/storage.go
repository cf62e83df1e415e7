// Package media stores uploaded post images on the local filesystem.
package media

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// PostsDir is the directory under the media root that holds post images.
const PostsDir = "posts"

var ErrNotImage = errors.New("upload a valid image. The file you uploaded was either not an image or a corrupted image")

// imageTypes are the raster formats accepted for posts, with the file
// extensions each may be stored under. Vector formats can carry scripts and
// are refused.
var imageTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
	"image/webp": {".webp"},
	"image/bmp":  {".bmp"},
}

// Storage writes files below Root.
type Storage struct {
	Root string
}

func NewStorage(root string) *Storage {
	return &Storage{Root: root}
}

// SavePostImage writes data as posts/<name> and returns that relative path.
// A name already taken gets a short random suffix before the extension.
func (s *Storage) SavePostImage(filename string, data []byte) (string, error) {
	mime := mimetype.Detect(data)
	if !mimetype.EqualsAny(mime.String(), "image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp") {
		return "", ErrNotImage
	}

	name := cleanName(filename)
	if name == "" {
		name = "image" + mime.Extension()
	}
	name = withImageExtension(name, mime)

	dir := filepath.Join(s.Root, PostsDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create media directory: %v", err)
	}

	for attempt := 0; ; attempt++ {
		candidate := name
		if attempt > 0 {
			ext := filepath.Ext(name)
			candidate = fmt.Sprintf("%s_%s%s", strings.TrimSuffix(name, ext), uuid.NewString()[:7], ext)
		}

		f, err := os.OpenFile(filepath.Join(dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) && attempt < 10 {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %v", candidate, err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("write %s: %v", candidate, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %s: %v", candidate, err)
		}
		return path.Join(PostsDir, candidate), nil
	}
}

// Remove deletes a stored file. Missing files are ignored.
func (s *Storage) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// withImageExtension makes sure the stored name is served with the content
// type that was detected, not the one the uploader claimed.
func withImageExtension(name string, mime *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range imageTypes[mime.String()] {
		if ext == allowed {
			return name
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + mime.Extension()
}

// cleanName keeps the base name of an uploaded file with spaces replaced.
func cleanName(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}
