package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	maxFileSize      = 5 * 1024 * 1024
	maxServiceImages = 10
	urlPrefix        = "/api/upload"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Storage writes uploaded images to local disk under baseDir and hands
// out stable URL paths of the form /api/upload/<subdir>/<uuid><ext>.
type Storage struct {
	baseDir string
}

func NewStorage(baseDir string) *Storage {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	return &Storage{baseDir: baseDir}
}

func (s *Storage) BaseDir() string { return s.baseDir }

// Save validates and persists one file, returning its public URL path.
func (s *Storage) Save(fileHeader *multipart.FileHeader, subdir string) (string, error) {
	if fileHeader.Size == 0 {
		return "", ErrEmptyFile
	}
	if fileHeader.Size > maxFileSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return "", ErrInvalidExtension
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(s.baseDir, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	absPath := filepath.Join(dir, filename)

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("write file: %w", err)
	}

	return urlPrefix + "/" + subdir + "/" + filename, nil
}

// Remove deletes the file behind a URL previously returned by Save.
// Missing files are not an error.
func (s *Storage) Remove(url string) {
	rel, ok := strings.CutPrefix(url, urlPrefix+"/")
	if !ok {
		return
	}
	rel = filepath.Clean(rel)
	if strings.HasPrefix(rel, "..") {
		return
	}
	_ = os.Remove(filepath.Join(s.baseDir, rel))
}
