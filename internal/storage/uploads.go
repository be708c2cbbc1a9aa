package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/spec-kit/garage-scheduler/internal/config"
)

// UploadStore saves profile images on local disk. The rest of the system
// only ever sees the stored filename.
type UploadStore struct {
	dir          string
	defaultImage string
}

// NewUploadStore creates the store and its directory.
func NewUploadStore(cfg config.UploadConfig) (*UploadStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadStore{dir: cfg.Dir, defaultImage: cfg.DefaultImage}, nil
}

// DefaultImage is the filename used when no image was uploaded.
func (s *UploadStore) DefaultImage() string {
	return s.defaultImage
}

// SaveProfileImage writes the uploaded file under a fresh name and returns
// the stored filename. The original name is discarded except its extension.
func (s *UploadStore) SaveProfileImage(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return name, nil
}
