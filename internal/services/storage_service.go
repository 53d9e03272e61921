package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ukuvago/themeboard/internal/apperrors"
	"github.com/ukuvago/themeboard/internal/config"
)

// Image kinds double as subdirectories of the upload dir.
const (
	ImageKindProjects = "projects"
	ImageKindThemes   = "themes"
	ImageKindTeam     = "team"
)

type StorageService struct {
	config *config.Config
}

func NewStorageService(cfg *config.Config) *StorageService {
	for _, kind := range []string{ImageKindProjects, ImageKindThemes, ImageKindTeam} {
		os.MkdirAll(filepath.Join(cfg.UploadDir, kind), 0755)
	}
	return &StorageService{config: cfg}
}

// AllowedImageExtensions lists valid image extensions
var AllowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MaxImageSize is the maximum allowed image size (5MB)
const MaxImageSize = 5 * 1024 * 1024

// SaveImage stores an uploaded image under kind and returns the public path
// it will be served from, e.g. /uploads/team/1a2b3c4d_1700000000.png.
func (s *StorageService) SaveImage(kind string, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !AllowedImageExtensions[ext] {
		return "", apperrors.Validation(fmt.Sprintf("invalid file type: %s. Allowed: jpg, jpeg, png, gif, webp", ext))
	}

	if file.Size > MaxImageSize {
		return "", apperrors.Validation("file too large. Maximum size is 5MB")
	}

	dir := filepath.Join(s.config.UploadDir, kind)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s_%d%s", uuid.New().String()[:8], time.Now().Unix(), ext)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return path.Join(s.config.UploadPrefix, kind, filename), nil
}

// DeleteImage removes a file previously returned by SaveImage. Paths outside
// the upload prefix are ignored.
func (s *StorageService) DeleteImage(publicPath string) error {
	rel, ok := s.relativePath(publicPath)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(s.config.UploadDir, rel))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// GetImagePath returns the filesystem path for a public image path
func (s *StorageService) GetImagePath(publicPath string) (string, bool) {
	rel, ok := s.relativePath(publicPath)
	if !ok {
		return "", false
	}
	return filepath.Join(s.config.UploadDir, rel), true
}

func (s *StorageService) relativePath(publicPath string) (string, bool) {
	prefix := strings.TrimSuffix(s.config.UploadPrefix, "/") + "/"
	if !strings.HasPrefix(publicPath, prefix) {
		return "", false
	}
	rel := path.Clean(strings.TrimPrefix(publicPath, prefix))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.FromSlash(rel), true
}
