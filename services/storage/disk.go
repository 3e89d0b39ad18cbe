package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskStorage writes files below Root and serves them under BaseURL. Used
// when Cloudinary is not configured.
type DiskStorage struct {
	Root    string
	BaseURL string
}

func NewDiskStorage(root, baseURL string) (*DiskStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStorage{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStorage) objectPath(publicID string) (string, error) {
	clean := path.Clean("/" + publicID)
	if clean == "/" {
		return "", fmt.Errorf("invalid object id %q", publicID)
	}
	return filepath.Join(s.Root, filepath.FromSlash(clean)), nil
}

func (s *DiskStorage) Upload(ctx context.Context, r io.Reader, folder, name, _ string) (UploadedFile, error) {
	if err := ctx.Err(); err != nil {
		return UploadedFile{}, err
	}
	publicID := strings.TrimPrefix(path.Clean("/"+path.Join(folder, name)), "/")
	dst, err := s.objectPath(publicID)
	if err != nil {
		return UploadedFile{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return UploadedFile{}, fmt.Errorf("failed to create folder: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return UploadedFile{}, fmt.Errorf("failed to write file: %w", err)
	}
	return UploadedFile{URL: s.BaseURL + "/" + publicID, PublicID: publicID}, nil
}

func (s *DiskStorage) Delete(_ context.Context, publicID, _ string) error {
	dst, err := s.objectPath(publicID)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
