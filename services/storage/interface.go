package storage

import (
	"context"
	"io"
)

// Resource types understood by the backends.
const (
	ResourceImage = "image"
	ResourceRaw   = "raw"
)

// UploadedFile describes a stored object.
type UploadedFile struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// StorageService stores uploaded profile images and documents.
type StorageService interface {
	Upload(ctx context.Context, r io.Reader, folder, name, resourceType string) (UploadedFile, error)
	Delete(ctx context.Context, publicID, resourceType string) error
}
