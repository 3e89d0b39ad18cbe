package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage implements StorageService on Cloudinary.
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStorage(cloudName, apiKey, apiSecret string) (*CloudinaryStorage, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld}, nil
}

func (s *CloudinaryStorage) Upload(ctx context.Context, r io.Reader, folder, name, resourceType string) (UploadedFile, error) {
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       folder,
		PublicID:     name,
		ResourceType: resourceType,
		Overwrite:    api.Bool(true),
	})
	if err != nil {
		return UploadedFile{}, fmt.Errorf("failed to upload file: %w", err)
	}
	if res.Error.Message != "" {
		return UploadedFile{}, fmt.Errorf("cloudinary upload error: %s", res.Error.Message)
	}
	return UploadedFile{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, publicID, resourceType string) error {
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary delete error: %s", res.Error.Message)
	}
	return nil
}
