package worker

import (
	"context"
	"fmt"
	"io"
	"time"

	"homeserve/models"
	"homeserve/services/apperr"
	"homeserve/services/storage"

	"github.com/google/uuid"
)

var documentTypes = map[string]bool{
	"id_card":     true,
	"certificate": true,
	"license":     true,
	"other":       true,
}

// AddDocument uploads a verification document. mimeType has been sniffed
// by the caller.
func (s *DefaultWorkerService) AddDocument(ctx context.Context, workerID, docType, mimeType string, file io.Reader) (*models.Document, error) {
	if docType == "" {
		docType = "other"
	}
	if !documentTypes[docType] {
		return nil, apperr.Validation("type", "unknown document type %q", docType)
	}
	if _, err := s.Repo.GetByID(ctx, workerID); err != nil {
		return nil, err
	}

	resource := storage.ResourceImage
	if mimeType == "application/pdf" {
		resource = storage.ResourceRaw
	}
	id := uuid.New().String()
	uploaded, err := s.Storage.Upload(ctx, file, "documents/"+workerID, id, resource)
	if err != nil {
		return nil, err
	}

	doc := models.Document{
		ID:         id,
		Type:       docType,
		URL:        uploaded.URL,
		PublicID:   uploaded.PublicID,
		MimeType:   mimeType,
		UploadedAt: time.Now(),
	}
	if err := s.Repo.AddDocument(ctx, workerID, doc); err != nil {
		return nil, fmt.Errorf("failed to attach document: %w", err)
	}
	return &doc, nil
}
