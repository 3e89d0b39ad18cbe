package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"homeserve/services/apperr"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

var (
	imageTypes    = []string{"image/jpeg", "image/png", "image/webp", "image/heic"}
	documentTypes = append(append([]string{}, imageTypes...), "application/pdf")
)

// upload is a multipart file read into memory with its sniffed type.
type upload struct {
	Data     []byte
	MimeType string
}

func (u upload) Reader() io.Reader { return bytes.NewReader(u.Data) }

// readUpload reads the multipart field, enforcing maxBytes and checking the
// content type from the file bytes rather than the client header.
func readUpload(c *gin.Context, field string, maxBytes int64, allowed []string) (*upload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+1<<20)
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, apperr.Validation(field, "multipart file is required")
	}
	if fh.Size > maxBytes {
		return nil, apperr.Validation(field, "file exceeds %d MB", maxBytes>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, apperr.Validation(field, "file exceeds %d MB", maxBytes>>20)
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowed...) {
		return nil, apperr.Validation(field, "unsupported file type %s", mt.String())
	}
	return &upload{Data: data, MimeType: mt.String()}, nil
}
