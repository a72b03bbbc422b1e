// Package storage uploads page images to Supabase Storage.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// UploadResult is the outcome of an image upload. Fallback marks a
// data-URL result returned because object storage was unreachable.
type UploadResult struct {
	URL           string `json:"url"`
	FileName      string `json:"fileName"`
	Fallback      bool   `json:"fallback,omitempty"`
	NaturalWidth  int    `json:"naturalWidth,omitempty"`
	NaturalHeight int    `json:"naturalHeight,omitempty"`
}

// Uploader stores image files and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (*UploadResult, error)
}

const imagesBucket = "images"

// SupabaseUploader pushes objects into a Supabase Storage bucket over
// its REST surface. When the upload fails the image comes back as an
// inline data URL so the author's flow is never blocked by storage.
type SupabaseUploader struct {
	baseURL    string
	serviceKey string
	client     *http.Client
	logger     *slog.Logger
}

// NewSupabaseUploader creates an uploader against a Supabase project.
// A nil client gets a 30 second timeout.
func NewSupabaseUploader(baseURL, serviceKey string, client *http.Client, logger *slog.Logger) *SupabaseUploader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &SupabaseUploader{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		client:     client,
		logger:     logger,
	}
}

// Upload stores the image under a generated object name. The original
// file name only contributes its extension.
func (u *SupabaseUploader) Upload(ctx context.Context, fileName, contentType string, data []byte) (*UploadResult, error) {
	objectName := fmt.Sprintf("%d-%s.%s",
		time.Now().UnixMilli(), randomSuffix(6), extensionOf(fileName))

	width, height := probeDimensions(data)

	if err := u.put(ctx, objectName, contentType, data); err != nil {
		u.logger.Warn("object storage upload failed, falling back to data URL",
			"object", objectName,
			"error", err,
		)
		return &UploadResult{
			URL:           dataURL(contentType, data),
			FileName:      fileName,
			Fallback:      true,
			NaturalWidth:  width,
			NaturalHeight: height,
		}, nil
	}

	return &UploadResult{
		URL:           fmt.Sprintf("%s/storage/v1/object/public/%s/%s", u.baseURL, imagesBucket, objectName),
		FileName:      objectName,
		NaturalWidth:  width,
		NaturalHeight: height,
	}, nil
}

func (u *SupabaseUploader) put(ctx context.Context, objectName, contentType string, data []byte) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", u.baseURL, imagesBucket, objectName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("storage returned %d: %s", resp.StatusCode, body)
	}
	return nil
}

// probeDimensions reads the image header for its natural size. Zero
// values mean the format was not recognized; display sizing then keeps
// its previous values.
func probeDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

func dataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func extensionOf(fileName string) string {
	for i := len(fileName) - 1; i >= 0; i-- {
		if fileName[i] == '.' {
			if ext := fileName[i+1:]; ext != "" {
				return ext
			}
			break
		}
	}
	return "jpg"
}

func randomSuffix(length int) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	out := make([]byte, length)
	for i := range out {
		out[i] = chars[rand.Intn(len(chars))]
	}
	return string(out)
}
