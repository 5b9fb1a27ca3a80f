// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tulasisilks/internal/imaging"
	"tulasisilks/internal/models"
	"tulasisilks/internal/slug"
)

// ObjectStore is the part of storage.Client the S3 uploader needs.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
}

// S3 stores images in an S3-compatible bucket under
// products/YYYY/MM/<name>-<uuid><ext>, plus a JPEG thumbnail for wide images.
type S3 struct {
	store ObjectStore
	now   func() time.Time
}

// NewS3 wraps an object store.
func NewS3(store ObjectStore) *S3 {
	return &S3{store: store, now: time.Now}
}

// objectKey places an upload under products/YYYY/MM/. The original file
// name, slugged, prefixes the uuid when it has any usable characters.
func objectKey(now time.Time, name, contentType string) string {
	base := slug.Generate(strings.TrimSuffix(name, filepath.Ext(name)))
	id := uuid.New().String()
	if base != "" {
		id = base + "-" + id
	}
	return fmt.Sprintf("products/%d/%02d/%s%s", now.Year(), now.Month(), id, Extension(contentType))
}

// Name identifies the backend.
func (s *S3) Name() string { return "s3" }

// Upload stores the original and, best effort, a thumbnail.
func (s *S3) Upload(ctx context.Context, f File) (*models.Image, error) {
	contentType, err := Check(f.Data)
	if err != nil {
		return nil, failed(err.Error(), err)
	}

	now := s.now()
	key := objectKey(now, f.Name, contentType)

	if err := s.store.Upload(ctx, key, contentType, bytes.NewReader(f.Data), int64(len(f.Data))); err != nil {
		return nil, failed(err.Error(), err)
	}

	img := &models.Image{
		URL:         s.store.FileURL(key),
		PublicID:    key,
		ContentType: contentType,
		SizeBytes:   int64(len(f.Data)),
		CreatedAt:   now,
	}
	if info, err := imaging.Inspect(f.Data); err == nil {
		img.Width, img.Height, img.Format = info.Width, info.Height, info.Format
	}

	// GIFs keep their animation, so no thumbnail.
	if contentType == "image/gif" {
		return img, nil
	}
	thumb, err := imaging.Thumbnail(f.Data, imaging.ThumbMaxWidth)
	if err != nil {
		slog.Warn("thumbnail generation failed", "error", err, "key", key)
		return img, nil
	}
	if thumb == nil {
		return img, nil
	}
	thumbKey := strings.TrimSuffix(key, Extension(contentType)) + "_thumb.jpg"
	if err := s.store.Upload(ctx, thumbKey, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb))); err != nil {
		slog.Warn("thumbnail upload failed", "error", err, "key", thumbKey)
		return img, nil
	}
	img.ThumbURL = s.store.FileURL(thumbKey)
	return img, nil
}

// Delete removes the object stored under publicID.
func (s *S3) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	return s.store.Delete(ctx, publicID)
}
