// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package upload sends product images to a hosted image service and
// returns their public URL. Every call makes at most one outbound upload
// and nothing is retried.
package upload

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"tulasisilks/internal/models"
)

// MaxSize is the largest accepted image (5 MB).
const MaxSize = 5 << 20

var (
	// ErrTooLarge is returned for files above MaxSize.
	ErrTooLarge = errors.New("file exceeds 5 MB")

	// ErrUnsupportedType is returned for anything but JPEG, PNG, WebP or GIF.
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrEmpty is returned for a zero-length file.
	ErrEmpty = errors.New("empty file")
)

// allowedTypes maps accepted sniffed MIME types to file extensions.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// File is an image received from the admin form.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Uploader stores an image and returns where it can be fetched.
type Uploader interface {
	Upload(ctx context.Context, f File) (*models.Image, error)
	Delete(ctx context.Context, publicID string) error
	Name() string
}

// Error is an upload failure with a message fit for the admin UI.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return "Image upload failed: " + e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

func failed(reason string, err error) error {
	return &Error{Reason: reason, Err: err}
}

// Check validates size and sniffs the content type of data. It returns the
// detected MIME type.
func Check(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if len(data) > MaxSize {
		return "", ErrTooLarge
	}
	n := min(len(data), 512)
	contentType := http.DetectContentType(data[:n])
	if _, ok := allowedTypes[contentType]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return contentType, nil
}

// Extension returns the file extension for an accepted MIME type.
func Extension(contentType string) string {
	return allowedTypes[contentType]
}
