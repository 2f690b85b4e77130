// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package media holds the listing image rules shared by the API upload
// endpoint and the terminal client's image picker.
package media

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxImageSize is the upload ceiling for a listing image (5 MiB).
const MaxImageSize int64 = 5 << 20

// MaxImageSizeMB is [MaxImageSize] expressed in megabytes for messages.
const MaxImageSizeMB = int(MaxImageSize >> 20)

var (
	// ErrTooLarge is returned for files over [MaxImageSize].
	ErrTooLarge = errors.New("media: image exceeds size limit")

	// ErrNotImage is returned when the content type is not image/*.
	ErrNotImage = errors.New("media: file is not an image")

	// ErrEmpty is returned for zero-byte files.
	ErrEmpty = errors.New("media: file is empty")
)

// CheckImage validates size and content type.
func CheckImage(size int64, contentType string) error {
	if size <= 0 {
		return ErrEmpty
	}
	if size > MaxImageSize {
		return ErrTooLarge
	}
	if !IsImage(contentType) {
		return ErrNotImage
	}
	return nil
}

// IsImage reports whether contentType names an image media type.
func IsImage(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}

// DetectContentType sniffs head (the first bytes of the file) and falls
// back to the file extension when sniffing is inconclusive.
func DetectContentType(name string, head []byte) string {
	sniffed := http.DetectContentType(head)
	if IsImage(sniffed) {
		return sniffed
	}

	if byExtension := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExtension != "" {
		return byExtension
	}
	return sniffed
}

// Extension returns a file extension (with dot) for an image content type.
func Extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}

	extensions, err := mime.ExtensionsByType(contentType)
	if err != nil || len(extensions) == 0 {
		return ".bin"
	}
	return extensions[0]
}
