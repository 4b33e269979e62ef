// Package storage keeps recipe images and user avatars in S3-compatible
// object storage. Database rows hold only the object key.
package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/foodgram/internal/common"
	"github.com/google/uuid"
)

// Key prefixes for the two kinds of stored images.
const (
	PrefixRecipeImages = "recipes/images"
	PrefixAvatars      = "users"
)

type ImageStore interface {
	// Put stores img under a fresh key below prefix and returns the key.
	Put(ctx context.Context, prefix string, img *Image) (string, error)
	Delete(ctx context.Context, key string) error
}

// Image is a decoded upload.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// DecodeDataURL parses a "data:image/<fmt>;base64,<payload>" string.
func DecodeDataURL(s string) (*Image, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, common.ErrNoImage
	}

	header, payload, ok := strings.Cut(s, ",")
	if !ok {
		return nil, common.ErrInvalidImage
	}
	header, ok = strings.CutPrefix(header, "data:")
	if !ok {
		return nil, common.ErrInvalidImage
	}
	contentType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return nil, common.ErrInvalidImage
	}
	ext, ok := strings.CutPrefix(contentType, "image/")
	if !ok || ext == "" {
		return nil, common.ErrInvalidImage
	}
	if ext == "jpeg" {
		ext = "jpg"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, common.ErrInvalidImage
	}

	return &Image{Data: data, ContentType: contentType, Ext: ext}, nil
}

// NewKey returns a random object key below prefix.
func NewKey(prefix, ext string) string {
	return fmt.Sprintf("%s/%s.%s", prefix, uuid.New(), ext)
}

// URL joins the public media base with key. An empty key yields "".
func URL(base, key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
