package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores public assets such as event banners.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

var bannerTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// BannerExtension returns the file extension for an accepted banner type.
func BannerExtension(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("invalid content type %q: %w", contentType, err)
	}
	ext, ok := bannerTypes[strings.ToLower(mediaType)]
	if !ok {
		return "", fmt.Errorf("unsupported banner type %q", mediaType)
	}
	return ext, nil
}

// BannerKey builds the object key of an event banner. The timestamp keeps
// CDN caches from serving a replaced image.
func BannerKey(eventID, ext string, at time.Time) string {
	return fmt.Sprintf("banners/%s/%d%s", eventID, at.Unix(), ext)
}
