package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBannerExtension(t *testing.T) {
	ext, err := BannerExtension("image/png")
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)

	ext, err = BannerExtension("IMAGE/JPEG; charset=binary")
	require.NoError(t, err)
	assert.Equal(t, ".jpg", ext)

	_, err = BannerExtension("application/pdf")
	assert.Error(t, err)
}

func TestBannerKey(t *testing.T) {
	at := time.Unix(1790000000, 0)
	assert.Equal(t, "banners/e1/1790000000.webp", BannerKey("e1", ".webp", at))
}

func TestPublicURL(t *testing.T) {
	base, err := url.Parse("https://cdn.arena.gg/assets/")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.arena.gg/assets/banners/e1/1.png", publicURL(base, "banners/e1/1.png"))
	assert.Equal(t, "https://cdn.arena.gg/assets/banners/e1/1.png", publicURL(base, "/banners/e1/1.png"))
	assert.Empty(t, publicURL(base, ""))
}

func TestNewCloudflareR2Uploader_RequiresConfig(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{AccountID: "a"})
	assert.Error(t, err)
}

func TestNewCloudflareR2Uploader_PublicURL(t *testing.T) {
	u, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{
		AccountID:       "acct",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "banners",
		PublicBaseURL:   "https://cdn.arena.gg",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.arena.gg/banners/e1/1.png", u.GetPublicURL("banners/e1/1.png"))
}
