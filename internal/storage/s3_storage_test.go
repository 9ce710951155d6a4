package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/ikkim/storefront-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(baseURL string) *ImageStorage {
	return NewImageStorage(context.Background(), &config.S3Config{
		Region:          "us-east-1",
		Bucket:          "shop-images",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		BaseURL:         baseURL,
	})
}

func TestPresignProductImage(t *testing.T) {
	s := newTestStorage("")

	upload, err := s.PresignProductImage(context.Background(), "Photo.PNG", "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(upload.Key, "products/"))
	assert.True(t, strings.HasSuffix(upload.Key, ".png"))
	assert.Contains(t, upload.UploadURL, "shop-images")
	assert.Contains(t, upload.UploadURL, "X-Amz-Signature")
	assert.Equal(t, "https://shop-images.s3.us-east-1.amazonaws.com/"+upload.Key, upload.FileURL)
}

func TestPresignProductImage_ExtensionFromContentType(t *testing.T) {
	s := newTestStorage("https://cdn.shop.test/")

	upload, err := s.PresignProductImage(context.Background(), "blob", "image/webp")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(upload.Key, ".webp"))
	assert.Equal(t, "https://cdn.shop.test/"+upload.Key, upload.FileURL)
}

func TestPresignProductImage_RejectsNonImages(t *testing.T) {
	s := newTestStorage("")

	_, err := s.PresignProductImage(context.Background(), "doc.pdf", "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}
