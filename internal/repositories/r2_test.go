package repositories

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/dib506676/fast-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testR2Config() config.R2Config {
	return config.R2Config{
		AccountID:       "acct",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY",
		BucketName:      "blog-media",
		Region:          "auto",
		PublicBaseURL:   "https://cdn.example.com",
	}
}

func TestNewR2StoreRequiresConfig(t *testing.T) {
	_, err := NewR2Store(config.R2Config{})
	assert.Error(t, err)
}

func TestPresignURLs(t *testing.T) {
	store, err := NewR2Store(testR2Config())
	require.NoError(t, err)

	raw, err := store.PresignPut(context.Background(), "blogs/1/cover.png", "image/png", 15*time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "acct.r2.cloudflarestorage.com", u.Host)
	assert.Equal(t, "/blog-media/blogs/1/cover.png", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))

	raw, err = store.PresignGet(context.Background(), "blogs/1/cover.png", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, raw, "/blog-media/blogs/1/cover.png")

	assert.Equal(t, "https://cdn.example.com/blogs/1/cover.png", store.PublicURL("blogs/1/cover.png"))
}
