package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dib506676/fast-api/internal/apperr"
	"github.com/google/uuid"
)

const (
	uploadURLTTL   = 15 * time.Minute
	downloadURLTTL = 15 * time.Minute
)

// MediaStore is the object storage behind blog attachments.
type MediaStore interface {
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
	PublicURL(key string) string
	Exists(ctx context.Context, key string) (bool, error)
}

type MediaUpload struct {
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MediaService hands out presigned URLs for files attached to a blog. Only
// the blog's creator may upload.
type MediaService struct {
	store MediaStore
	blogs *BlogService
}

func NewMediaService(store MediaStore, blogs *BlogService) *MediaService {
	return &MediaService{store: store, blogs: blogs}
}

func mediaKey(blogID uint, name string) string {
	return fmt.Sprintf("blogs/%d/%s", blogID, name)
}

// cleanFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with '_'.
func cleanFilename(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if len(out) > 128 {
		out = out[len(out)-128:]
	}
	return out
}

func (s *MediaService) PresignUpload(ctx context.Context, blogID, actingUserID uint, filename, contentType string) (*MediaUpload, error) {
	if _, err := s.blogs.Owned(ctx, blogID, actingUserID); err != nil {
		return nil, err
	}
	clean := cleanFilename(filename)
	if clean == "" {
		return nil, apperr.New(apperr.CodeInvalid, "filename is required")
	}
	name := uuid.NewString() + "-" + clean
	key := mediaKey(blogID, name)

	url, err := s.store.PresignPut(ctx, key, contentType, uploadURLTTL)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "presign upload")
	}
	return &MediaUpload{
		Name:      name,
		Key:       key,
		UploadURL: url,
		ExpiresAt: time.Now().Add(uploadURLTTL),
	}, nil
}

// DownloadURL resolves an uploaded file of an existing blog to a URL the
// client can fetch: the public CDN address when configured, a presigned GET
// otherwise.
func (s *MediaService) DownloadURL(ctx context.Context, blogID uint, name string) (string, error) {
	blog, err := s.blogs.Get(ctx, blogID)
	if err != nil {
		return "", err
	}
	if blog == nil {
		return "", blogNotFound(blogID)
	}
	if name == "" || cleanFilename(name) != name {
		return "", apperr.New(apperr.CodeNotFound, "File not found")
	}
	key := mediaKey(blogID, name)

	ok, err := s.store.Exists(ctx, key)
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeInternal, "check media")
	}
	if !ok {
		return "", apperr.New(apperr.CodeNotFound, "File not found")
	}
	if public := s.store.PublicURL(key); public != "" {
		return public, nil
	}
	url, err := s.store.PresignGet(ctx, key, downloadURLTTL)
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeInternal, "presign download")
	}
	return url, nil
}
