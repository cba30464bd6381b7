package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LocalImageStore keeps images on disk under dir and serves them from
// urlPrefix. Used when Spaces is disabled.
type LocalImageStore struct {
	dir       string
	urlPrefix string
	imageRoot string
	log       *slog.Logger
}

func NewLocalImageStore(dir, urlPrefix, imageRoot string) *LocalImageStore {
	return &LocalImageStore{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		imageRoot: strings.Trim(imageRoot, "/"),
		log:       slog.With(slog.String("service", "local_images")),
	}
}

func (s *LocalImageStore) Put(ctx context.Context, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := imageKey(s.imageRoot, ext)
	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image %s: %w", key, err)
	}
	return key, nil
}

func (s *LocalImageStore) Delete(_ context.Context, ref string) error {
	clean := filepath.Clean("/" + filepath.FromSlash(ref))
	err := os.Remove(filepath.Join(s.dir, clean))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image %s: %w", ref, err)
	}
	return nil
}

func (s *LocalImageStore) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return s.urlPrefix + "/" + strings.TrimPrefix(ref, "/")
}

// Dir is the directory served under the URL prefix.
func (s *LocalImageStore) Dir() string {
	return s.dir
}
