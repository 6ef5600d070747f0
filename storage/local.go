package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps blobs as files under a root directory. It exists so
// development and tests do not need S3 credentials. Content types are kept
// in a sidecar .meta file next to each blob.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("local storage directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local storage dir: %w", err)
	}
	return &LocalStore{root: root}, nil
}

type localMeta struct {
	ContentType string `json:"contentType"`
}

// path flattens the key so nested keys stay inside root.
func (s *LocalStore) path(key string) string {
	return filepath.Join(s.root, strings.ReplaceAll(key, "/", "_"))
}

func (s *LocalStore) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	p := s.path(key)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	meta, _ := json.Marshal(localMeta{ContentType: contentType})
	if err := os.WriteFile(p+".meta", meta, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob metadata %s: %w", key, err)
	}
	return "/files/" + key, nil
}

func (s *LocalStore) Get(_ context.Context, key string) ([]byte, string, error) {
	p := s.path(key)
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	var meta localMeta
	if raw, err := os.ReadFile(p + ".meta"); err == nil {
		_ = json.Unmarshal(raw, &meta)
	}
	return data, meta.ContentType, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	p := s.path(key)
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	_ = os.Remove(p + ".meta")
	return nil
}
