package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps dataset files under Dir/<repo>/<path>.
type LocalStore struct {
	Dir string
}

func (s *LocalStore) file(repo, path string) (string, error) {
	clean := filepath.Clean(filepath.Join(s.Dir, filepath.FromSlash(repo), filepath.FromSlash(path)))
	root := filepath.Clean(s.Dir)
	if clean != root && !strings.HasPrefix(clean, root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes dataset directory", path)
	}
	return clean, nil
}

func (s *LocalStore) Download(_ context.Context, repo, path string) ([]byte, error) {
	name, err := s.file(repo, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s/%s: %w", repo, path, ErrNotFound)
	}
	return data, err
}

// Upload writes data through a temp file and rename so readers never see a partial file.
func (s *LocalStore) Upload(_ context.Context, data []byte, repo, path string) error {
	name, err := s.file(repo, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(name), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
