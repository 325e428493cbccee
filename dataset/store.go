// Package dataset reads and writes the CSV file that collects submissions.
package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/hasandi22/Final-year-research---Data-Collection/config"
)

// ErrNotFound is returned when the dataset file does not exist yet.
var ErrNotFound = errors.New("dataset file not found")

// Store holds dataset files addressed by repository and path.
type Store interface {
	Download(ctx context.Context, repo, path string) ([]byte, error)
	Upload(ctx context.Context, data []byte, repo, path string) error
}

// NewStore builds the store selected by cfg.DatasetBackend. An unknown backend
// yields an Unavailable store together with the error, so callers can keep
// serving and fail only at submission.
func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.DatasetBackend {
	case config.BackendHub:
		return &HubClient{Token: cfg.HFToken, Endpoint: cfg.HFEndpoint}, nil
	case config.BackendLocal:
		return &LocalStore{Dir: cfg.DatasetLocalDir}, nil
	}
	err := fmt.Errorf("unknown dataset backend %q", cfg.DatasetBackend)
	return Unavailable{Err: err}, err
}

// Unavailable is a Store that fails every call with Err.
type Unavailable struct {
	Err error
}

func (u Unavailable) Download(context.Context, string, string) ([]byte, error) {
	return nil, u.Err
}

func (u Unavailable) Upload(context.Context, []byte, string, string) error {
	return u.Err
}
