package storage

import (
	"context"
	"errors"
	"time"

	vaultapp "github.com/vivenda/backend/internal/application/vault"
)

// StubFileStorage is a placeholder FileStorage for development. URLs point
// at a fake host and no objects are actually stored or deleted.
type StubFileStorage struct {
	// BaseURL is the base URL for generated upload/download URLs
	BaseURL string
}

// NewStubFileStorage creates a new StubFileStorage
func NewStubFileStorage() *StubFileStorage {
	return &StubFileStorage{
		BaseURL: "https://storage.example.com",
	}
}

var _ vaultapp.FileStorage = (*StubFileStorage)(nil)

// PresignUpload generates a stub upload URL
func (s *StubFileStorage) PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expires)
	return s.BaseURL + "/upload/" + key + "?expires=" + expiresAt.Format(time.RFC3339), nil
}

// PresignDownload generates a stub download URL
func (s *StubFileStorage) PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expires)
	return s.BaseURL + "/download/" + key + "?expires=" + expiresAt.Format(time.RFC3339), nil
}

// Delete is a no-op stub that always succeeds
func (s *StubFileStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	return nil
}
