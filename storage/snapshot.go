package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// UploadResult describes a stored object. Location is its public URL.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores published documents in an object store.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// StandingsSnapshotKey is the object key of a tournament's published standings.
func StandingsSnapshotKey(tournamentID int) string {
	return fmt.Sprintf("tournaments/%d/standings.json", tournamentID)
}

// UploadJSON marshals v and stores it under key.
func UploadJSON(ctx context.Context, uploader FileUploader, key string, v interface{}) (*UploadResult, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
}
