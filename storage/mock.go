package storage

import (
	"context"
	"io"
	"net/url"
	"sync"
)

// MemoryUploader keeps uploaded objects in memory. Used by tests and when
// running without R2 credentials in development.
type MemoryUploader struct {
	mu      sync.Mutex
	base    *url.URL
	objects map[string][]byte
	types   map[string]string
	// Err, when set, is returned by every Upload.
	Err error
}

func NewMemoryUploader(publicBaseURL string) *MemoryUploader {
	base, _ := url.Parse(publicBaseURL)
	return &MemoryUploader{
		base:    base,
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (m *MemoryUploader) Upload(_ context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.objects[key] = body
	m.types[key] = contentType
	m.mu.Unlock()
	return &UploadResult{Key: key, Location: m.GetPublicURL(key)}, nil
}

func (m *MemoryUploader) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.types, key)
	return nil
}

func (m *MemoryUploader) GetPublicURL(key string) string {
	return publicURL(m.base, key)
}

// Object returns the stored body and content type of key.
func (m *MemoryUploader) Object(key string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, ok := m.objects[key]
	return body, m.types[key], ok
}
