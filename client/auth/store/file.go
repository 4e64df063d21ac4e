package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

// FileStore persists each session as a JSON document under a base afs URL,
// e.g. file:///home/user/.orders or mem://localhost/orders.
type FileStore struct {
	baseURL string
	fs      afs.Service
}

// NewFileStore creates a Store writing session snapshots under baseURL.
func NewFileStore(baseURL string) *FileStore {
	return &FileStore{baseURL: baseURL, fs: afs.New()}
}

func (f *FileStore) sessionURL(key string) string {
	return url.Join(f.baseURL, key+".json")
}

func (f *FileStore) Load(ctx context.Context, key string) (*Session, error) {
	URL := f.sessionURL(key)
	ok, err := f.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check session %v: %w", URL, err)
	}
	if !ok {
		return nil, nil
	}
	data, err := f.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read session %v: %w", URL, err)
	}
	session := &Session{}
	if err = json.Unmarshal(data, session); err != nil {
		return nil, fmt.Errorf("failed to decode session %v: %w", URL, err)
	}
	return session, nil
}

func (f *FileStore) Save(ctx context.Context, key string, session *Session) error {
	if session == nil {
		return f.Clear(ctx, key)
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return f.fs.Upload(ctx, f.sessionURL(key), 0o600, bytes.NewReader(data))
}

func (f *FileStore) Clear(ctx context.Context, key string) error {
	URL := f.sessionURL(key)
	ok, err := f.fs.Exists(ctx, URL)
	if err != nil || !ok {
		return err
	}
	return f.fs.Delete(ctx, URL)
}
