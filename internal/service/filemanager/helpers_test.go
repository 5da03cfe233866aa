package filemanager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	models "spisovka/internal/domain/models/filemanager"
	fm "spisovka/internal/domain/services/filemanager"
)

var testNow = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeBlobStore records uploads and deletes. Names listed in failUploads
// (matched as a path suffix) and paths in failDeletes return errors.
type fakeBlobStore struct {
	mu          sync.Mutex
	uploads     map[string][]byte
	deletes     []string
	failUploads map[string]bool
	failDeletes map[string]bool
	onUpload    func(path string)
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		uploads:     make(map[string][]byte),
		failUploads: make(map[string]bool),
		failDeletes: make(map[string]bool),
	}
}

func (s *fakeBlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if s.onUpload != nil {
		s.onUpload(path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for name := range s.failUploads {
		if strings.HasSuffix(path, name) {
			return "", errors.New("bucket unavailable")
		}
	}
	s.uploads[path] = data
	return s.PublicURL(path), nil
}

func (s *fakeBlobStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, path)
	if s.failDeletes[path] {
		return errors.New("object locked")
	}
	delete(s.uploads, path)
	return nil
}

func (s *fakeBlobStore) PublicURL(path string) string {
	return "https://blobs.test/" + path
}

func (s *fakeBlobStore) deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deletes...)
}

// updateRecorder captures every list passed to the update callback.
type updateRecorder struct {
	mu    sync.Mutex
	lists [][]models.FileItem
	err   error
}

func (r *updateRecorder) update(ctx context.Context, items []models.FileItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.lists = append(r.lists, append([]models.FileItem(nil), items...))
	return nil
}

func (r *updateRecorder) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lists)
}

func (r *updateRecorder) last() []models.FileItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lists) == 0 {
		return nil
	}
	return r.lists[len(r.lists)-1]
}

var testScope = fm.Scope{UserID: "u1", RecordID: "r1", Category: models.CategoryDocuments}

func newTestManager(items []models.FileItem, cfg fm.ManagerConfig, blobs fm.BlobStore, rec *updateRecorder) *Manager {
	m := NewManager(items, cfg, testScope, blobs, nil, rec.update, discardLogger())
	var seq atomic.Int64
	m.newID = func() string { return fmt.Sprintf("id-%d", seq.Add(1)) }
	m.now = func() time.Time { return testNow }
	return m
}

func folder(id, parentID string, createdAt time.Time) models.FileItem {
	return models.FileItem{ID: id, Type: models.TypeFolder, Name: "folder " + id, ParentID: parentID, CreatedAt: createdAt}
}

func file(id, parentID string, createdAt time.Time) models.FileItem {
	return models.FileItem{
		ID:          id,
		Type:        models.TypeFile,
		Name:        id + ".pdf",
		ParentID:    parentID,
		CreatedAt:   createdAt,
		URL:         "https://blobs.test/u1/r1/documents/" + id,
		StoragePath: "u1/r1/documents/" + id,
	}
}

func ids(items []models.FileItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}
