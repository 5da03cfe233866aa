package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"spisovka/internal/domain"
	"spisovka/internal/domain/models"
	fmmodels "spisovka/internal/domain/models/filemanager"
	"spisovka/internal/domain/repositories"
	"spisovka/internal/domain/services"
	fm "spisovka/internal/domain/services/filemanager"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// memSpisRepo keeps records in memory and records list updates.
type memSpisRepo struct {
	mu      sync.Mutex
	records map[string]*models.Spis
	updates []string // "id/category"
	locks   int
}

func newMemSpisRepo(records ...*models.Spis) *memSpisRepo {
	r := &memSpisRepo{records: map[string]*models.Spis{}}
	for _, s := range records {
		r.records[s.ID] = s
	}
	return r
}

func (r *memSpisRepo) Create(ctx context.Context, spis *models.Spis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	spis.ID = fmt.Sprintf("spis-%d", len(r.records)+1)
	cp := *spis
	r.records[spis.ID] = &cp
	return nil
}

func (r *memSpisRepo) GetByID(ctx context.Context, id, userID string) (*models.Spis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.records[id]
	if !ok || s.UserID != userID {
		return nil, fmt.Errorf("spis %s: %w", id, domain.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (r *memSpisRepo) GetForUpdate(ctx context.Context, id string) (*models.Spis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("spis %s: %w", id, domain.ErrNotFound)
	}
	r.locks++
	cp := *s
	return &cp, nil
}

func (r *memSpisRepo) ListIDs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memSpisRepo) UpdateAttachments(ctx context.Context, id string, category fmmodels.Category, items json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.records[id]
	if !ok {
		return fmt.Errorf("spis %s: %w", id, domain.ErrNotFound)
	}
	s.SetAttachments(category, append(json.RawMessage(nil), items...))
	r.updates = append(r.updates, id+"/"+string(category))
	return nil
}

func (r *memSpisRepo) SetLocked(ctx context.Context, id, userID string, locked bool) (*models.Spis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.records[id]
	if !ok || s.UserID != userID {
		return nil, fmt.Errorf("spis %s: %w", id, domain.ErrNotFound)
	}
	s.Locked = locked
	cp := *s
	return &cp, nil
}

// stored decodes the current list of a category.
func (r *memSpisRepo) stored(id string, category fmmodels.Category) []fmmodels.FileItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []fmmodels.FileItem
	if err := json.Unmarshal(r.records[id].Attachments(category), &items); err != nil {
		panic(err)
	}
	return items
}

var _ repositories.SpisRepository = (*memSpisRepo)(nil)

// txStub runs fn inline and counts transactions.
type txStub struct {
	calls int
}

func (t *txStub) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	t.calls++
	return fn(ctx)
}

var _ repositories.TransactionManager = (*txStub)(nil)

type mockSpisRepo struct{ mock.Mock }

func (m *mockSpisRepo) Create(ctx context.Context, spis *models.Spis) error {
	return m.Called(ctx, spis).Error(0)
}
func (m *mockSpisRepo) GetByID(ctx context.Context, id, userID string) (*models.Spis, error) {
	args := m.Called(ctx, id, userID)
	if v, ok := args.Get(0).(*models.Spis); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSpisRepo) GetForUpdate(ctx context.Context, id string) (*models.Spis, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*models.Spis); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSpisRepo) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]string); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSpisRepo) UpdateAttachments(ctx context.Context, id string, category fmmodels.Category, items json.RawMessage) error {
	return m.Called(ctx, id, category, items).Error(0)
}
func (m *mockSpisRepo) SetLocked(ctx context.Context, id, userID string, locked bool) (*models.Spis, error) {
	args := m.Called(ctx, id, userID, locked)
	if v, ok := args.Get(0).(*models.Spis); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repositories.SpisRepository = (*mockSpisRepo)(nil)

type mockPrefsRepo struct{ mock.Mock }

func (m *mockPrefsRepo) GetByUserID(ctx context.Context, userID string) (*models.UserPreferences, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).(*models.UserPreferences); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPrefsRepo) Upsert(ctx context.Context, prefs *models.UserPreferences) error {
	return m.Called(ctx, prefs).Error(0)
}

var _ repositories.UserPreferencesRepository = (*mockPrefsRepo)(nil)

type mockAuthorizer struct{ mock.Mock }

func (m *mockAuthorizer) CanAccessSpis(ctx context.Context, userID, spisID string) error {
	return m.Called(ctx, userID, spisID).Error(0)
}

var _ services.ResourceAuthorizer = (*mockAuthorizer)(nil)

// memBlobs is an in-memory blob store.
type memBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: map[string][]byte{}}
}

func (b *memBlobs) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if strings.Contains(path, "broken") {
		return "", fmt.Errorf("storage unavailable")
	}
	b.objects[path] = data
	return b.PublicURL(path), nil
}

func (b *memBlobs) Delete(ctx context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, path)
	b.deleted = append(b.deleted, path)
	return nil
}

func (b *memBlobs) PublicURL(path string) string {
	return "https://blobs.test/" + path
}

var _ fm.BlobStore = (*memBlobs)(nil)
