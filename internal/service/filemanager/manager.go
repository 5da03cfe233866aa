package filemanager

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"spisovka/internal/config"
	"spisovka/internal/domain"
	models "spisovka/internal/domain/models/filemanager"
	fm "spisovka/internal/domain/services/filemanager"
	"spisovka/internal/storage"
)

// UnknownAuthor is recorded as creator when the acting user has no name.
const UnknownAuthor = "Neznámy"

const defaultUploadConcurrency = 4

// Manager computes next-states of one attachment list. Every mutation builds
// a fresh list and hands it to the update callback; the in-memory snapshot
// only advances when the callback succeeds.
type Manager struct {
	mu              sync.Mutex
	items           []models.FileItem
	currentFolderID string

	cfg        fm.ManagerConfig
	scope      fm.Scope
	blobs      fm.BlobStore
	compressor fm.Compressor // optional
	onUpdate   fm.UpdateFunc
	refresh    RefreshFunc // optional
	logger     *slog.Logger

	uploadConcurrency int
	now               func() time.Time
	newID             func() string
}

// RefreshFunc loads the current list from its owner. A drop calls it once
// its uploads have finished so the new files land on the latest list.
type RefreshFunc func(ctx context.Context) ([]models.FileItem, error)

// NewManager creates a manager over items. compressor may be nil.
func NewManager(
	items []models.FileItem,
	cfg fm.ManagerConfig,
	scope fm.Scope,
	blobs fm.BlobStore,
	compressor fm.Compressor,
	onUpdate fm.UpdateFunc,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		items:             append([]models.FileItem(nil), items...),
		cfg:               cfg,
		scope:             scope,
		blobs:             blobs,
		compressor:        compressor,
		onUpdate:          onUpdate,
		logger:            logger,
		uploadConcurrency: defaultUploadConcurrency,
		now:               time.Now,
		newID:             uuid.NewString,
	}
}

// SetUploadConcurrency bounds the number of parallel uploads in one drop.
func (m *Manager) SetUploadConcurrency(n int) {
	if n > 0 {
		m.uploadConcurrency = n
	}
}

// SetRefresh installs the loader used by Drop before applying its result.
func (m *Manager) SetRefresh(fn RefreshFunc) {
	m.refresh = fn
}

// Items returns a copy of the current list.
func (m *Manager) Items() []models.FileItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.FileItem(nil), m.items...)
}

// SetItems replaces the list when the owner record changed underneath.
// The current folder falls back to root if it no longer exists.
func (m *Manager) SetItems(items []models.FileItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]models.FileItem(nil), items...)
	if _, ok := newIndex(m.items).folder(m.currentFolderID); !ok {
		m.currentFolderID = models.RootFolderID
	}
}

// CurrentFolderID returns the selected folder, "" for root.
func (m *Manager) CurrentFolderID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentFolderID
}

// Navigate selects folderID. Anything that is not an existing folder
// selects root.
func (m *Manager) Navigate(folderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := newIndex(m.items).folder(folderID); ok {
		m.currentFolderID = folderID
		return
	}
	m.currentFolderID = models.RootFolderID
}

// View returns the current folder, its breadcrumb chain and sorted contents.
func (m *Manager) View() *fm.View {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := CurrentFolder(m.items, m.currentFolderID)
	folderID := models.RootFolderID
	if current != nil {
		folderID = current.ID
	}

	theme := "light"
	if m.cfg.IsDark {
		theme = "dark"
	}

	return &fm.View{
		Category: m.scope.Category,
		Current:  current,
		Chain:    FolderChain(m.items, folderID),
		Contents: FolderContents(m.items, folderID),
		Theme:    theme,
		Locked:   m.cfg.IsLocked,
	}
}

// MoveTargets lists folders the item may be moved into.
func (m *Manager) MoveTargets(itemID string) ([]models.FileItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MoveTargets(m.items, itemID)
}

// CreateFolder appends a folder under the current folder. A blank name is
// a no-op and returns (nil, nil).
func (m *Manager) CreateFolder(ctx context.Context, name string) (*models.FileItem, error) {
	if m.cfg.IsLocked {
		return nil, domain.ErrLocked
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if err := validateFolderName(name); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parentID := models.RootFolderID
	if _, ok := newIndex(m.items).folder(m.currentFolderID); ok {
		parentID = m.currentFolderID
	}

	folder := models.FileItem{
		ID:        m.newID(),
		Type:      models.TypeFolder,
		Name:      name,
		ParentID:  parentID,
		CreatedAt: m.now().UTC(),
		CreatedBy: m.author(),
	}

	next := make([]models.FileItem, 0, len(m.items)+1)
	next = append(next, m.items...)
	next = append(next, folder)
	if err := m.emit(ctx, next); err != nil {
		return nil, err
	}

	m.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
		"record_id", m.scope.RecordID,
		"category", m.scope.Category,
	)
	return &folder, nil
}

// Delete removes itemID together with everything below it. Without
// confirmed it only reports what would be removed, as a
// *domain.ConfirmationRequiredError. Blobs of removed files are deleted
// after the list update, best effort: failures are logged and reported.
func (m *Manager) Delete(ctx context.Context, itemID string, confirmed bool) (*fm.DeleteResult, error) {
	if m.cfg.IsLocked {
		return nil, domain.ErrLocked
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := newIndex(m.items).get(itemID)
	if !ok {
		return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	descendants := Descendants(m.items, itemID)

	if !confirmed {
		return nil, &domain.ConfirmationRequiredError{
			ItemID:        item.ID,
			ItemName:      item.Name,
			AffectedCount: len(descendants) + 1,
		}
	}

	remove := make(map[string]bool, len(descendants)+1)
	remove[itemID] = true
	for _, id := range descendants {
		remove[id] = true
	}

	result := &fm.DeleteResult{
		RemovedIDs: append([]string{itemID}, descendants...),
		BlobErrors: []fm.BlobError{},
	}

	var blobs []models.FileItem
	next := make([]models.FileItem, 0, len(m.items))
	for _, it := range m.items {
		switch {
		case !remove[it.ID]:
			next = append(next, it)
		case !it.IsFolder() && it.StoragePath != "":
			blobs = append(blobs, it)
		}
	}

	name := item.Name
	if err := m.emit(ctx, next); err != nil {
		return nil, err
	}
	if remove[m.currentFolderID] {
		m.currentFolderID = models.RootFolderID
	}

	for _, it := range blobs {
		if err := m.blobs.Delete(ctx, it.StoragePath); err != nil {
			m.logger.Warn("failed to delete blob",
				"item_id", it.ID,
				"storage_path", it.StoragePath,
				"error", err,
			)
			result.BlobErrors = append(result.BlobErrors, fm.BlobError{
				ItemID:      it.ID,
				StoragePath: it.StoragePath,
				Error:       err.Error(),
			})
		}
	}

	result.Notices = append(result.Notices, fm.Notice{
		Level:   fm.NoticeSuccess,
		Message: fmt.Sprintf("„%s“ bolo odstránené", name),
	})
	if len(result.BlobErrors) > 0 {
		result.Notices = append(result.Notices, fm.Notice{
			Level:   fm.NoticeInfo,
			Message: fmt.Sprintf("Niektoré súbory sa nepodarilo odstrániť z úložiska (%d)", len(result.BlobErrors)),
		})
	}

	m.logger.Info("item deleted",
		"id", itemID,
		"removed", len(result.RemovedIDs),
		"blob_errors", len(result.BlobErrors),
		"record_id", m.scope.RecordID,
	)
	return result, nil
}

// Drop uploads files into the current folder. Uploads run concurrently and
// fail independently; successful ones are appended to the list as it is
// once all uploads have finished, in input order. A locked manager ignores
// drops.
func (m *Manager) Drop(ctx context.Context, files []*fm.UploadFile) (*fm.DropResult, error) {
	result := &fm.DropResult{
		Added:  []models.FileItem{},
		Failed: []fm.UploadFailure{},
	}
	if m.cfg.IsLocked || len(files) == 0 {
		return result, nil
	}

	m.mu.Lock()
	parentID := models.RootFolderID
	if _, ok := newIndex(m.items).folder(m.currentFolderID); ok {
		parentID = m.currentFolderID
	}
	m.mu.Unlock()

	author := m.author()
	uploaded := make([]*models.FileItem, len(files))
	failures := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(m.uploadConcurrency)
	for i, file := range files {
		g.Go(func() error {
			item, err := m.upload(ctx, file, parentID, author)
			if err != nil {
				m.logger.Warn("upload failed",
					"name", file.Name,
					"size", file.Size(),
					"record_id", m.scope.RecordID,
					"error", err,
				)
				failures[i] = err
				return nil
			}
			uploaded[i] = item
			return nil
		})
	}
	_ = g.Wait() // workers report through failures

	for i, item := range uploaded {
		if item != nil {
			result.Added = append(result.Added, *item)
			continue
		}
		result.Failed = append(result.Failed, fm.UploadFailure{
			Name:  files[i].Name,
			Error: failures[i].Error(),
		})
		result.Notices = append(result.Notices, fm.Notice{
			Level:   fm.NoticeError,
			Message: fmt.Sprintf("Súbor „%s“ sa nepodarilo nahrať", files[i].Name),
		})
	}

	if len(result.Added) == 0 {
		return result, nil
	}

	var latest []models.FileItem
	if m.refresh != nil {
		var err error
		if latest, err = m.refresh(ctx); err != nil {
			m.logger.Warn("failed to reload attachments before applying drop",
				"record_id", m.scope.RecordID,
				"error", err,
			)
			latest = nil
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if latest != nil {
		m.items = latest
	}
	if _, ok := newIndex(m.items).folder(parentID); !ok && parentID != models.RootFolderID {
		// target folder was deleted while uploading
		for i := range result.Added {
			result.Added[i].ParentID = models.RootFolderID
		}
	}

	next := make([]models.FileItem, 0, len(m.items)+len(result.Added))
	next = append(next, m.items...)
	next = append(next, result.Added...)
	if err := m.emit(ctx, next); err != nil {
		m.discardBlobs(ctx, result.Added)
		return nil, err
	}

	result.Notices = append([]fm.Notice{{
		Level:   fm.NoticeSuccess,
		Message: fmt.Sprintf("Nahraté súbory: %d", len(result.Added)),
	}}, result.Notices...)

	m.logger.Info("files uploaded",
		"added", len(result.Added),
		"failed", len(result.Failed),
		"parent_id", parentID,
		"record_id", m.scope.RecordID,
		"category", m.scope.Category,
	)
	return result, nil
}

func (m *Manager) upload(ctx context.Context, file *fm.UploadFile, parentID, author string) (*models.FileItem, error) {
	if file.Size() == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrValidation)
	}
	if file.Size() > config.MaxUploadSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrValidation, config.MaxUploadSize)
	}

	if m.compressor != nil {
		file = m.compressor.Compress(ctx, file)
	}

	id := m.newID()
	at := m.now()
	storagePath := storage.ObjectPath(m.scope.UserID, m.scope.RecordID, string(m.scope.Category), at, id, file.Name)
	url, err := m.blobs.Upload(ctx, storagePath, file.Data, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", storagePath, err)
	}

	return &models.FileItem{
		ID:          id,
		Type:        models.TypeFile,
		Name:        file.Name,
		ParentID:    parentID,
		CreatedAt:   at.UTC(),
		CreatedBy:   author,
		URL:         url,
		StoragePath: storagePath,
	}, nil
}

// discardBlobs removes blobs uploaded for a drop whose list update failed.
func (m *Manager) discardBlobs(ctx context.Context, items []models.FileItem) {
	for _, item := range items {
		if err := m.blobs.Delete(ctx, item.StoragePath); err != nil {
			m.logger.Warn("failed to discard uploaded blob",
				"storage_path", item.StoragePath,
				"error", err,
			)
		}
	}
}

// Move re-parents itemID under targetFolderID ("" for root). Moves that
// would create a cycle or target a non-folder are rejected with a
// *domain.MoveRejectedError and leave the list unchanged.
func (m *Manager) Move(ctx context.Context, itemID, targetFolderID string) (*fm.MoveResult, error) {
	if m.cfg.IsLocked {
		return nil, domain.ErrLocked
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ValidateMove(m.items, itemID, targetFolderID); err != nil {
		return nil, err
	}

	idx := newIndex(m.items)
	item, _ := idx.get(itemID)
	targetName := "koreňový priečinok"
	if target, ok := idx.folder(targetFolderID); ok {
		targetName = target.Name
	}

	if item.ParentID == targetFolderID {
		return &fm.MoveResult{
			Item: *item,
			Notices: []fm.Notice{{
				Level:   fm.NoticeInfo,
				Message: fmt.Sprintf("„%s“ už je v priečinku %s", item.Name, targetName),
			}},
		}, nil
	}

	next := append([]models.FileItem(nil), m.items...)
	i := idx.byID[itemID]
	next[i].ParentID = targetFolderID
	moved := next[i]

	if err := m.emit(ctx, next); err != nil {
		return nil, err
	}

	m.logger.Info("item moved",
		"id", itemID,
		"target_id", targetFolderID,
		"record_id", m.scope.RecordID,
	)
	return &fm.MoveResult{
		Item: moved,
		Notices: []fm.Notice{{
			Level:   fm.NoticeSuccess,
			Message: fmt.Sprintf("„%s“ presunuté do: %s", moved.Name, targetName),
		}},
	}, nil
}

// UpdateDescription replaces the note on a file.
func (m *Manager) UpdateDescription(ctx context.Context, itemID, description string) (*models.FileItem, error) {
	if m.cfg.IsLocked {
		return nil, domain.ErrLocked
	}
	description = strings.TrimSpace(description)
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := newIndex(m.items)
	item, ok := idx.get(itemID)
	if !ok {
		return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	if item.IsFolder() {
		return nil, fmt.Errorf("%w: folders have no description", domain.ErrValidation)
	}
	if item.Description == description {
		out := *item
		return &out, nil
	}

	next := append([]models.FileItem(nil), m.items...)
	i := idx.byID[itemID]
	next[i].Description = description
	updated := next[i]

	if err := m.emit(ctx, next); err != nil {
		return nil, err
	}
	return &updated, nil
}

// emit hands next to the update callback and adopts it on success.
// Callers hold m.mu.
func (m *Manager) emit(ctx context.Context, next []models.FileItem) error {
	if m.onUpdate != nil {
		if err := m.onUpdate(ctx, next); err != nil {
			return fmt.Errorf("persist attachments: %w", err)
		}
	}
	m.items = next
	return nil
}

func (m *Manager) author() string {
	if name := strings.TrimSpace(m.cfg.User.DisplayName); name != "" {
		return name
	}
	return UnknownAuthor
}
