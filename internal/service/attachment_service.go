package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"spisovka/internal/domain"
	"spisovka/internal/domain/models"
	fmmodels "spisovka/internal/domain/models/filemanager"
	"spisovka/internal/domain/repositories"
	"spisovka/internal/domain/services"
	fm "spisovka/internal/domain/services/filemanager"
	"spisovka/internal/service/filemanager"
)

// AttachmentService implements the AttachmentService interface.
//
// Each call builds a filemanager.Manager over the stored list and wires its
// update callback to the spis repository. Pure list edits (create folder,
// move, description) run in a transaction holding the record row. Delete
// and upload talk to the blob store, so they skip the row lock and rely on
// whole-list last-write-wins like the manager itself.
type AttachmentService struct {
	spisRepo          repositories.SpisRepository
	prefs             services.UserPreferencesService
	authorizer        services.ResourceAuthorizer
	txManager         repositories.TransactionManager
	blobs             fm.BlobStore
	compressor        fm.Compressor
	uploadConcurrency int
	logger            *slog.Logger
	now               func() time.Time
}

// NewAttachmentService creates a new attachment service. compressor may be nil.
func NewAttachmentService(
	spisRepo repositories.SpisRepository,
	prefs services.UserPreferencesService,
	authorizer services.ResourceAuthorizer,
	txManager repositories.TransactionManager,
	blobs fm.BlobStore,
	compressor fm.Compressor,
	uploadConcurrency int,
	logger *slog.Logger,
) services.AttachmentService {
	return &AttachmentService{
		spisRepo:          spisRepo,
		prefs:             prefs,
		authorizer:        authorizer,
		txManager:         txManager,
		blobs:             blobs,
		compressor:        compressor,
		uploadConcurrency: uploadConcurrency,
		logger:            logger,
		now:               time.Now,
	}
}

// View returns the contents of folderID. An unknown folder shows root.
func (s *AttachmentService) View(ctx context.Context, t services.AttachmentTarget, folderID string) (*fm.View, error) {
	m, migrated, err := s.open(ctx, t)
	if err != nil {
		return nil, err
	}
	m.Navigate(folderID)

	view := m.View()
	view.Migrated = migrated
	return view, nil
}

// CreateFolder creates a folder under req.FolderID
func (s *AttachmentService) CreateFolder(ctx context.Context, t services.AttachmentTarget, req *fmmodels.CreateFolderRequest) (*fmmodels.FileItem, error) {
	var folder *fmmodels.FileItem
	err := s.withLockedManager(ctx, t, func(ctx context.Context, m *filemanager.Manager) error {
		m.Navigate(req.FolderID)
		var err error
		folder, err = m.CreateFolder(ctx, req.Name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return folder, nil
}

// Upload drops files into folderID
func (s *AttachmentService) Upload(ctx context.Context, t services.AttachmentTarget, folderID string, files []*fm.UploadFile) (*fm.DropResult, error) {
	m, _, err := s.open(ctx, t)
	if err != nil {
		return nil, err
	}
	m.Navigate(folderID)
	m.SetRefresh(func(ctx context.Context) ([]fmmodels.FileItem, error) {
		spis, err := s.spisRepo.GetByID(ctx, t.SpisID, t.User.ID)
		if err != nil {
			return nil, err
		}
		items, _, err := s.decode(spis, t.Category)
		return items, err
	})

	return m.Drop(ctx, files)
}

// UpdateItem moves an item and/or changes its description
func (s *AttachmentService) UpdateItem(ctx context.Context, t services.AttachmentTarget, itemID string, req *fmmodels.UpdateItemRequest) (*services.UpdateItemResult, error) {
	if req.Description == nil && !req.FolderID.Present {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}

	result := &services.UpdateItemResult{Notices: []fm.Notice{}}
	err := s.withLockedManager(ctx, t, func(ctx context.Context, m *filemanager.Manager) error {
		if req.Description != nil {
			item, err := m.UpdateDescription(ctx, itemID, *req.Description)
			if err != nil {
				return err
			}
			result.Item = *item
		}
		if req.FolderID.Present {
			moved, err := m.Move(ctx, itemID, req.FolderID.OrDefault(fmmodels.RootFolderID))
			if err != nil {
				return err
			}
			result.Item = moved.Item
			result.Notices = append(result.Notices, moved.Notices...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes an item and its subtree
func (s *AttachmentService) Delete(ctx context.Context, t services.AttachmentTarget, itemID string, confirmed bool) (*fm.DeleteResult, error) {
	m, _, err := s.open(ctx, t)
	if err != nil {
		return nil, err
	}
	return m.Delete(ctx, itemID, confirmed)
}

// MoveTargets lists folders itemID may be moved into
func (s *AttachmentService) MoveTargets(ctx context.Context, t services.AttachmentTarget, itemID string) ([]fmmodels.FileItem, error) {
	m, _, err := s.open(ctx, t)
	if err != nil {
		return nil, err
	}
	return m.MoveTargets(itemID)
}

// open loads the record owned by the acting user and builds a manager.
func (s *AttachmentService) open(ctx context.Context, t services.AttachmentTarget) (*filemanager.Manager, bool, error) {
	if !t.Category.Valid() {
		return nil, false, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, t.Category)
	}
	spis, err := s.spisRepo.GetByID(ctx, t.SpisID, t.User.ID)
	if err != nil {
		return nil, false, err
	}
	return s.newManager(ctx, spis, t)
}

// withLockedManager runs fn in a transaction holding the record row.
func (s *AttachmentService) withLockedManager(ctx context.Context, t services.AttachmentTarget, fn func(context.Context, *filemanager.Manager) error) error {
	if !t.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, t.Category)
	}
	if err := s.authorizer.CanAccessSpis(ctx, t.User.ID, t.SpisID); err != nil {
		return err
	}

	return s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		spis, err := s.spisRepo.GetForUpdate(ctx, t.SpisID)
		if err != nil {
			return err
		}
		m, _, err := s.newManager(ctx, spis, t)
		if err != nil {
			return err
		}
		return fn(ctx, m)
	})
}

// newManager decodes the stored list and persists a legacy migration
// before handing the manager out.
func (s *AttachmentService) newManager(ctx context.Context, spis *models.Spis, t services.AttachmentTarget) (*filemanager.Manager, bool, error) {
	items, migrated, err := s.decode(spis, t.Category)
	if err != nil {
		return nil, false, err
	}

	persist := s.persister(spis.ID, t.Category)
	if migrated {
		if err := persist(ctx, items); err != nil {
			return nil, false, fmt.Errorf("persist migrated attachments: %w", err)
		}
		s.logger.Info("legacy attachments migrated",
			"spis_id", spis.ID,
			"category", t.Category,
			"items", len(items),
		)
	}

	cfg := fm.ManagerConfig{
		User:     t.User,
		IsLocked: spis.Locked,
	}
	s.applyPreferences(ctx, &cfg)

	scope := fm.Scope{
		UserID:   spis.UserID,
		RecordID: spis.ID,
		Category: t.Category,
	}
	m := filemanager.NewManager(items, cfg, scope, s.blobs, s.compressor, persist, s.logger)
	m.SetUploadConcurrency(s.uploadConcurrency)
	return m, migrated, nil
}

// decode parses the stored list of a category. The bool reports whether
// the list was in a legacy shape.
func (s *AttachmentService) decode(spis *models.Spis, category fmmodels.Category) ([]fmmodels.FileItem, bool, error) {
	raw, err := filemanager.DecodeRaw(spis.Attachments(category))
	if err != nil {
		return nil, false, fmt.Errorf("spis %s %s: %w", spis.ID, category, err)
	}
	return filemanager.Migrate(raw, s.now()), filemanager.NeedsMigration(raw), nil
}

// persister returns the update callback for one attachment list. Lists that
// break an invariant are still saved so that damaged legacy data never
// blocks the user; the violation is logged.
func (s *AttachmentService) persister(spisID string, category fmmodels.Category) fm.UpdateFunc {
	return func(ctx context.Context, items []fmmodels.FileItem) error {
		if items == nil {
			items = []fmmodels.FileItem{}
		}
		if err := filemanager.ValidateItems(items); err != nil {
			s.logger.Warn("saving attachment list with invariant violations",
				"spis_id", spisID,
				"category", category,
				"error", err,
			)
		}

		data, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("encode attachments: %w", err)
		}
		return s.spisRepo.UpdateAttachments(ctx, spisID, category, data)
	}
}

// applyPreferences fills theme and display name from the acting user's
// preferences. Failures fall back to defaults.
func (s *AttachmentService) applyPreferences(ctx context.Context, cfg *fm.ManagerConfig) {
	if s.prefs == nil || cfg.User.ID == "" {
		return
	}
	prefs, err := s.prefs.GetPreferences(ctx, cfg.User.ID)
	if err != nil {
		s.logger.Warn("failed to load preferences, using defaults",
			"user_id", cfg.User.ID,
			"error", err,
		)
		return
	}

	cfg.IsDark = prefs.IsDark()
	if files, err := prefs.GetFiles(); err == nil && files.DisplayName != "" {
		cfg.User.DisplayName = files.DisplayName
	}
}
