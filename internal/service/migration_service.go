package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	fmmodels "spisovka/internal/domain/models/filemanager"
	"spisovka/internal/domain/repositories"
	"spisovka/internal/domain/services"
	"spisovka/internal/service/filemanager"
)

// MigrationService implements the MigrationService interface
type MigrationService struct {
	spisRepo  repositories.SpisRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
	now       func() time.Time
}

// NewMigrationService creates a new batch migration service
func NewMigrationService(
	spisRepo repositories.SpisRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.MigrationService {
	return &MigrationService{
		spisRepo:  spisRepo,
		txManager: txManager,
		logger:    logger,
		now:       time.Now,
	}
}

var categories = []fmmodels.Category{fmmodels.CategoryDocuments, fmmodels.CategoryPhotos}

// MigrateAll migrates every record whose lists are in a legacy shape.
// One record failing does not stop the batch.
func (s *MigrationService) MigrateAll(ctx context.Context, dryRun bool) (*services.MigrationReport, error) {
	ids, err := s.spisRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	report := &services.MigrationReport{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Scanned++

		migrated, err := s.migrateOne(ctx, id, dryRun)
		if err != nil {
			report.Failed++
			s.logger.Error("spis migration failed", "spis_id", id, "error", err)
			continue
		}
		if migrated {
			report.Migrated++
		}
	}

	s.logger.Info("migration finished",
		"scanned", report.Scanned,
		"migrated", report.Migrated,
		"failed", report.Failed,
		"dry_run", dryRun,
	)
	return report, nil
}

func (s *MigrationService) migrateOne(ctx context.Context, id string, dryRun bool) (bool, error) {
	var migrated bool
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		spis, err := s.spisRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		for _, category := range categories {
			raw, err := filemanager.DecodeRaw(spis.Attachments(category))
			if err != nil {
				return fmt.Errorf("%s: %w", category, err)
			}
			if !filemanager.NeedsMigration(raw) {
				continue
			}
			migrated = true

			items := filemanager.Migrate(raw, s.now())
			s.logger.Debug("legacy list found",
				"spis_id", id,
				"category", category,
				"items", len(items),
			)
			if dryRun {
				continue
			}

			data, err := json.Marshal(items)
			if err != nil {
				return fmt.Errorf("encode %s: %w", category, err)
			}
			if err := s.spisRepo.UpdateAttachments(ctx, id, category, data); err != nil {
				return err
			}
		}
		return nil
	})
	return migrated, err
}
