package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"spisovka/internal/domain"
	"spisovka/internal/domain/models"
	"spisovka/internal/domain/models/filemanager"
	"spisovka/internal/domain/repositories"
)

const spisColumns = `id::text, user_id::text, name, locked, documents, photos, created_at, updated_at`

// PostgresSpisRepository implements the SpisRepository interface
type PostgresSpisRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewSpisRepository creates a new spis repository
func NewSpisRepository(config *RepositoryConfig) repositories.SpisRepository {
	return &PostgresSpisRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpis(row rowScanner) (*models.Spis, error) {
	var s models.Spis
	var documents, photos []byte
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.Locked,
		&documents,
		&photos,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.Documents = json.RawMessage(documents)
	s.Photos = json.RawMessage(photos)
	return &s, nil
}

// Create creates a new spis record
func (r *PostgresSpisRepository) Create(ctx context.Context, spis *models.Spis) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, locked, documents, photos, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text, created_at, updated_at
	`, r.tables.Spisy)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		spis.UserID,
		spis.Name,
		spis.Locked,
		jsonbList(spis.Documents),
		jsonbList(spis.Photos),
		spis.CreatedAt,
		spis.UpdatedAt,
	).Scan(&spis.ID, &spis.CreatedAt, &spis.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("spis '%s' already exists", spis.Name),
				ResourceType: "spis",
			}
		}
		return fmt.Errorf("create spis: %w", err)
	}

	return nil
}

// GetByID retrieves a spis owned by userID
func (r *PostgresSpisRepository) GetByID(ctx context.Context, id, userID string) (*models.Spis, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, spisColumns, r.tables.Spisy)

	spis, err := scanSpis(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, notFoundOr(err, "spis", id)
	}
	return spis, nil
}

// GetForUpdate retrieves a spis and locks its row
func (r *PostgresSpisRepository) GetForUpdate(ctx context.Context, id string) (*models.Spis, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
		FOR UPDATE
	`, spisColumns, r.tables.Spisy)

	spis, err := scanSpis(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "spis", id)
	}
	return spis, nil
}

// ListIDs returns every spis id, oldest first
func (r *PostgresSpisRepository) ListIDs(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT id::text FROM %s ORDER BY created_at, id`, r.tables.Spisy)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list spis ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan spis id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spis ids: %w", err)
	}
	return ids, nil
}

// UpdateAttachments replaces the attachment list of one category
func (r *PostgresSpisRepository) UpdateAttachments(ctx context.Context, id string, category filemanager.Category, items json.RawMessage) error {
	var column string
	switch category {
	case filemanager.CategoryDocuments:
		column = "documents"
	case filemanager.CategoryPhotos:
		column = "photos"
	default:
		return fmt.Errorf("unknown attachment category %q: %w", category, domain.ErrValidation)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Spisy, column)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query, jsonbList(items), id)
	if err != nil {
		return notFoundOr(err, "spis", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("spis %s: %w", id, domain.ErrNotFound)
	}

	r.logger.Debug("attachments updated", "spis_id", id, "category", category, "bytes", len(items))
	return nil
}

// SetLocked sets the read-only flag of a spis
func (r *PostgresSpisRepository) SetLocked(ctx context.Context, id, userID string, locked bool) (*models.Spis, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET locked = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING %s
	`, r.tables.Spisy, spisColumns)

	spis, err := scanSpis(GetExecutor(ctx, r.pool).QueryRow(ctx, query, locked, id, userID))
	if err != nil {
		return nil, notFoundOr(err, "spis", id)
	}
	return spis, nil
}

// jsonbList encodes a raw list for a JSONB parameter. Empty means [].
func jsonbList(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("[]")
	}
	return []byte(raw)
}

// notFoundOr maps missing rows and malformed ids to domain.ErrNotFound.
func notFoundOr(err error, resource, id string) error {
	if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
		return fmt.Errorf("%s %s: %w", resource, id, domain.ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", resource, id, err)
}
