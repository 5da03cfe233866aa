package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"spisovka/internal/domain/models"
	"spisovka/internal/domain/repositories"
)

const preferencesColumns = `user_id::text, preferences, created_at, updated_at`

// PostgresUserPreferencesRepository implements the UserPreferencesRepository interface
type PostgresUserPreferencesRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserPreferencesRepository creates a new user preferences repository
func NewUserPreferencesRepository(config *RepositoryConfig) repositories.UserPreferencesRepository {
	return &PostgresUserPreferencesRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanPreferences(row rowScanner, prefs *models.UserPreferences) error {
	return row.Scan(&prefs.UserID, &prefs.Preferences, &prefs.CreatedAt, &prefs.UpdatedAt)
}

// GetByUserID returns nil, nil when nothing is stored. A user id that is not
// a UUID cannot own preferences and is treated the same way.
func (r *PostgresUserPreferencesRepository) GetByUserID(ctx context.Context, userID string) (*models.UserPreferences, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1`, preferencesColumns, r.tables.UserPreferences)

	var prefs models.UserPreferences
	err := scanPreferences(GetExecutor(ctx, r.pool).QueryRow(ctx, query, userID), &prefs)
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user preferences: %w", err)
	}
	return &prefs, nil
}

// Upsert replaces the whole preferences document. Timestamps come from the
// database.
func (r *PostgresUserPreferencesRepository) Upsert(ctx context.Context, prefs *models.UserPreferences) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, preferences, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			preferences = EXCLUDED.preferences,
			updated_at = NOW()
		RETURNING %s
	`, r.tables.UserPreferences, preferencesColumns)

	row := GetExecutor(ctx, r.pool).QueryRow(ctx, query, prefs.UserID, prefs.Preferences)
	if err := scanPreferences(row, prefs); err != nil {
		return fmt.Errorf("upsert user preferences: %w", err)
	}

	r.logger.Debug("user preferences saved", "user_id", prefs.UserID)
	return nil
}
