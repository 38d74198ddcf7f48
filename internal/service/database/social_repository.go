package database

import (
	"context"
	"fmt"

	"github.com/kapu/symbol-social-metadata-go/internal/domain"
	"go.uber.org/zap"
)

const createSocialMetadataTable = `
	CREATE TABLE IF NOT EXISTS social_metadata (
		id             TEXT PRIMARY KEY,
		url            TEXT NOT NULL,
		name           TEXT NOT NULL,
		image_url      TEXT NOT NULL DEFAULT '',
		namespace      TEXT NOT NULL DEFAULT '',
		source_address TEXT NOT NULL,
		target_address TEXT NOT NULL,
		fetched_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

const insertSocialMetadata = `
	INSERT INTO social_metadata (id, url, name, image_url, namespace, source_address, target_address)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// SocialMetadataRepository mirrors the latest fetched list into PostgreSQL.
type SocialMetadataRepository struct {
	postgres *PostgresService
	logger   *zap.Logger
}

func NewSocialMetadataRepository(postgres *PostgresService, logger *zap.Logger) *SocialMetadataRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SocialMetadataRepository{
		postgres: postgres,
		logger:   logger,
	}
}

func (r *SocialMetadataRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.postgres.GetDB().ExecContext(ctx, createSocialMetadataTable); err != nil {
		return fmt.Errorf("failed to create social_metadata table: %w", err)
	}
	return nil
}

// ReplaceAll swaps the table contents for entries in a single transaction.
// Ids are positional per fetch, so rows are never merged with a previous fetch.
func (r *SocialMetadataRepository) ReplaceAll(ctx context.Context, entries []domain.SocialMetadataEntry) error {
	tx, err := r.postgres.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM social_metadata`); err != nil {
		return fmt.Errorf("failed to clear social_metadata: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSocialMetadata)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.ID, e.URL, e.Name, e.ImageURL, e.Namespace, e.SourceAddress, e.TargetAddress); err != nil {
			return fmt.Errorf("failed to insert %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit social_metadata: %w", err)
	}

	r.logger.Info("Social metadata exported", zap.Int("rows", len(entries)))
	return nil
}

func (r *SocialMetadataRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.postgres.GetDB().QueryRowContext(ctx, `SELECT COUNT(*) FROM social_metadata`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count social_metadata: %w", err)
	}
	return count, nil
}
