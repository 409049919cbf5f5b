package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"procurement/internal/config"
	"procurement/internal/models"

	postgres "procurement/internal/repository/db"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository struct {
	db  *sqlx.DB
	cfg *config.PostgresConfig
}

func NewRepository(db *sqlx.DB, cfg *config.PostgresConfig) (*Repository, error) {
	var err error

	repo := &Repository{
		db:  db,
		cfg: cfg,
	}

	if repo.cfg == nil {
		repo.cfg, err = config.NewPostgresConfig()
		if err != nil {
			return nil, fmt.Errorf("repository.NewRepository: could not load postgres config: %w", err)
		}
	}

	if repo.db == nil {
		repo.db, err = postgres.NewPostgresDB(repo.cfg)
		if err != nil {
			return nil, fmt.Errorf("repository.NewRepository: could not open postgres db: %w", err)
		}
	}

	if repo.cfg.AutoMigrateUp == "true" {
		err = repo.MigrateUp()
		if err != nil {
			return nil, err
		}
	}

	return repo, nil
}

func (repo *Repository) MigrateUp() error {
	err := postgres.MigrateUp(repo.db.DB)
	if err != nil {
		return fmt.Errorf("repository.Repository.MigrateUp: %w", err)
	}
	return nil
}

func (repo *Repository) MigrateDown() error {
	err := postgres.MigrateDown(repo.db.DB)
	if err != nil {
		return fmt.Errorf("repository.Repository.MigrateDown: %w", err)
	}
	return nil
}

func (repo *Repository) Close() error {
	var migErr error
	if repo.cfg.AutoMigrateDown == "true" {
		migErr = repo.MigrateDown()
	}

	err := repo.db.Close()
	return errors.Join(migErr, err)
}

//// Audit recorder

func (repo *Repository) RecordAudit(ctx context.Context, entry models.AuditLog) (models.AuditLog, error) {
	err := repo.addAudit(ctx, nil, entry.UserId, entry.Action, entry.EntityType, entry.EntityId)
	if err != nil {
		return entry, fmt.Errorf("repository.Repository.RecordAudit: %w", err)
	}
	return entry, nil
}

func (repo *Repository) RecentAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	query := `
	SELECT id, user_id, action, entity_type, entity_id, timestamp
	FROM audit_logs
	ORDER BY timestamp DESC, id DESC
	LIMIT $1
	`

	logs := []models.AuditLog{}
	err := repo.db.SelectContext(ctx, &logs, query, limit)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.RecentAuditLogs: %w", err)
	}
	return logs, nil
}

// addAudit appends one audit row, inside tx when one is supplied so the audit
// record commits or rolls back together with the mutation it describes.
func (repo *Repository) addAudit(ctx context.Context, tx *sqlx.Tx, userId int, action, entityType string, entityId int) error {
	query := `
	INSERT INTO audit_logs (user_id, action, entity_type, entity_id)
	VALUES ($1, $2, $3, $4)
	`

	var err error
	if tx == nil {
		_, err = repo.db.ExecContext(ctx, query, userId, action, entityType, entityId)
	} else {
		_, err = tx.ExecContext(ctx, query, userId, action, entityType, entityId)
	}
	if err != nil {
		return mapError(err)
	}
	return nil
}

//// Service

func wrapRollbackErr(tx *sqlx.Tx, err error) error {
	rollerr := tx.Rollback()
	if rollerr == nil {
		return err
	}
	return fmt.Errorf("failed to rollback transaction after previous error: %w, %w", rollerr, err)
}

// mapError translates driver errors into the store's error kinds: unique
// violations become Conflict, missing foreign keys and empty reads NotFound.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", models.ErrConflict, pqErr.Constraint)
		case "23503":
			return fmt.Errorf("%w: %s", models.ErrNotFound, pqErr.Constraint)
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}
