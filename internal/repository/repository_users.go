package repository

import (
	"context"
	"errors"
	"fmt"

	"procurement/internal/models"
)

func (repo *Repository) AddUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
	INSERT INTO users (username, password, role, email, full_name)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at, updated_at
	`

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return user, fmt.Errorf("repository.Repository.AddUser: failed to start transaction: %w", err)
	}

	row := tx.QueryRowContext(ctx, query, user.Username, user.Password, user.Role, user.Email, user.FullName)
	err = row.Scan(&user.Id, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return user, fmt.Errorf("repository.Repository.AddUser: %w", wrapRollbackErr(tx, mapError(err)))
	}

	err = repo.addAudit(ctx, tx, user.Id, models.ActionUserRegistered, models.EntityUser, user.Id)
	if err != nil {
		return user, fmt.Errorf("repository.Repository.AddUser: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return user, fmt.Errorf("repository.Repository.AddUser: failed to commit transaction: %w", err)
	}

	return user, nil
}

func (repo *Repository) UserByUsername(ctx context.Context, username string) (models.User, bool, error) {
	var user models.User
	query := `
	SELECT id, username, password, role, email, full_name, created_at, updated_at
	FROM users
	WHERE username = $1
	LIMIT 1
	`

	err := repo.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(mapError(err), models.ErrNotFound) {
			return user, false, nil
		}
		return user, false, fmt.Errorf("repository.Repository.UserByUsername: %w", err)
	}

	return user, true, nil
}

func (repo *Repository) UserById(ctx context.Context, id int) (models.User, bool, error) {
	var user models.User
	query := `
	SELECT id, username, password, role, email, full_name, created_at, updated_at
	FROM users
	WHERE id = $1
	LIMIT 1
	`

	err := repo.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(mapError(err), models.ErrNotFound) {
			return user, false, nil
		}
		return user, false, fmt.Errorf("repository.Repository.UserById: %w", err)
	}

	return user, true, nil
}

func (repo *Repository) Users(ctx context.Context, role models.Role) ([]models.User, error) {
	query := `
	SELECT id, username, password, role, email, full_name, created_at, updated_at
	FROM users
	WHERE $1 = '' OR role = $1
	ORDER BY username
	`

	users := []models.User{}
	err := repo.db.SelectContext(ctx, &users, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.Users: %w", err)
	}
	return users, nil
}
