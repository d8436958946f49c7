package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/fitlife/internal/models"
)

const userColumns = `id, username, email, first_name, last_name, gender, image, password_hash`

// FindByUsername returns the user with the given username, or nil.
func (db *DB) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// FindByEmail returns the user with the given email, or nil.
func (db *DB) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (db *DB) findUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email,
		&u.FirstName, &u.LastName, &u.Gender, &u.Image, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// Insert stores a user. A zero ID is replaced by the highest existing ID
// plus one.
func (db *DB) Insert(ctx context.Context, u models.User) (models.User, error) {
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (id, username, email, first_name, last_name, gender, image, password_hash)
		VALUES (COALESCE(NULLIF($1, 0), (SELECT COALESCE(MAX(id), 0) + 1 FROM users)), $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Gender, u.Image, u.PasswordHash).Scan(&u.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("inserting user: %w", err)
	}
	return u, nil
}
