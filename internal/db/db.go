package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tolmol/bidbazaar/internal/models"
)

//go:embed migrations/001_init.sql
var schema string

// DB wraps a PostgreSQL connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB initializes a new database connection pool
func NewDB(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.Pool.Close()
}

// EnsureSchema applies the embedded schema. All statements are
// idempotent, so running it against an initialized database is a no-op.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// CreateUser inserts a new user
func (db *DB) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	user := &models.User{}
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO users (username, email, phone, password_hash, is_service_provider)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, username, email, phone, password_hash, is_service_provider, created_at`,
		u.Username, u.Email, u.Phone, u.PasswordHash, u.IsServiceProvider).Scan(
		&user.ID, &user.Username, &user.Email, &user.Phone, &user.PasswordHash,
		&user.IsServiceProvider, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.getUser(ctx, "username = $1", username)
}

// GetUserByEmail retrieves a user by email
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.getUser(ctx, "email = $1", email)
}

// GetUserByID retrieves a user by id
func (db *DB) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	return db.getUser(ctx, "id = $1", id)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	err := db.Pool.QueryRow(ctx,
		`SELECT id, username, email, phone, password_hash, is_service_provider, created_at
		 FROM users WHERE `+where, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.Phone, &user.PasswordHash,
		&user.IsServiceProvider, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UserExists reports whether a user with the given username or email is
// already registered.
func (db *DB) UserExists(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)",
		username, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// isNoRows unwraps pgx's not-found sentinel so store methods can map it
// to the domain's lookup errors.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
