package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/adermis/adermis/internal/errors"
	"github.com/adermis/adermis/internal/models"
	"github.com/adermis/adermis/internal/sqlite"
	sqlite3 "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrNoRecord is returned when a lookup matches nothing.
	ErrNoRecord = errors.NewSentinel("no matching record found")
	// ErrDuplicateEmail is returned when registering an email that already has an account.
	ErrDuplicateEmail = errors.NewSentinel("email already registered")
	// ErrInvalidCredentials is returned when email or password do not match.
	ErrInvalidCredentials = errors.NewSentinel("invalid credentials")
)

type UserRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewUserRepository(dbs *sqlite.Database, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		dbs:    dbs,
		logger: logger.With("source", "UserRepository"),
	}
}

// Register creates an account with a bcrypt-hashed password and returns its ID.
func (r *UserRepository) Register(ctx context.Context, email, name, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, errors.Wrap(err, "hash password")
	}

	stmt := `INSERT INTO users (email, name, password_hash) VALUES (@email, @name, @password_hash)`
	result, err := r.dbs.ReadWrite.ExecContext(ctx, stmt,
		sql.Named("email", email),
		sql.Named("name", name),
		sql.Named("password_hash", hash),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && errors.Is(sqliteErr.ExtendedCode, sqlite3.ErrConstraintUnique) {
			return 0, ErrDuplicateEmail
		}
		return 0, errors.Wrap(err, "insert user", slog.String("email", email))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "read inserted user ID")
	}
	return id, nil
}

// Authenticate verifies email and password and returns the user ID on success.
func (r *UserRepository) Authenticate(ctx context.Context, email, password string) (int64, error) {
	var (
		id   int64
		hash []byte
	)
	stmt := `SELECT id, password_hash FROM users WHERE email = @email`
	err := r.dbs.ReadOnly.QueryRowContext(ctx, stmt, sql.Named("email", email)).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInvalidCredentials
		}
		return 0, errors.Wrap(err, "read user credentials")
	}

	if err = bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return 0, ErrInvalidCredentials
		}
		return 0, errors.Wrap(err, "compare password hash")
	}

	return id, nil
}

// Get fetches a user by ID.
func (r *UserRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	var (
		user    models.User
		created string
	)
	stmt := `SELECT id, email, name, password_hash, created_at FROM users WHERE id = @id`
	err := r.dbs.ReadOnly.QueryRowContext(ctx, stmt, sql.Named("id", id)).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&created,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRecord
		}
		return nil, errors.Wrap(err, "read user", slog.Int64("id", id))
	}
	if user.Created, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, errors.Wrap(err, "parse created timestamp")
	}
	return &user, nil
}

// Exists reports whether a user with the given ID exists.
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	stmt := `SELECT EXISTS(SELECT 1 FROM users WHERE id = @id)`
	if err := r.dbs.ReadOnly.QueryRowContext(ctx, stmt, sql.Named("id", id)).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "check user exists")
	}
	return exists, nil
}
