package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/health-record/internal/model"
)

// UserRepo provides access to the `users` table.  It implements the user
// directory the session manager resolves identities against: lookups always
// hit the database so that a deleted or altered account takes effect on the
// very next request.
type UserRepo struct{ db *sql.DB }

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a user with an already-hashed password and returns the
// stored record.  Password hashing is the credential hasher's job; this
// layer never sees a plaintext password.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash string, fullName *string, dateOfBirth *time.Time) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, full_name, date_of_birth) VALUES (?,?,?,?)",
		email, passwordHash, fullName, dateOfBirth)
	if err != nil {
		// MySQL error 1062: duplicate entry for the unique email index.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.FindByID(ctx, uint64(id))
}

// FindByEmail fetches a user by normalized email.  Returns ErrNotFound
// when no such user exists.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT id,email,password_hash,full_name,date_of_birth,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email))
}

// FindByID fetches a user by id.  Returns ErrNotFound when no such user exists.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT id,email,password_hash,full_name,date_of_birth,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id))
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.DateOfBirth, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}
