package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/finbeam/guarantor-intake/internal/model"
	"github.com/finbeam/guarantor-intake/internal/utils"
)

// ErrEmailExists is returned when registration hits the unique email
// constraint.
var ErrEmailExists = errors.New("email already exists")

// UserRepo manages persistence for application users.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userCols = "id, email, name, password_hash, role, is_email_verified, created_at, updated_at"

// Create hashes the password and inserts a user, returning its ID.
// Emails are normalized to lower case before storage.
func (r *UserRepo) Create(ctx context.Context, email, password, name, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash, role) VALUES (?,?,?,?)",
		email, nullable(strings.TrimSpace(name)), hash, role)
	if err != nil {
		// MySQL error 1062 = duplicate entry for a unique key.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email. sql.ErrNoRows is
// passed through so login can treat it as invalid credentials.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id, returning ErrUserNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// List returns a page of users optionally filtered by display-name
// substring and exact role, newest first, plus the total matching
// count. It backs the admin user listing.
func (r *UserRepo) List(ctx context.Context, name, role string, limit, offset int) ([]model.User, int64, error) {
	where := []string{}
	args := []any{}
	if name = strings.TrimSpace(name); name != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(name)+"%")
	}
	if role = strings.TrimSpace(role); role != "" {
		where = append(where, "role = ?")
		args = append(args, role)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + userCols + " FROM users WHERE " + cond + " ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *UserRepo) scanOne(rs rowScanner) (model.User, error) {
	var (
		u    model.User
		name sql.NullString
	)
	err := rs.Scan(&u.ID, &u.Email, &name, &u.PasswordHash, &u.Role,
		&u.IsEmailVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Name = name.String
	return u, nil
}
