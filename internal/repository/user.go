package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hirafie/hirafie-backend/internal/domain/pagination"
	"github.com/hirafie/hirafie-backend/internal/domain/user"
)

const (
	createUserSQL = `INSERT INTO users
	(id, first_name, last_name, email, phone, password_hash, role, category, is_email_verified)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at`

	userColumns = `id, first_name, last_name, email, phone, password_hash,
	role, category, is_email_verified, created_at, updated_at`

	updateUserSQL = `UPDATE users SET
	first_name = $2, last_name = $3, email = $4, phone = $5,
	password_hash = $6, category = $7, is_email_verified = $8, updated_at = now()
	WHERE id = $1
	RETURNING updated_at`
)

// userSortColumns whitelists the sortable fields of a user listing.
var userSortColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"role":      "role",
	"category":  "category",
	"createdAt": "created_at",
}

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create persists a new user. A duplicate email maps to user.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.pool.QueryRow(ctx, createUserSQL,
		u.ID, u.FirstName, u.LastName, u.Email, u.Phone,
		u.PasswordHash, u.Role, u.Category, u.IsEmailVerified,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("creating user %q: %w", u.ID, err)
	}
	return nil
}

// GetByID returns a user by id, or user.ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail returns a user by email, or user.ErrNotFound.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*user.User, error) {
	var u user.User
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s = $1", userColumns, column)
	err := r.pool.QueryRow(ctx, query, value).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Role, &u.Category, &u.IsEmailVerified, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user by %s: %w", column, err)
	}
	return &u, nil
}

// Update persists the mutable fields of a user.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	err := r.pool.QueryRow(ctx, updateUserSQL,
		u.ID, u.FirstName, u.LastName, u.Email, u.Phone,
		u.PasswordHash, u.Category, u.IsEmailVerified,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("updating user %q: %w", u.ID, err)
	}
	return nil
}

// Delete removes a user row.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting user %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

// Paginate returns a page of users matching the filter.
func (r *UserRepository) Paginate(ctx context.Context, filter user.Filter, opts pagination.Options) (*user.Page, error) {
	var b condBuilder
	if filter.Role != "" {
		b.eq("role", filter.Role)
	}
	if filter.Category != "" {
		b.eq("category", filter.Category)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM users"+b.where(), b.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}

	orderBy := orderByClause(opts.SortBy, userSortColumns, "created_at DESC")
	query := fmt.Sprintf("SELECT %s FROM users%s ORDER BY %s LIMIT %s OFFSET %s",
		userColumns, b.where(), orderBy, b.next(opts.Limit), b.next(opts.Offset()))

	rows, err := r.pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	page := &user.Page{Results: []user.User{}, Meta: pagination.NewMeta(opts, total)}
	for rows.Next() {
		var u user.User
		if err := rows.Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.PasswordHash,
			&u.Role, &u.Category, &u.IsEmailVerified, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		page.Results = append(page.Results, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return page, nil
}
