package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hirafie/hirafie-backend/internal/domain/pagination"
	"github.com/hirafie/hirafie-backend/internal/domain/post"
)

const (
	createPostSQL = `INSERT INTO posts
	(id, artisan_id, title, description, media, type, price, payment_method, delivery, category, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING created_at, updated_at`

	// Posts are always read populated with the owning artisan's contact.
	postSelectSQL = `SELECT
	p.id, p.artisan_id, p.title, p.description, p.media, p.type, p.price,
	p.payment_method, p.delivery, p.category, p.is_active, p.created_at, p.updated_at,
	u.id, u.first_name, u.last_name, u.email, u.phone
	FROM posts p
	JOIN users u ON u.id = p.artisan_id`

	updatePostSQL = `UPDATE posts SET
	title = $2, description = $3, media = $4, type = $5, price = $6,
	payment_method = $7, delivery = $8, is_active = $9, updated_at = now()
	WHERE id = $1
	RETURNING updated_at`
)

// postSortColumns whitelists the sortable fields of a post listing.
var postSortColumns = map[string]string{
	"title":     "p.title",
	"price":     "p.price",
	"type":      "p.type",
	"category":  "p.category",
	"createdAt": "p.created_at",
}

var _ post.Repository = (*PostRepository)(nil)

// PostRepository implements post.Repository backed by PostgreSQL. Media
// attachments are serialized to JSON for storage in the JSONB column.
type PostRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository returns a PostRepository that uses the given pool.
func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

// Create persists a new post.
func (r *PostRepository) Create(ctx context.Context, p *post.Post) error {
	mediaJSON, err := json.Marshal(mediaOrEmpty(p.Media))
	if err != nil {
		return fmt.Errorf("marshaling post media: %w", err)
	}

	err = r.pool.QueryRow(ctx, createPostSQL,
		p.ID, p.ArtisanID, p.Title, p.Description, mediaJSON, p.Type,
		p.Price, p.PaymentMethod, p.Delivery, p.Category, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating post %q: %w", p.ID, err)
	}
	return nil
}

// Get returns a populated post by id, or post.ErrNotFound.
func (r *PostRepository) Get(ctx context.Context, id string) (*post.Detailed, error) {
	row := r.pool.QueryRow(ctx, postSelectSQL+" WHERE p.id = $1", id)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrNotFound
		}
		return nil, fmt.Errorf("getting post %q: %w", id, err)
	}
	return p, nil
}

// Update persists the mutable fields of a post.
func (r *PostRepository) Update(ctx context.Context, p *post.Post) error {
	mediaJSON, err := json.Marshal(mediaOrEmpty(p.Media))
	if err != nil {
		return fmt.Errorf("marshaling post media: %w", err)
	}

	err = r.pool.QueryRow(ctx, updatePostSQL,
		p.ID, p.Title, p.Description, mediaJSON, p.Type, p.Price,
		p.PaymentMethod, p.Delivery, p.IsActive,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post.ErrNotFound
		}
		return fmt.Errorf("updating post %q: %w", p.ID, err)
	}
	return nil
}

// Delete removes a post row.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting post %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return post.ErrNotFound
	}
	return nil
}

// Paginate returns a page of populated posts matching the filter.
func (r *PostRepository) Paginate(ctx context.Context, filter post.Filter, opts pagination.Options) (*post.Page, error) {
	var b condBuilder
	if filter.ArtisanID != "" {
		b.eq("p.artisan_id", filter.ArtisanID)
	}
	if filter.Type != "" {
		b.eq("p.type", filter.Type)
	}
	if filter.Category != "" {
		b.eq("p.category", filter.Category)
	}
	if filter.PaymentMethod != "" {
		b.eq("p.payment_method", filter.PaymentMethod)
	}
	if filter.Delivery != "" {
		b.eq("p.delivery", filter.Delivery)
	}
	if filter.IsActive != nil {
		b.eq("p.is_active", *filter.IsActive)
	}
	if filter.PriceMin != nil {
		b.cmp("p.price", ">=", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		b.cmp("p.price", "<=", *filter.PriceMax)
	}

	var total int
	countQuery := "SELECT count(*) FROM posts p" + b.where()
	if err := r.pool.QueryRow(ctx, countQuery, b.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting posts: %w", err)
	}

	orderBy := orderByClause(opts.SortBy, postSortColumns, "p.created_at DESC")
	query := fmt.Sprintf("%s%s ORDER BY %s LIMIT %s OFFSET %s",
		postSelectSQL, b.where(), orderBy, b.next(opts.Limit), b.next(opts.Offset()))

	rows, err := r.pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	page := &post.Page{Results: []post.Detailed{}, Meta: pagination.NewMeta(opts, total)}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		page.Results = append(page.Results, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return page, nil
}

// scanPost reads one populated post row.
func scanPost(row pgx.Row) (*post.Detailed, error) {
	var (
		p         post.Detailed
		mediaJSON []byte
	)
	err := row.Scan(
		&p.ID, &p.ArtisanID, &p.Title, &p.Description, &mediaJSON, &p.Type, &p.Price,
		&p.PaymentMethod, &p.Delivery, &p.Category, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&p.Artisan.ID, &p.Artisan.FirstName, &p.Artisan.LastName, &p.Artisan.Email, &p.Artisan.Phone,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(mediaJSON, &p.Media); err != nil {
		return nil, fmt.Errorf("unmarshaling post media: %w", err)
	}
	return &p, nil
}

// mediaOrEmpty keeps the JSONB column a [] instead of null for empty lists.
func mediaOrEmpty(media []post.Media) []post.Media {
	if media == nil {
		return []post.Media{}
	}
	return media
}
