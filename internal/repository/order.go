package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hirafie/hirafie-backend/internal/domain/order"
	"github.com/hirafie/hirafie-backend/internal/domain/pagination"
)

const (
	createOrderSQL = `INSERT INTO orders
	(id, client_id, artisan_id, post_id, description, quantity, total_price,
	 desired_pickup_date, status, payment_status, payment_method, delivery_method, delivery_address)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING created_at, updated_at`

	// Orders are always read populated with the client, artisan, and post
	// projections.
	orderSelectSQL = `SELECT
	o.id, o.client_id, o.artisan_id, o.post_id, o.description, o.quantity,
	o.total_price, o.desired_pickup_date, o.status, o.payment_status,
	o.payment_method, o.delivery_method, o.delivery_address, o.created_at, o.updated_at,
	c.id, c.first_name, c.last_name, c.email, c.phone,
	a.id, a.first_name, a.last_name, a.email, a.phone,
	p.id, p.title, p.description, p.price, p.type, p.media
	FROM orders o
	JOIN users c ON c.id = o.client_id
	JOIN users a ON a.id = o.artisan_id
	JOIN posts p ON p.id = o.post_id`

	// client_id, artisan_id, and post_id are immutable after creation.
	updateOrderSQL = `UPDATE orders SET
	description = $2, desired_pickup_date = $3, status = $4,
	payment_status = $5, total_price = $6, updated_at = now()
	WHERE id = $1
	RETURNING updated_at`
)

// orderSortColumns whitelists the sortable fields of an order listing.
var orderSortColumns = map[string]string{
	"status":        "o.status",
	"paymentStatus": "o.payment_status",
	"totalPrice":    "o.total_price",
	"createdAt":     "o.created_at",
	"updatedAt":     "o.updated_at",
}

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. The
// delivery address is serialized to JSON for storage in the JSONB column.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	addrJSON, err := marshalAddress(o.DeliveryAddress)
	if err != nil {
		return err
	}

	err = r.pool.QueryRow(ctx, createOrderSQL,
		o.ID, o.ClientID, o.ArtisanID, o.PostID, o.Description, o.Quantity,
		o.TotalPrice, o.DesiredPickupDate, o.Status, o.PaymentStatus,
		o.PaymentMethod, o.DeliveryMethod, addrJSON,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// Get returns a populated order by id, or order.ErrNotFound.
func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Detailed, error) {
	row := r.pool.QueryRow(ctx, orderSelectSQL+" WHERE o.id = $1", id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return o, nil
}

// Update persists the mutable fields of an order.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	err := r.pool.QueryRow(ctx, updateOrderSQL,
		o.ID, o.Description, o.DesiredPickupDate, o.Status, o.PaymentStatus, o.TotalPrice,
	).Scan(&o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.ErrNotFound
		}
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	return nil
}

// Delete removes an order row.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Paginate returns a page of populated orders matching the filter.
func (r *OrderRepository) Paginate(ctx context.Context, filter order.Filter, opts pagination.Options) (*order.Page, error) {
	var b condBuilder
	if filter.ClientID != "" {
		b.eq("o.client_id", filter.ClientID)
	}
	if filter.ArtisanID != "" {
		b.eq("o.artisan_id", filter.ArtisanID)
	}
	if filter.PostID != "" {
		b.eq("o.post_id", filter.PostID)
	}
	if filter.Status != "" {
		b.eq("o.status", filter.Status)
	}
	if filter.PaymentStatus != "" {
		b.eq("o.payment_status", filter.PaymentStatus)
	}
	if filter.PaymentMethod != "" {
		b.eq("o.payment_method", filter.PaymentMethod)
	}
	if filter.DeliveryMethod != "" {
		b.eq("o.delivery_method", filter.DeliveryMethod)
	}

	var total int
	countQuery := "SELECT count(*) FROM orders o" + b.where()
	if err := r.pool.QueryRow(ctx, countQuery, b.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting orders: %w", err)
	}

	orderBy := orderByClause(opts.SortBy, orderSortColumns, "o.created_at DESC")
	query := fmt.Sprintf("%s%s ORDER BY %s LIMIT %s OFFSET %s",
		orderSelectSQL, b.where(), orderBy, b.next(opts.Limit), b.next(opts.Offset()))

	rows, err := r.pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	page := &order.Page{Results: []order.Detailed{}, Meta: pagination.NewMeta(opts, total)}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		page.Results = append(page.Results, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return page, nil
}

// scanOrder reads one populated order row.
func scanOrder(row pgx.Row) (*order.Detailed, error) {
	var (
		o         order.Detailed
		addrJSON  []byte
		mediaJSON []byte
	)
	err := row.Scan(
		&o.ID, &o.ClientID, &o.ArtisanID, &o.PostID, &o.Description, &o.Quantity,
		&o.TotalPrice, &o.DesiredPickupDate, &o.Status, &o.PaymentStatus,
		&o.PaymentMethod, &o.DeliveryMethod, &addrJSON, &o.CreatedAt, &o.UpdatedAt,
		&o.Client.ID, &o.Client.FirstName, &o.Client.LastName, &o.Client.Email, &o.Client.Phone,
		&o.Artisan.ID, &o.Artisan.FirstName, &o.Artisan.LastName, &o.Artisan.Email, &o.Artisan.Phone,
		&o.Post.ID, &o.Post.Title, &o.Post.Description, &o.Post.Price, &o.Post.Type, &mediaJSON,
	)
	if err != nil {
		return nil, err
	}
	if addrJSON != nil {
		o.DeliveryAddress = &order.Address{}
		if err := json.Unmarshal(addrJSON, o.DeliveryAddress); err != nil {
			return nil, fmt.Errorf("unmarshaling delivery address: %w", err)
		}
	}
	if err := json.Unmarshal(mediaJSON, &o.Post.Media); err != nil {
		return nil, fmt.Errorf("unmarshaling post media: %w", err)
	}
	return &o, nil
}

// marshalAddress keeps a nil address a SQL NULL rather than a JSON null.
func marshalAddress(a *order.Address) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshaling delivery address: %w", err)
	}
	return data, nil
}
