package post

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/hirafie/hirafie-backend/internal/domain/pagination"
	"github.com/hirafie/hirafie-backend/internal/domain/user"
)

// Sentinel errors for post resolution and mutation.
var (
	ErrNotFound      = errors.New("post not found")
	ErrInactive      = errors.New("post is no longer active")
	ErrForbidden     = errors.New("forbidden")
	ErrMediaNotFound = errors.New("media not found in post")
)

// ValidationError reports a structurally invalid post input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Type distinguishes a direct sale from a made-to-order offering.
type Type string

const (
	TypeSale   Type = "vente"
	TypeCustom Type = "commande"
)

// Valid reports whether the type is known.
func (t Type) Valid() bool {
	return t == TypeSale || t == TypeCustom
}

// PaymentMethod is how the artisan accepts payment for this offering.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

// Valid reports whether the payment method is known.
func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentOnline
}

// DeliveryOption is whether the artisan delivers or the client picks up.
type DeliveryOption string

const (
	DeliveryAvailable  DeliveryOption = "available"
	DeliveryPickupOnly DeliveryOption = "pickup_only"
)

// Valid reports whether the delivery option is known.
func (d DeliveryOption) Valid() bool {
	return d == DeliveryAvailable || d == DeliveryPickupOnly
}

// MediaKind is the stored media type.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Media is one attachment on a post. PublicID is the opaque reference in the
// remote media store; remote content is always removed before the reference
// is dropped from the post.
type Media struct {
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	Kind     MediaKind `json:"kind"`
	PublicID string    `json:"publicId"`
}

// Post is an artisan's offering. Price is snapshotted into orders at creation
// time; changing it later never recomputes existing orders.
type Post struct {
	ID            string
	ArtisanID     string
	Title         string
	Description   string
	Media         []Media
	Type          Type
	Price         decimal.Decimal
	PaymentMethod PaymentMethod
	Delivery      DeliveryOption
	Category      user.Category
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Card is the projection of a post embedded in populated orders.
type Card struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Type        Type            `json:"type"`
	Media       []Media         `json:"media"`
}

// Card returns the order-embedded projection of the post.
func (p *Post) Card() Card {
	return Card{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Type:        p.Type,
		Media:       p.Media,
	}
}

// Detailed is a post populated with its artisan's contact details.
type Detailed struct {
	Post
	Artisan user.Contact `json:"artisan"`
}

// Filter narrows a post listing.
type Filter struct {
	ArtisanID     string
	Type          Type
	Category      user.Category
	PaymentMethod PaymentMethod
	Delivery      DeliveryOption
	IsActive      *bool
	PriceMin      *decimal.Decimal
	PriceMax      *decimal.Decimal
}

// Page is one page of posts with its metadata.
type Page struct {
	Results []Detailed `json:"results"`
	pagination.Meta
}

// Repository defines persistence operations for posts.
type Repository interface {
	Create(ctx context.Context, p *Post) error
	Get(ctx context.Context, id string) (*Detailed, error)
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error
	Paginate(ctx context.Context, filter Filter, opts pagination.Options) (*Page, error)
}

// ResolveForOrder loads a post for order creation: it fails with ErrNotFound
// when absent and ErrInactive when the post is soft-excluded from new orders.
func ResolveForOrder(ctx context.Context, repo Repository, id string) (*Detailed, error) {
	p, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrInactive
	}
	return p, nil
}
