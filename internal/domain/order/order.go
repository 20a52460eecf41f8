// Package order implements the order lifecycle: the status state machine,
// the role-scoped authorization policy, and the orchestration of post
// resolution, price snapshotting, persistence, and notification dispatch.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/hirafie/hirafie-backend/internal/domain/pagination"
	"github.com/hirafie/hirafie-backend/internal/domain/post"
	"github.com/hirafie/hirafie-backend/internal/domain/user"
)

// Sentinel errors for order resolution and policy violations. Ownership
// violations yield ErrForbidden rather than ErrNotFound so that a failed
// ownership check is indistinguishable from a failed rights check, not from
// a missing resource.
var (
	ErrNotFound          = errors.New("order not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports a structurally invalid order input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether the status is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus tracks payment settlement independently of the lifecycle.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Valid reports whether the payment status is known.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// DeliveryMethod is how the client receives the order.
type DeliveryMethod string

const (
	DeliveryShip   DeliveryMethod = "delivery"
	DeliveryPickup DeliveryMethod = "pickup"
)

// Valid reports whether the delivery method is known.
func (d DeliveryMethod) Valid() bool {
	return d == DeliveryShip || d == DeliveryPickup
}

// Address is a complete delivery address. All fields are required together.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Complete reports whether every address field is set.
func (a Address) Complete() bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.ZipCode != "" && a.Country != ""
}

// Order is a client's request against a post. ArtisanID is denormalized from
// the post at creation time and never independently mutated; ClientID is
// immutable after creation. TotalPrice is post.Price x Quantity snapshotted
// at creation and only overwritten by an explicit admin patch.
type Order struct {
	ID                string
	ClientID          string
	ArtisanID         string
	PostID            string
	Description       string
	Quantity          int
	TotalPrice        decimal.Decimal
	DesiredPickupDate *time.Time
	Status            Status
	PaymentStatus     PaymentStatus
	PaymentMethod     post.PaymentMethod
	DeliveryMethod    DeliveryMethod
	DeliveryAddress   *Address
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Detailed is an order populated with its client, artisan, and post
// projections.
type Detailed struct {
	Order
	Client  user.Contact `json:"client"`
	Artisan user.Contact `json:"artisan"`
	Post    post.Card    `json:"post"`
}

// Filter narrows an order listing. ClientID and ArtisanID are overwritten by
// the visibility policy for non-admin actors.
type Filter struct {
	ClientID       string
	ArtisanID      string
	PostID         string
	Status         Status
	PaymentStatus  PaymentStatus
	PaymentMethod  post.PaymentMethod
	DeliveryMethod DeliveryMethod
}

// Page is one page of orders with its metadata.
type Page struct {
	Results []Detailed `json:"results"`
	pagination.Meta
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Detailed, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
	Paginate(ctx context.Context, filter Filter, opts pagination.Options) (*Page, error)
}

// Notifier dispatches order emails. Implementations must not block the
// caller on delivery and must never fail the committed mutation.
type Notifier interface {
	OrderConfirmation(to string, o *Detailed)
	NewOrder(to string, o *Detailed)
	OrderStatusUpdate(to string, o *Detailed)
}
