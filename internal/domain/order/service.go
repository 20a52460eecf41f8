package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hirafie/hirafie-backend/internal/domain/pagination"
	"github.com/hirafie/hirafie-backend/internal/domain/post"
	"github.com/hirafie/hirafie-backend/internal/domain/user"
)

// Service orchestrates the order lifecycle: post resolution, price snapshot,
// policy checks, persistence, and post-commit notification dispatch.
type Service struct {
	orders   Repository
	posts    post.Repository
	notifier Notifier
	metrics  *Metrics
	lg       *zap.Logger
}

// NewService creates an order Service with the required domain dependencies.
func NewService(orders Repository, posts post.Repository, notifier Notifier, metrics *Metrics, lg *zap.Logger) *Service {
	return &Service{
		orders:   orders,
		posts:    posts,
		notifier: notifier,
		metrics:  metrics,
		lg:       lg,
	}
}

// CreateInput holds the fields accepted when a client places an order. The
// artisan is never client-supplied: it is snapshotted from the post.
type CreateInput struct {
	PostID            string
	Description       string
	Quantity          int
	DesiredPickupDate *time.Time
	PaymentMethod     post.PaymentMethod
	DeliveryMethod    DeliveryMethod
	DeliveryAddress   *Address
}

// Create places an order for the acting client. The referenced post must
// exist and be active; totalPrice is computed as post price x quantity at
// this point and never re-read from the post afterwards. Confirmation and
// new-order emails are dispatched after the order is committed.
func (s *Service) Create(ctx context.Context, in CreateInput, actor *user.User) (*Detailed, error) {
	if actor.Role != user.RoleClient {
		return nil, errors.Wrap(ErrForbidden, "only clients can create orders")
	}

	p, err := post.ResolveForOrder(ctx, s.posts, in.PostID)
	if err != nil {
		return nil, err
	}

	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, &ValidationError{Reason: "quantity must be at least 1"}
	}
	if p.Type == post.TypeCustom && in.DesiredPickupDate == nil {
		return nil, &ValidationError{Reason: "desiredPickupDate is required for custom orders"}
	}
	if err := validateDelivery(in.DeliveryMethod, in.DeliveryAddress); err != nil {
		return nil, err
	}

	o := &Order{
		ID:                uuid.New().String(),
		ClientID:          actor.ID,
		ArtisanID:         p.ArtisanID,
		PostID:            p.ID,
		Description:       in.Description,
		Quantity:          quantity,
		TotalPrice:        p.Price.Mul(decimal.NewFromInt(int64(quantity))),
		DesiredPickupDate: in.DesiredPickupDate,
		Status:            StatusPending,
		PaymentStatus:     PaymentPending,
		PaymentMethod:     in.PaymentMethod,
		DeliveryMethod:    in.DeliveryMethod,
		DeliveryAddress:   in.DeliveryAddress,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	s.metrics.orderCreated(ctx)

	detailed := &Detailed{
		Order:   *o,
		Client:  actor.Contact(),
		Artisan: p.Artisan,
		Post:    p.Card(),
	}

	s.notifier.OrderConfirmation(detailed.Client.Email, detailed)
	s.notifier.NewOrder(detailed.Artisan.Email, detailed)

	return detailed, nil
}

// Query returns a page of orders visible to the actor. Clients see only
// their own orders and artisans only orders on their posts; admin-supplied
// client/artisan filters pass through untouched.
func (s *Service) Query(ctx context.Context, filter Filter, opts pagination.Options, actor *user.User) (*Page, error) {
	switch actor.Role {
	case user.RoleClient:
		filter.ClientID = actor.ID
	case user.RoleArtisan:
		filter.ArtisanID = actor.ID
	case user.RoleAdmin:
	default:
		return nil, ErrForbidden
	}
	return s.orders.Paginate(ctx, filter, opts.Normalize())
}

// Get returns a populated order after the ownership gate.
func (s *Service) Get(ctx context.Context, id string, actor *user.User) (*Detailed, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownershipGate(o, actor); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateInput is the patch accepted by Update. Nil fields are left
// unchanged. TotalPrice is honored for admins only.
type UpdateInput struct {
	Description       *string
	DesiredPickupDate *time.Time
	Status            *Status
	PaymentStatus     *PaymentStatus
	TotalPrice        *decimal.Decimal
}

// Update patches an order. The ownership gate runs before the transition
// check; a requested status change is validated against the state machine
// for the actor's role. On a committed status change the client is always
// notified, and the artisan additionally when the client cancelled.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput, actor *user.User) (*Detailed, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownershipGate(o, actor); err != nil {
		return nil, err
	}

	statusChanged := false
	if in.Status != nil {
		if err := Transition(actor.Role, o.Status, *in.Status); err != nil {
			return nil, err
		}
		statusChanged = *in.Status != o.Status
		o.Status = *in.Status
	}

	if in.PaymentStatus != nil {
		// Payment settlement is at the discretion of the artisan and admins;
		// clients never mark orders paid or refunded.
		if actor.Role == user.RoleClient {
			return nil, errors.Wrap(ErrForbidden, "clients cannot change payment status")
		}
		o.PaymentStatus = *in.PaymentStatus
	}
	if in.TotalPrice != nil {
		if actor.Role != user.RoleAdmin {
			return nil, errors.Wrap(ErrForbidden, "total price is fixed at creation")
		}
		o.TotalPrice = *in.TotalPrice
	}
	if in.Description != nil {
		o.Description = *in.Description
	}
	if in.DesiredPickupDate != nil {
		o.DesiredPickupDate = in.DesiredPickupDate
	}

	if err := s.orders.Update(ctx, &o.Order); err != nil {
		return nil, errors.Wrap(err, "update order")
	}

	if statusChanged {
		s.metrics.statusChanged(ctx, o.Status)
		s.notifier.OrderStatusUpdate(o.Client.Email, o)
		if o.Status == StatusCancelled && actor.Role == user.RoleClient {
			s.notifier.OrderStatusUpdate(o.Artisan.Email, o)
		}
	}

	return o, nil
}

// Delete removes an order. Admin only, regardless of order state.
func (s *Service) Delete(ctx context.Context, id string, actor *user.User) error {
	if actor.Role != user.RoleAdmin {
		return errors.Wrap(ErrForbidden, "only administrators can delete orders")
	}
	if _, err := s.orders.Get(ctx, id); err != nil {
		return err
	}
	return s.orders.Delete(ctx, id)
}

// ownershipGate allows the order's client, the order's artisan, or an admin
// through. Violations are Forbidden, never NotFound.
func ownershipGate(o *Detailed, actor *user.User) error {
	switch actor.Role {
	case user.RoleAdmin:
		return nil
	case user.RoleClient:
		if o.ClientID != actor.ID {
			return ErrForbidden
		}
		return nil
	case user.RoleArtisan:
		if o.ArtisanID != actor.ID {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}

// validateDelivery re-asserts the address invariant at the domain layer:
// exactly one of {complete address, pickup} holds.
func validateDelivery(method DeliveryMethod, addr *Address) error {
	switch method {
	case DeliveryShip:
		if addr == nil || !addr.Complete() {
			return &ValidationError{Reason: "a complete delivery address is required for delivery"}
		}
	case DeliveryPickup:
		if addr != nil {
			return &ValidationError{Reason: "delivery address is not accepted for pickup orders"}
		}
	default:
		return &ValidationError{Reason: "unknown delivery method"}
	}
	return nil
}
