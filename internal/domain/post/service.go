package post

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hirafie/hirafie-backend/internal/domain/pagination"
	"github.com/hirafie/hirafie-backend/internal/domain/user"
)

// MediaStore stores and removes binary media by opaque public reference.
type MediaStore interface {
	Store(ctx context.Context, data []byte, contentType string) (Media, error)
	Remove(ctx context.Context, publicID string, kind MediaKind) error
}

// Service encapsulates post lifecycle and media management.
type Service struct {
	posts Repository
	media MediaStore
	lg    *zap.Logger
}

// NewService creates a post Service.
func NewService(posts Repository, media MediaStore, lg *zap.Logger) *Service {
	return &Service{posts: posts, media: media, lg: lg}
}

// CreateInput holds the fields accepted when publishing a post. Artisan and
// category are never client-supplied: both come from the acting artisan.
type CreateInput struct {
	Title         string
	Description   string
	Type          Type
	Price         decimal.Decimal
	PaymentMethod PaymentMethod
	Delivery      DeliveryOption
	Media         []Media
}

// Create publishes a new post owned by the acting artisan. The category is
// copied from the artisan's profile.
func (s *Service) Create(ctx context.Context, in CreateInput, actor *user.User) (*Post, error) {
	if actor.Role != user.RoleArtisan {
		return nil, errors.Wrap(ErrForbidden, "only artisans can create posts")
	}
	if in.Price.IsNegative() {
		return nil, &ValidationError{Reason: "price must not be negative"}
	}

	p := &Post{
		ID:            uuid.New().String(),
		ArtisanID:     actor.ID,
		Title:         in.Title,
		Description:   in.Description,
		Media:         in.Media,
		Type:          in.Type,
		Price:         in.Price,
		PaymentMethod: in.PaymentMethod,
		Delivery:      in.Delivery,
		Category:      actor.Category,
		IsActive:      true,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "create post")
	}
	return p, nil
}

// Query returns a page of posts matching the filter.
func (s *Service) Query(ctx context.Context, filter Filter, opts pagination.Options) (*Page, error) {
	return s.posts.Paginate(ctx, filter, opts.Normalize())
}

// Get returns a populated post by id.
func (s *Service) Get(ctx context.Context, id string) (*Detailed, error) {
	return s.posts.Get(ctx, id)
}

// UpdateInput is the patch accepted by Update. Nil fields are left unchanged.
type UpdateInput struct {
	Title         *string
	Description   *string
	Type          *Type
	Price         *decimal.Decimal
	PaymentMethod *PaymentMethod
	Delivery      *DeliveryOption
	IsActive      *bool
}

// Update patches a post. Only the owning artisan or an admin may mutate it.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput, actor *user.User) (*Detailed, error) {
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ownershipGate(p, actor); err != nil {
		return nil, err
	}

	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Type != nil {
		p.Type = *in.Type
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, &ValidationError{Reason: "price must not be negative"}
		}
		p.Price = *in.Price
	}
	if in.PaymentMethod != nil {
		p.PaymentMethod = *in.PaymentMethod
	}
	if in.Delivery != nil {
		p.Delivery = *in.Delivery
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if err := s.posts.Update(ctx, &p.Post); err != nil {
		return nil, errors.Wrap(err, "update post")
	}
	return p, nil
}

// Delete removes a post and its remote media. Remote media is deleted before
// the post row so no dangling references survive a partial failure.
func (s *Service) Delete(ctx context.Context, id string, actor *user.User) error {
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ownershipGate(p, actor); err != nil {
		return err
	}

	for _, m := range p.Media {
		if err := s.media.Remove(ctx, m.PublicID, m.Kind); err != nil {
			s.lg.Warn("Failed to remove post media",
				zap.String("post_id", p.ID),
				zap.String("public_id", m.PublicID),
				zap.Error(err))
		}
	}

	return s.posts.Delete(ctx, id)
}

// UploadMedia stores the given files and appends them to the post.
func (s *Service) UploadMedia(ctx context.Context, id string, files [][]byte, contentTypes []string, actor *user.User) (*Detailed, error) {
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ownershipGate(p, actor); err != nil {
		return nil, err
	}

	for i, data := range files {
		m, err := s.media.Store(ctx, data, contentTypes[i])
		if err != nil {
			return nil, errors.Wrap(err, "store media")
		}
		p.Media = append(p.Media, m)
	}

	if err := s.posts.Update(ctx, &p.Post); err != nil {
		return nil, errors.Wrap(err, "update post")
	}
	return p, nil
}

// DeleteMedia removes one attachment from the post, remote content first.
func (s *Service) DeleteMedia(ctx context.Context, id, mediaID string, actor *user.User) (*Detailed, error) {
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ownershipGate(p, actor); err != nil {
		return nil, err
	}

	idx := -1
	for i, m := range p.Media {
		if m.ID == mediaID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrMediaNotFound
	}

	m := p.Media[idx]
	if err := s.media.Remove(ctx, m.PublicID, m.Kind); err != nil {
		return nil, errors.Wrap(err, "remove media")
	}
	p.Media = append(p.Media[:idx], p.Media[idx+1:]...)

	if err := s.posts.Update(ctx, &p.Post); err != nil {
		return nil, errors.Wrap(err, "update post")
	}
	return p, nil
}

// ownershipGate allows the owning artisan or an admin through.
func (s *Service) ownershipGate(p *Detailed, actor *user.User) error {
	if actor.Role == user.RoleAdmin {
		return nil
	}
	if p.ArtisanID != actor.ID {
		return ErrForbidden
	}
	return nil
}
