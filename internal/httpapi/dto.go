package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hirafie/hirafie-backend/internal/domain/order"
	"github.com/hirafie/hirafie-backend/internal/domain/post"
	"github.com/hirafie/hirafie-backend/internal/domain/user"
)

// --- Auth / users ---

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=client artisan"`
	Category  string `json:"category" validate:"omitempty,oneof=couture cuisine peinture electricite"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type updateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
	Category  *string `json:"category" validate:"omitempty,oneof=couture cuisine peinture electricite"`
}

// userResponse is the public view of an account; the password hash never
// leaves the backend.
type userResponse struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Role            string    `json:"role"`
	Category        string    `json:"category,omitempty"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		Phone:           u.Phone,
		Role:            string(u.Role),
		Category:        string(u.Category),
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}

type userPageResponse struct {
	Results      []userResponse `json:"results"`
	Page         int            `json:"page"`
	Limit        int            `json:"limit"`
	TotalPages   int            `json:"totalPages"`
	TotalResults int            `json:"totalResults"`
}

// --- Posts ---

type createPostRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=vente commande"`
	// Price is a pointer so that a free offering (price 0) is distinguishable
	// from a missing field. Negative prices are rejected by the domain layer.
	Price         *decimal.Decimal `json:"price" validate:"required"`
	PaymentMethod string           `json:"paymentMethod" validate:"required,oneof=cash online"`
	Delivery      string           `json:"delivery" validate:"required,oneof=available pickup_only"`
}

type updatePostRequest struct {
	Title         *string          `json:"title" validate:"omitempty,min=1"`
	Description   *string          `json:"description" validate:"omitempty,min=1"`
	Type          *string          `json:"type" validate:"omitempty,oneof=vente commande"`
	Price         *decimal.Decimal `json:"price"`
	PaymentMethod *string          `json:"paymentMethod" validate:"omitempty,oneof=cash online"`
	Delivery      *string          `json:"delivery" validate:"omitempty,oneof=available pickup_only"`
	IsActive      *bool            `json:"isActive"`
}

type postResponse struct {
	ID            string          `json:"id"`
	Artisan       any             `json:"artisan"` // user.Contact when populated, id string otherwise
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Media         []post.Media    `json:"media"`
	Type          string          `json:"type"`
	Price         decimal.Decimal `json:"price"`
	PaymentMethod string          `json:"paymentMethod"`
	Delivery      string          `json:"delivery"`
	Category      string          `json:"category"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func toPostResponse(p *post.Post, artisan any) postResponse {
	media := p.Media
	if media == nil {
		media = []post.Media{}
	}
	return postResponse{
		ID:            p.ID,
		Artisan:       artisan,
		Title:         p.Title,
		Description:   p.Description,
		Media:         media,
		Type:          string(p.Type),
		Price:         p.Price,
		PaymentMethod: string(p.PaymentMethod),
		Delivery:      string(p.Delivery),
		Category:      string(p.Category),
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toDetailedPostResponse(p *post.Detailed) postResponse {
	return toPostResponse(&p.Post, p.Artisan)
}

type postPageResponse struct {
	Results      []postResponse `json:"results"`
	Page         int            `json:"page"`
	Limit        int            `json:"limit"`
	TotalPages   int            `json:"totalPages"`
	TotalResults int            `json:"totalResults"`
}

// --- Orders ---

type addressRequest struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

func (a *addressRequest) toDomain() *order.Address {
	if a == nil {
		return nil
	}
	return &order.Address{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

type createOrderRequest struct {
	Post              string          `json:"post" validate:"required"`
	Description       string          `json:"description"`
	Quantity          int             `json:"quantity" validate:"omitempty,min=1"`
	DesiredPickupDate *time.Time      `json:"desiredPickupDate"`
	PaymentMethod     string          `json:"paymentMethod" validate:"required,oneof=cash online"`
	DeliveryMethod    string          `json:"deliveryMethod" validate:"required,oneof=delivery pickup"`
	DeliveryAddress   *addressRequest `json:"deliveryAddress"`
}

type updateOrderRequest struct {
	Status            *string          `json:"status" validate:"omitempty,oneof=pending accepted rejected completed cancelled"`
	PaymentStatus     *string          `json:"paymentStatus" validate:"omitempty,oneof=pending paid refunded"`
	Description       *string          `json:"description"`
	DesiredPickupDate *time.Time       `json:"desiredPickupDate"`
	TotalPrice        *decimal.Decimal `json:"totalPrice"`
}

type orderResponse struct {
	ID                string          `json:"id"`
	Client            user.Contact    `json:"client"`
	Artisan           user.Contact    `json:"artisan"`
	Post              post.Card       `json:"post"`
	Description       string          `json:"description,omitempty"`
	Quantity          int             `json:"quantity"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	DesiredPickupDate *time.Time      `json:"desiredPickupDate,omitempty"`
	Status            string          `json:"status"`
	PaymentStatus     string          `json:"paymentStatus"`
	PaymentMethod     string          `json:"paymentMethod"`
	DeliveryMethod    string          `json:"deliveryMethod"`
	DeliveryAddress   *order.Address  `json:"deliveryAddress,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

func toOrderResponse(o *order.Detailed) orderResponse {
	return orderResponse{
		ID:                o.ID,
		Client:            o.Client,
		Artisan:           o.Artisan,
		Post:              o.Post,
		Description:       o.Description,
		Quantity:          o.Quantity,
		TotalPrice:        o.TotalPrice,
		DesiredPickupDate: o.DesiredPickupDate,
		Status:            string(o.Status),
		PaymentStatus:     string(o.PaymentStatus),
		PaymentMethod:     string(o.PaymentMethod),
		DeliveryMethod:    string(o.DeliveryMethod),
		DeliveryAddress:   o.DeliveryAddress,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

type orderPageResponse struct {
	Results      []orderResponse `json:"results"`
	Page         int             `json:"page"`
	Limit        int             `json:"limit"`
	TotalPages   int             `json:"totalPages"`
	TotalResults int             `json:"totalResults"`
}
