package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/hirafie/hirafie-backend/internal/domain/pagination"
)

// Sentinel errors for user lookup and authentication.
var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

// ValidationError reports a structurally invalid account input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Role is the access role assigned to a user. It is immutable for the
// lifetime of a session: the authenticated actor always carries the role
// loaded from storage, never one supplied by the request.
type Role string

const (
	RoleClient  Role = "client"
	RoleArtisan Role = "artisan"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleArtisan, RoleAdmin:
		return true
	}
	return false
}

// Category is an artisan's craft. It is required for artisans and copied
// onto every post they publish.
type Category string

const (
	CategoryCouture     Category = "couture"
	CategoryCuisine     Category = "cuisine"
	CategoryPeinture    Category = "peinture"
	CategoryElectricite Category = "electricite"
)

// Valid reports whether the category is one of the known crafts.
func (c Category) Valid() bool {
	switch c {
	case CategoryCouture, CategoryCuisine, CategoryPeinture, CategoryElectricite:
		return true
	}
	return false
}

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the backend.
type User struct {
	ID              string
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	PasswordHash    string
	Role            Role
	Category        Category // set iff Role == RoleArtisan
	IsEmailVerified bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Contact is the public projection of a user embedded in populated orders
// and posts.
type Contact struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Contact returns the public projection of the user.
func (u *User) Contact() Contact {
	return Contact{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
	}
}

// Filter narrows a user listing.
type Filter struct {
	Role     Role
	Category Category
}

// Page is one page of users with its metadata.
type Page struct {
	Results []User `json:"results"`
	pagination.Meta
}

// Repository defines persistence operations for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	Paginate(ctx context.Context, filter Filter, opts pagination.Options) (*Page, error)
}
