// Command seed-db provisions the admin account and, optionally, a set of
// demo artisans, clients, and posts for local development.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/hirafie/hirafie-backend/internal/domain/post"
	"github.com/hirafie/hirafie-backend/internal/domain/user"
	"github.com/hirafie/hirafie-backend/internal/repository"
)

func main() {
	var (
		databaseURL   string
		adminEmail    string
		adminPassword string
		demo          bool
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&adminEmail, "admin-email", "admin@hirafie.app", "admin account email")
	flag.StringVar(&adminPassword, "admin-password", "", "admin account password (or HIRAFIE_SEED_ADMIN_PASSWORD env)")
	flag.BoolVar(&demo, "demo", false, "seed demo artisans, clients, and posts")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("HIRAFIE_SEED_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or HIRAFIE_SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, adminEmail, adminPassword, demo); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, adminEmail, adminPassword string, demo bool) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	users := repository.NewUserRepository(pool)
	posts := repository.NewPostRepository(pool)

	if err := seedAdmin(ctx, users, adminEmail, adminPassword); err != nil {
		return errors.Wrap(err, "seed admin")
	}

	if demo {
		if err := seedDemo(ctx, users, posts); err != nil {
			return errors.Wrap(err, "seed demo data")
		}
	}

	return nil
}

// seedAdmin creates the admin account unless one already exists at the email.
func seedAdmin(ctx context.Context, users user.Repository, email, password string) error {
	if _, err := users.GetByEmail(ctx, email); err == nil {
		slog.Info("admin account already exists", slog.String("email", email))
		return nil
	} else if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	admin := &user.User{
		ID:              uuid.New().String(),
		FirstName:       "Hirafie",
		LastName:        "Admin",
		Email:           email,
		Phone:           "+212600000000",
		PasswordHash:    string(hash),
		Role:            user.RoleAdmin,
		IsEmailVerified: true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	slog.Info("admin account created", slog.String("email", email))
	return nil
}

type demoAccount struct {
	firstName string
	lastName  string
	email     string
	phone     string
	role      user.Role
	category  user.Category
}

var demoAccounts = []demoAccount{
	{"Amina", "Benali", "amina@example.com", "+212611111111", user.RoleArtisan, user.CategoryCouture},
	{"Hassan", "Idrissi", "hassan@example.com", "+212622222222", user.RoleArtisan, user.CategoryCuisine},
	{"Yasmine", "Alaoui", "yasmine@example.com", "+212633333333", user.RoleClient, ""},
	{"Omar", "Tazi", "omar@example.com", "+212644444444", user.RoleClient, ""},
}

type demoPost struct {
	artisanEmail  string
	title         string
	description   string
	typ           post.Type
	price         string
	paymentMethod post.PaymentMethod
	delivery      post.DeliveryOption
}

var demoPosts = []demoPost{
	{"amina@example.com", "Embroidered kaftan", "Hand-embroidered kaftan, made to measure.", post.TypeCustom, "1200.00", post.PaymentCash, post.DeliveryAvailable},
	{"amina@example.com", "Linen table runner", "Linen runner with traditional stitching.", post.TypeSale, "180.00", post.PaymentOnline, post.DeliveryAvailable},
	{"hassan@example.com", "Wedding pastry platter", "Assorted pastries for events, per 50 pieces.", post.TypeCustom, "450.00", post.PaymentCash, post.DeliveryPickupOnly},
}

func seedDemo(ctx context.Context, users user.Repository, posts post.Repository) error {
	artisanIDs := make(map[string]string)

	for _, a := range demoAccounts {
		existing, err := users.GetByEmail(ctx, a.email)
		if err == nil {
			artisanIDs[a.email] = existing.ID
			continue
		}
		if !errors.Is(err, user.ErrNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrap(err, "hash password")
		}
		u := &user.User{
			ID:              uuid.New().String(),
			FirstName:       a.firstName,
			LastName:        a.lastName,
			Email:           a.email,
			Phone:           a.phone,
			PasswordHash:    string(hash),
			Role:            a.role,
			Category:        a.category,
			IsEmailVerified: true,
		}
		if err := users.Create(ctx, u); err != nil {
			return errors.Wrapf(err, "create demo user %s", a.email)
		}
		artisanIDs[a.email] = u.ID
		slog.Info("demo user created", slog.String("email", a.email), slog.String("role", string(a.role)))
	}

	for _, p := range demoPosts {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return errors.Wrapf(err, "parse price for %q", p.title)
		}
		var category user.Category
		for _, a := range demoAccounts {
			if a.email == p.artisanEmail {
				category = a.category
			}
		}
		if err := posts.Create(ctx, &post.Post{
			ID:            uuid.New().String(),
			ArtisanID:     artisanIDs[p.artisanEmail],
			Title:         p.title,
			Description:   p.description,
			Type:          p.typ,
			Price:         price,
			PaymentMethod: p.paymentMethod,
			Delivery:      p.delivery,
			Category:      category,
			IsActive:      true,
		}); err != nil {
			return errors.Wrapf(err, "create demo post %q", p.title)
		}
		slog.Info("demo post created", slog.String("title", p.title))
	}

	return nil
}
