package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hirafie/hirafie-backend/internal/domain/pagination"
)

// Sentinel errors for authorization and token verification.
var (
	ErrUnauthenticated = errors.New("please authenticate")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidToken    = errors.New("invalid or expired token")
)

// TokenKind distinguishes the purpose baked into an issued JWT. A token is
// only accepted for the purpose it was issued for.
type TokenKind string

const (
	TokenAccess        TokenKind = "access"
	TokenVerifyEmail   TokenKind = "verifyEmail"
	TokenResetPassword TokenKind = "resetPassword"
)

// Claims is the JWT payload issued by the service.
type Claims struct {
	jwt.RegisteredClaims
	Kind TokenKind `json:"type"`
}

// Notifier sends account emails. Implementations must not block the caller
// on delivery; failures are logged by the mailer, not surfaced here.
type Notifier interface {
	Verification(to, token string)
	ResetPassword(to, token string)
}

// TokenConfig holds signing material and lifetimes for issued tokens.
type TokenConfig struct {
	Secret           []byte
	AccessTTL        time.Duration
	VerifyEmailTTL   time.Duration
	ResetPasswordTTL time.Duration
}

// Service implements registration, authentication, and account management.
type Service struct {
	users    Repository
	notifier Notifier
	tokens   TokenConfig
	now      func() time.Time
}

// NewService creates a user Service.
func NewService(users Repository, notifier Notifier, tokens TokenConfig) *Service {
	return &Service{
		users:    users,
		notifier: notifier,
		tokens:   tokens,
		now:      time.Now,
	}
}

// RegisterInput holds the fields accepted at sign-up. Role is restricted to
// client or artisan; admins are provisioned out of band.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Role      Role
	Category  Category
}

// Register creates an account, sends the verification email, and returns the
// new user with an access token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, string, error) {
	if in.Role != RoleClient && in.Role != RoleArtisan {
		return nil, "", errors.Wrap(ErrForbidden, "role not allowed at registration")
	}
	if in.Role == RoleArtisan && !in.Category.Valid() {
		return nil, "", &ValidationError{Reason: "artisan category is required"}
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, "", errors.Wrap(err, "check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errors.Wrap(err, "hash password")
	}

	u := &User{
		ID:           uuid.New().String(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	if in.Role == RoleArtisan {
		u.Category = in.Category
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", errors.Wrap(err, "create user")
	}

	if verifyToken, err := s.issueToken(u.ID, TokenVerifyEmail, s.tokens.VerifyEmailTTL); err == nil {
		s.notifier.Verification(u.Email, verifyToken)
	}

	access, err := s.issueToken(u.ID, TokenAccess, s.tokens.AccessTTL)
	if err != nil {
		return nil, "", errors.Wrap(err, "issue access token")
	}
	return u, access, nil
}

// Login checks the credentials and returns the user with an access token.
// Both a missing account and a wrong password yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", errors.Wrap(err, "get user")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	access, err := s.issueToken(u.ID, TokenAccess, s.tokens.AccessTTL)
	if err != nil {
		return nil, "", errors.Wrap(err, "issue access token")
	}
	return u, access, nil
}

// Authenticate resolves a bearer access token to its user. The role attached
// to the returned user is the stored one, never a claim from the token.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	userID, err := s.verifyToken(token, TokenAccess)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, errors.Wrap(err, "get user")
	}
	return u, nil
}

// SendVerificationEmail issues a fresh verification token for the user and
// hands it to the notifier.
func (s *Service) SendVerificationEmail(ctx context.Context, u *User) error {
	token, err := s.issueToken(u.ID, TokenVerifyEmail, s.tokens.VerifyEmailTTL)
	if err != nil {
		return errors.Wrap(err, "issue verification token")
	}
	s.notifier.Verification(u.Email, token)
	return nil
}

// VerifyEmail marks the token's user as verified.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.verifyToken(token, TokenVerifyEmail)
	if err != nil {
		return ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "get user")
	}
	u.IsEmailVerified = true
	return s.users.Update(ctx, u)
}

// ForgotPassword issues a reset token for the account and hands it to the
// notifier.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	token, err := s.issueToken(u.ID, TokenResetPassword, s.tokens.ResetPasswordTTL)
	if err != nil {
		return errors.Wrap(err, "issue reset token")
	}
	s.notifier.ResetPassword(u.Email, token)
	return nil
}

// ResetPassword replaces the password of the token's user.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.verifyToken(token, TokenResetPassword)
	if err != nil {
		return ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "get user")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	u.PasswordHash = string(hash)
	return s.users.Update(ctx, u)
}

// UpdateInput is the patch accepted by Update. Nil fields are left unchanged.
// Role is deliberately absent: it is immutable through the API.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Password  *string
	Category  *Category
}

// Get returns a user. Non-admin actors may only read their own account.
func (s *Service) Get(ctx context.Context, id string, actor *User) (*User, error) {
	if actor.Role != RoleAdmin && actor.ID != id {
		return nil, ErrForbidden
	}
	return s.users.GetByID(ctx, id)
}

// Update patches a user. Non-admin actors may only update their own account.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput, actor *User) (*User, error) {
	if actor.Role != RoleAdmin && actor.ID != id {
		return nil, ErrForbidden
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != u.Email {
		if _, err := s.users.GetByEmail(ctx, *in.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, ErrNotFound) {
			return nil, errors.Wrap(err, "check email")
		}
		u.Email = *in.Email
		u.IsEmailVerified = false
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.Category != nil {
		if u.Role != RoleArtisan {
			return nil, errors.Wrap(ErrForbidden, "category applies to artisans only")
		}
		if !in.Category.Valid() {
			return nil, &ValidationError{Reason: "unknown category"}
		}
		u.Category = *in.Category
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.Wrap(err, "hash password")
		}
		u.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, errors.Wrap(err, "update user")
	}
	return u, nil
}

// Delete removes a user. Admin only.
func (s *Service) Delete(ctx context.Context, id string, actor *User) error {
	if actor.Role != RoleAdmin {
		return ErrForbidden
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// List returns a page of users. Admin only.
func (s *Service) List(ctx context.Context, filter Filter, opts pagination.Options, actor *User) (*Page, error) {
	if actor.Role != RoleAdmin {
		return nil, ErrForbidden
	}
	return s.users.Paginate(ctx, filter, opts.Normalize())
}

func (s *Service) issueToken(userID string, kind TokenKind, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.tokens.Secret)
}

// verifyToken parses the token, checks the signature and expiry, and ensures
// it was issued for the expected purpose. It returns the subject user ID.
func (s *Service) verifyToken(token string, kind TokenKind) (string, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.tokens.Secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Kind != kind {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
