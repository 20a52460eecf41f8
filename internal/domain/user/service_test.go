package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hirafie/hirafie-backend/internal/domain/pagination"
)

// --- Mock implementations ---

type mockUserRepo struct {
	byID    map[string]*User
	byEmail map[string]*User
}

func newMockUserRepo(users ...*User) *mockUserRepo {
	m := &mockUserRepo{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
	for _, u := range users {
		m.byID[u.ID] = u
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) Update(_ context.Context, u *User) error {
	old, ok := m.byID[u.ID]
	if !ok {
		return ErrNotFound
	}
	delete(m.byEmail, old.Email)
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	u, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byEmail, u.Email)
	delete(m.byID, id)
	return nil
}

func (m *mockUserRepo) Paginate(_ context.Context, _ Filter, opts pagination.Options) (*Page, error) {
	results := make([]User, 0, len(m.byID))
	for _, u := range m.byID {
		results = append(results, *u)
	}
	return &Page{Results: results, Meta: pagination.NewMeta(opts, len(results))}, nil
}

type tokenCall struct {
	kind  string
	to    string
	token string
}

type mockAccountNotifier struct {
	calls []tokenCall
}

func (m *mockAccountNotifier) Verification(to, token string) {
	m.calls = append(m.calls, tokenCall{"verification", to, token})
}

func (m *mockAccountNotifier) ResetPassword(to, token string) {
	m.calls = append(m.calls, tokenCall{"resetPassword", to, token})
}

// --- Helpers ---

func testTokenConfig() TokenConfig {
	return TokenConfig{
		Secret:           []byte("test-secret"),
		AccessTTL:        30 * time.Minute,
		VerifyEmailTTL:   10 * time.Minute,
		ResetPasswordTTL: 10 * time.Minute,
	}
}

func newTestService(repo Repository, notifier Notifier) *Service {
	return NewService(repo, notifier, testTokenConfig())
}

func registerInput() RegisterInput {
	return RegisterInput{
		FirstName: "Yasmine",
		LastName:  "Alaoui",
		Email:     "yasmine@example.com",
		Phone:     "+212633333333",
		Password:  "password123",
		Role:      RoleClient,
	}
}

// --- Register / Login ---

func TestRegister_Client(t *testing.T) {
	repo := newMockUserRepo()
	notifier := &mockAccountNotifier{}
	svc := newTestService(repo, notifier)

	u, token, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, RoleClient, u.Role)
	assert.False(t, u.IsEmailVerified)
	assert.NotEmpty(t, token)
	// The stored hash verifies against the plaintext password.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")))
	// A verification email was dispatched.
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "verification", notifier.calls[0].kind)
	assert.Equal(t, "yasmine@example.com", notifier.calls[0].to)
}

func TestRegister_AdminRoleRejected(t *testing.T) {
	svc := newTestService(newMockUserRepo(), &mockAccountNotifier{})

	in := registerInput()
	in.Role = RoleAdmin
	_, _, err := svc.Register(context.Background(), in)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestRegister_ArtisanRequiresCategory(t *testing.T) {
	svc := newTestService(newMockUserRepo(), &mockAccountNotifier{})

	in := registerInput()
	in.Role = RoleArtisan
	_, _, err := svc.Register(context.Background(), in)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve, "missing category is a validation failure, not an internal error")

	in.Category = CategoryCouture
	u, _, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, CategoryCouture, u.Category)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestService(newMockUserRepo(), &mockAccountNotifier{})

	_, _, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), registerInput())
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc := newTestService(newMockUserRepo(), &mockAccountNotifier{})

	_, _, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	u, token, err := svc.Login(context.Background(), "yasmine@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "yasmine@example.com", u.Email)
	assert.NotEmpty(t, token)
}

// Wrong password and unknown email are indistinguishable to the caller.
func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newTestService(newMockUserRepo(), &mockAccountNotifier{})

	_, _, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "yasmine@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

// --- Tokens ---

func TestAuthenticate(t *testing.T) {
	svc := newTestService(newMockUserRepo(), &mockAccountNotifier{})

	u, token, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	got, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, RoleClient, got.Role)
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	svc := newTestService(newMockUserRepo(), &mockAccountNotifier{})

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

// A token is only accepted for the purpose it was issued for: a verification
// token must not pass as an access token.
func TestAuthenticate_RejectsWrongTokenKind(t *testing.T) {
	notifier := &mockAccountNotifier{}
	svc := newTestService(newMockUserRepo(), notifier)

	_, _, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.Len(t, notifier.calls, 1)

	_, err = svc.Authenticate(context.Background(), notifier.calls[0].token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	svc := newTestService(newMockUserRepo(), &mockAccountNotifier{})

	_, token, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(31 * time.Minute) }
	_, err = svc.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifyEmail(t *testing.T) {
	notifier := &mockAccountNotifier{}
	svc := newTestService(newMockUserRepo(), notifier)

	u, _, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.Len(t, notifier.calls, 1)

	require.NoError(t, svc.VerifyEmail(context.Background(), notifier.calls[0].token))

	got, err := svc.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsEmailVerified)
}

func TestResetPasswordFlow(t *testing.T) {
	notifier := &mockAccountNotifier{}
	svc := newTestService(newMockUserRepo(), notifier)

	_, _, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), "yasmine@example.com"))
	require.Len(t, notifier.calls, 2)
	require.Equal(t, "resetPassword", notifier.calls[1].kind)

	require.NoError(t, svc.ResetPassword(context.Background(), notifier.calls[1].token, "newpassword1"))

	_, _, err = svc.Login(context.Background(), "yasmine@example.com", "newpassword1")
	require.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "yasmine@example.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPassword_RejectsAccessToken(t *testing.T) {
	svc := newTestService(newMockUserRepo(), &mockAccountNotifier{})

	_, access, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), access, "newpassword1")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	svc := newTestService(newMockUserRepo(), &mockAccountNotifier{})

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

// --- Account management ---

func TestGet_SelfOrAdmin(t *testing.T) {
	client := &User{ID: "u1", Email: "u1@example.com", Role: RoleClient}
	other := &User{ID: "u2", Email: "u2@example.com", Role: RoleClient}
	admin := &User{ID: "a1", Email: "a1@example.com", Role: RoleAdmin}
	svc := newTestService(newMockUserRepo(client, other, admin), &mockAccountNotifier{})

	_, err := svc.Get(context.Background(), "u1", client)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "u1", other)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(context.Background(), "u1", admin)
	require.NoError(t, err)
}

func TestUpdate_EmailChangeResetsVerification(t *testing.T) {
	u := &User{ID: "u1", Email: "u1@example.com", Role: RoleClient, IsEmailVerified: true}
	svc := newTestService(newMockUserRepo(u), &mockAccountNotifier{})

	email := "new@example.com"
	got, err := svc.Update(context.Background(), "u1", UpdateInput{Email: &email}, u)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
	assert.False(t, got.IsEmailVerified)
}

func TestUpdate_EmailTaken(t *testing.T) {
	u1 := &User{ID: "u1", Email: "u1@example.com", Role: RoleClient}
	u2 := &User{ID: "u2", Email: "u2@example.com", Role: RoleClient}
	svc := newTestService(newMockUserRepo(u1, u2), &mockAccountNotifier{})

	email := "u2@example.com"
	_, err := svc.Update(context.Background(), "u1", UpdateInput{Email: &email}, u1)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdate_CategoryOnClientRejected(t *testing.T) {
	u := &User{ID: "u1", Email: "u1@example.com", Role: RoleClient}
	svc := newTestService(newMockUserRepo(u), &mockAccountNotifier{})

	cat := CategoryCuisine
	_, err := svc.Update(context.Background(), "u1", UpdateInput{Category: &cat}, u)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestUpdate_UnknownCategory(t *testing.T) {
	u := &User{ID: "u1", Email: "u1@example.com", Role: RoleArtisan, Category: CategoryCouture}
	svc := newTestService(newMockUserRepo(u), &mockAccountNotifier{})

	cat := Category("alchimie")
	_, err := svc.Update(context.Background(), "u1", UpdateInput{Category: &cat}, u)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestDelete_AdminOnly(t *testing.T) {
	u := &User{ID: "u1", Email: "u1@example.com", Role: RoleClient}
	admin := &User{ID: "a1", Email: "a1@example.com", Role: RoleAdmin}
	svc := newTestService(newMockUserRepo(u, admin), &mockAccountNotifier{})

	require.ErrorIs(t, svc.Delete(context.Background(), "u1", u), ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), "u1", admin))
	require.ErrorIs(t, svc.Delete(context.Background(), "u1", admin), ErrNotFound)
}

func TestList_AdminOnly(t *testing.T) {
	u := &User{ID: "u1", Email: "u1@example.com", Role: RoleClient}
	admin := &User{ID: "a1", Email: "a1@example.com", Role: RoleAdmin}
	svc := newTestService(newMockUserRepo(u, admin), &mockAccountNotifier{})

	_, err := svc.List(context.Background(), Filter{}, pagination.Options{}, u)
	require.ErrorIs(t, err, ErrForbidden)

	page, err := svc.List(context.Background(), Filter{}, pagination.Options{}, admin)
	require.NoError(t, err)
	assert.Len(t, page.Results, 2)
}
