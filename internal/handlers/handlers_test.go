package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lgarzadev/dealercat/internal/auth"
	"github.com/lgarzadev/dealercat/internal/models"
	"github.com/lgarzadev/dealercat/internal/render"
	"github.com/lgarzadev/dealercat/internal/repositories"
)

// ---- in-memory collaborator fakes ----

type fakeAccounts struct {
	byID        map[int]*models.Account
	nextID      int
	failCreate  bool
	failUpdate  bool
	createCalls int
	updateCalls int
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: make(map[int]*models.Account), nextID: 1}
}

func (f *fakeAccounts) Create(_ context.Context, account *models.Account) error {
	f.createCalls++
	if f.failCreate {
		return errors.New("insert failed")
	}
	account.ID = f.nextID
	f.nextID++
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	copied := *account
	f.byID[account.ID] = &copied
	return nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id int) (*models.Account, error) {
	account, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	for _, account := range f.byID {
		if strings.EqualFold(account.Email, email) {
			copied := *account
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAccounts) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(context.Background(), email)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeAccounts) Update(_ context.Context, id int, firstName, lastName, email string) (*models.Account, error) {
	f.updateCalls++
	if f.failUpdate {
		return nil, errors.New("update failed")
	}
	account, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	account.FirstName = firstName
	account.LastName = lastName
	account.Email = email
	account.UpdatedAt = time.Now()
	copied := *account
	return &copied, nil
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, id int, passwordHash string) (*models.Account, error) {
	f.updateCalls++
	if f.failUpdate {
		return nil, errors.New("update failed")
	}
	account, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	account.PasswordHash = passwordHash
	account.UpdatedAt = time.Now()
	copied := *account
	return &copied, nil
}

type fakeClassifications struct {
	list       []*models.Classification
	failCreate bool
}

func (f *fakeClassifications) List(_ context.Context) ([]*models.Classification, error) {
	return f.list, nil
}

func (f *fakeClassifications) Create(_ context.Context, name string) (*models.Classification, error) {
	if f.failCreate {
		return nil, errors.New("insert failed")
	}
	c := &models.Classification{ID: len(f.list) + 1, Name: name}
	f.list = append(f.list, c)
	return c, nil
}

type fakeInventory struct {
	byID       map[int]*models.InventoryItem
	failUpdate bool
	deleted    []int
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{byID: make(map[int]*models.InventoryItem)}
}

func (f *fakeInventory) ListByClassificationID(_ context.Context, classificationID int) ([]*models.InventoryItem, error) {
	var items []*models.InventoryItem
	for _, item := range f.byID {
		if item.ClassificationID == classificationID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeInventory) GetByID(_ context.Context, id int) (*models.InventoryItem, error) {
	item, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeInventory) Create(_ context.Context, item *models.InventoryItem) error {
	item.ID = len(f.byID) + 1
	copied := *item
	f.byID[item.ID] = &copied
	return nil
}

func (f *fakeInventory) Update(_ context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if f.failUpdate {
		return nil, errors.New("update failed")
	}
	if _, ok := f.byID[item.ID]; !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *item
	f.byID[item.ID] = &copied
	return item, nil
}

func (f *fakeInventory) Delete(_ context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeReviews struct {
	created    []*models.Review
	failCreate bool
}

func (f *fakeReviews) ListByInventoryID(_ context.Context, inventoryID int) ([]*models.Review, error) {
	var out []*models.Review
	for _, r := range f.created {
		if r.InventoryID == inventoryID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviews) Create(_ context.Context, review *models.Review) error {
	if f.failCreate {
		return errors.New("insert failed")
	}
	review.ID = len(f.created) + 1
	review.CreatedAt = time.Now()
	f.created = append(f.created, review)
	return nil
}

func (f *fakeReviews) AverageRating(_ context.Context, inventoryID int) (float64, bool, error) {
	sum, n := 0, 0
	for _, r := range f.created {
		if r.InventoryID == inventoryID {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return float64(sum) / float64(n), true, nil
}

type memFlash struct {
	stored map[string]string
}

func newMemFlash() *memFlash {
	return &memFlash{stored: make(map[string]string)}
}

func (m *memFlash) Put(_ context.Context, id, notice string) error {
	m.stored[id] = notice
	return nil
}

func (m *memFlash) Take(_ context.Context, id string) (string, error) {
	notice, ok := m.stored[id]
	if !ok {
		return "", repositories.ErrNotFound
	}
	delete(m.stored, id)
	return notice, nil
}

func (m *memFlash) notices() []string {
	var out []string
	for _, notice := range m.stored {
		out = append(out, notice)
	}
	return out
}

// viewRecorder captures what the handlers asked the view collaborator to
// render.
type viewRecorder struct {
	status int
	page   string
	view   render.View
}

func (v *viewRecorder) Render(w http.ResponseWriter, status int, page string, view render.View) {
	v.status = status
	v.page = page
	v.view = view
	w.WriteHeader(status)
}

// ---- test environment ----

type testEnv struct {
	accounts        *fakeAccounts
	classifications *fakeClassifications
	inventory       *fakeInventory
	reviews         *fakeReviews
	flashStore      *memFlash
	tokens          *auth.TokenService
	pages           *Pages
	rendered        *viewRecorder

	accountHandler   *AccountHandler
	inventoryHandler *InventoryHandler
	reviewHandler    *ReviewHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		accounts:        newFakeAccounts(),
		classifications: &fakeClassifications{},
		inventory:       newFakeInventory(),
		reviews:         &fakeReviews{},
		flashStore:      newMemFlash(),
		rendered:        &viewRecorder{},
	}

	env.tokens = auth.NewTokenService("test-secret", time.Hour, false)
	flash := NewFlash(env.flashStore, false)
	env.pages = NewPages(env.rendered, env.classifications, flash)

	env.accountHandler = NewAccountHandler(env.pages, env.accounts, env.tokens)
	env.inventoryHandler = NewInventoryHandler(env.pages, env.classifications, env.inventory, env.reviews)
	env.reviewHandler = NewReviewHandler(env.pages, env.reviews, env.inventoryHandler)

	return env
}

func (env *testEnv) seedAccount(t *testing.T, firstName, lastName, email, password string, role models.Role) *models.Account {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("seed hash: %v", err)
	}
	account := &models.Account{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := env.accounts.Create(context.Background(), account); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	// Seeding is test setup; only creates triggered by handlers should count.
	env.accounts.createCalls--
	return account
}

// postForm builds a form POST, optionally authenticated and carrying chi URL
// params.
func postForm(target string, form url.Values, identity *models.SafeAccount, params map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return decorate(req, identity, params)
}

func getRequest(target string, identity *models.SafeAccount, params map[string]string) *http.Request {
	return decorate(httptest.NewRequest(http.MethodGet, target, nil), identity, params)
}

func decorate(req *http.Request, identity *models.SafeAccount, params map[string]string) *http.Request {
	ctx := req.Context()
	if identity != nil {
		ctx = auth.WithIdentity(ctx, *identity)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}
