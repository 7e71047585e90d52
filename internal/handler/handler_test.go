package handler

import (
	"context"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/bookheaven/bookheaven/internal/domain/account"
	"github.com/bookheaven/bookheaven/internal/domain/announcement"
	"github.com/bookheaven/bookheaven/internal/domain/book"
	"github.com/bookheaven/bookheaven/internal/domain/bookmark"
	"github.com/bookheaven/bookheaven/internal/domain/cart"
	"github.com/bookheaven/bookheaven/internal/domain/fulfillment"
	"github.com/bookheaven/bookheaven/internal/domain/order"
	"github.com/bookheaven/bookheaven/internal/domain/review"
)

// In-memory repositories backing the handler tests. They implement just
// enough semantics for the routes under test; persistence-level behaviour is
// covered by the repository package.

type memBooks struct {
	byID map[string]book.Book
}

func (m *memBooks) List(_ context.Context, _ book.Filter) ([]book.Book, error) {
	out := make([]book.Book, 0, len(m.byID))
	for _, b := range m.byID {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *memBooks) GetByID(_ context.Context, id string) (*book.Book, error) {
	b, ok := m.byID[id]
	if !ok {
		return nil, book.ErrNotFound
	}
	return &b, nil
}

func (m *memBooks) GetByIDs(_ context.Context, ids []string) ([]book.Book, error) {
	out := make([]book.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := m.byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBooks) Create(_ context.Context, b *book.Book) error {
	m.byID[b.ID] = *b
	return nil
}

func (m *memBooks) Update(_ context.Context, b *book.Book) error {
	if _, ok := m.byID[b.ID]; !ok {
		return book.ErrNotFound
	}
	m.byID[b.ID] = *b
	return nil
}

func (m *memBooks) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return book.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memOrders struct {
	orders         []order.Order
	fulfilledCount int
}

func (m *memOrders) Create(_ context.Context, o *order.Order) error {
	m.orders = append(m.orders, *o)
	return nil
}

func (m *memOrders) ListByMember(_ context.Context, memberID string) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.orders {
		if o.MemberID == memberID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) Cancel(_ context.Context, memberID, orderID string) error {
	for i, o := range m.orders {
		if o.ID == orderID && o.MemberID == memberID {
			if o.Status != order.StatusPending {
				return order.ErrNotCancellable
			}
			m.orders[i].Status = order.StatusCancelled
			return nil
		}
	}
	return order.ErrOrderNotFound
}

func (m *memOrders) CountFulfilled(_ context.Context, _ string) (int, error) {
	return m.fulfilledCount, nil
}

type memCarts struct {
	// memberID -> bookID -> quantity
	items map[string]map[string]int
}

func (m *memCarts) List(_ context.Context, memberID string) ([]cart.Entry, error) {
	var out []cart.Entry
	for bookID, qty := range m.items[memberID] {
		out = append(out, cart.Entry{BookID: bookID, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookID < out[j].BookID })
	return out, nil
}

func (m *memCarts) Upsert(_ context.Context, memberID, bookID string, quantity int) error {
	if m.items[memberID] == nil {
		m.items[memberID] = make(map[string]int)
	}
	m.items[memberID][bookID] = quantity
	return nil
}

func (m *memCarts) Remove(_ context.Context, memberID, bookID string) error {
	delete(m.items[memberID], bookID)
	return nil
}

func (m *memCarts) Clear(_ context.Context, memberID string) error {
	delete(m.items, memberID)
	return nil
}

func (m *memCarts) RemoveBooks(_ context.Context, memberID string, bookIDs []string) error {
	for _, id := range bookIDs {
		delete(m.items[memberID], id)
	}
	return nil
}

type memAccounts struct {
	byID map[string]account.Account
}

func (m *memAccounts) Create(_ context.Context, a *account.Account) error {
	for _, existing := range m.byID {
		if existing.Email == a.Email {
			return account.ErrEmailTaken
		}
	}
	m.byID[a.ID] = *a
	return nil
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (*account.Account, error) {
	for _, a := range m.byID {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, account.ErrNotFound
}

func (m *memAccounts) GetByID(_ context.Context, id string) (*account.Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	return &a, nil
}

func (m *memAccounts) ListByRole(_ context.Context, role account.Role) ([]account.Account, error) {
	var out []account.Account
	for _, a := range m.byID {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAccounts) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return account.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memFulfillments struct {
	// claimCode -> order
	byCode    map[string]*order.Order
	fulfilled map[string]fulfillment.Record
}

func (m *memFulfillments) Fulfill(_ context.Context, claimCode, staffID string) (*fulfillment.Record, error) {
	o, ok := m.byCode[claimCode]
	if !ok || o.Status == order.StatusCancelled {
		return nil, fulfillment.ErrOrderNotFound
	}
	if _, done := m.fulfilled[o.ID]; done {
		return nil, fulfillment.ErrAlreadyFulfilled
	}
	rec := fulfillment.Record{OrderID: o.ID, StaffID: staffID, ProcessedAt: time.Now()}
	m.fulfilled[o.ID] = rec
	o.Status = order.StatusFulfilled
	return &rec, nil
}

func (m *memFulfillments) ListFulfilled(_ context.Context) ([]fulfillment.FulfilledOrder, error) {
	var out []fulfillment.FulfilledOrder
	for _, rec := range m.fulfilled {
		out = append(out, fulfillment.FulfilledOrder{OrderID: rec.OrderID, ProcessedAt: rec.ProcessedAt})
	}
	return out, nil
}

type memReviews struct {
	reviews []review.Review
}

func (m *memReviews) Create(_ context.Context, r *review.Review) error {
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *memReviews) ListByBook(_ context.Context, bookID string) ([]review.Review, error) {
	var out []review.Review
	for _, r := range m.reviews {
		if r.BookID == bookID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReviews) List(_ context.Context) ([]review.Review, error) {
	return m.reviews, nil
}

func (m *memReviews) Delete(_ context.Context, id string) error {
	for i, r := range m.reviews {
		if r.ID == id {
			m.reviews = append(m.reviews[:i], m.reviews[i+1:]...)
			return nil
		}
	}
	return review.ErrNotFound
}

type memBookmarks struct {
	// memberID -> bookID
	marks map[string]map[string]bool
}

func (m *memBookmarks) Add(_ context.Context, memberID, bookID string) error {
	if m.marks[memberID][bookID] {
		return bookmark.ErrDuplicate
	}
	if m.marks[memberID] == nil {
		m.marks[memberID] = make(map[string]bool)
	}
	m.marks[memberID][bookID] = true
	return nil
}

func (m *memBookmarks) List(_ context.Context, memberID string) ([]bookmark.Bookmark, error) {
	var out []bookmark.Bookmark
	for bookID := range m.marks[memberID] {
		out = append(out, bookmark.Bookmark{BookID: bookID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookID < out[j].BookID })
	return out, nil
}

func (m *memBookmarks) Remove(_ context.Context, memberID, bookID string) error {
	if !m.marks[memberID][bookID] {
		return bookmark.ErrNotFound
	}
	delete(m.marks[memberID], bookID)
	return nil
}

type memAnnouncements struct {
	list []announcement.Announcement
}

func (m *memAnnouncements) Create(_ context.Context, a *announcement.Announcement) error {
	m.list = append(m.list, *a)
	return nil
}

func (m *memAnnouncements) List(_ context.Context) ([]announcement.Announcement, error) {
	return m.list, nil
}

func (m *memAnnouncements) Update(_ context.Context, a *announcement.Announcement) error {
	for i, existing := range m.list {
		if existing.ID == a.ID {
			a.CreatedAt = existing.CreatedAt
			m.list[i] = *a
			return nil
		}
	}
	return announcement.ErrNotFound
}

func (m *memAnnouncements) Delete(_ context.Context, id string) error {
	for i, a := range m.list {
		if a.ID == id {
			m.list = append(m.list[:i], m.list[i+1:]...)
			return nil
		}
	}
	return announcement.ErrNotFound
}

// testEnv wires a full Handler over in-memory repositories.
type testEnv struct {
	router chi.Router
	tokens *account.TokenIssuer

	books        *memBooks
	orders       *memOrders
	carts        *memCarts
	accounts     *memAccounts
	fulfillments *memFulfillments
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		tokens:       account.NewTokenIssuer([]byte("test-secret"), time.Hour),
		books:        &memBooks{byID: make(map[string]book.Book)},
		orders:       &memOrders{},
		carts:        &memCarts{items: make(map[string]map[string]int)},
		accounts:     &memAccounts{byID: make(map[string]account.Account)},
		fulfillments: &memFulfillments{byCode: make(map[string]*order.Order), fulfilled: make(map[string]fulfillment.Record)},
	}

	h := NewHandler(
		account.NewService(env.accounts, env.tokens),
		env.books,
		cart.NewService(env.carts),
		order.NewService(env.books, env.orders),
		fulfillment.NewService(env.fulfillments),
		review.NewService(&memReviews{}),
		&memBookmarks{marks: make(map[string]map[string]bool)},
		announcement.NewService(&memAnnouncements{}),
	)
	env.router = h.Routes()
	return env
}

// addAccount stores an account with the given role and returns it with a
// valid bearer token.
func (env *testEnv) addAccount(t *testing.T, role account.Role) (*account.Account, string) {
	t.Helper()

	a, err := account.New("Test "+string(role), string(role)+"@example.com", "secret123", role, "")
	require.NoError(t, err)
	require.NoError(t, env.accounts.Create(context.Background(), a))

	token, err := env.tokens.Issue(a)
	require.NoError(t, err)
	return a, token
}

func authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
