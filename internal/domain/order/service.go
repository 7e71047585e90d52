package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookheaven/bookheaven/internal/domain/book"
)

// Discount thresholds and rates for order-level discounts.
var (
	bulkThreshold    = 5
	loyaltyThreshold = 10
	bulkMultiplier   = decimal.RequireFromString("0.95")
	loyalMultiplier  = decimal.RequireFromString("0.90")
)

// Service assembles and manages orders. All collaborators are injected;
// the acting member is always an explicit parameter.
type Service struct {
	books  book.Repository
	orders Repository
	now    func() time.Time
}

// NewService creates an order Service with the required domain dependencies.
func NewService(books book.Repository, orders Repository) *Service {
	return &Service{
		books:  books,
		orders: orders,
		now:    time.Now,
	}
}

// PlaceOrder validates items, fetches books in a single batch, prices each
// line at its effective sale price, applies the bulk and loyalty discounts
// multiplicatively, attaches a claim code, and persists the order atomically.
func (s *Service) PlaceOrder(ctx context.Context, memberID string, items []Item) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	// Validate quantities and collect book IDs.
	ids := make([]string, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{BookID: item.BookID}
		}
		ids[i] = item.BookID
	}

	// Batch fetch all books in a single query.
	fetched, err := s.books.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get books")
	}

	byID := make(map[string]*book.Book, len(fetched))
	for i := range fetched {
		byID[fetched[i].ID] = &fetched[i]
	}

	// Build lines at one evaluation instant so a sale window cannot open or
	// close between two lines of the same order.
	at := s.now()
	lines := make([]Line, len(items))
	total := decimal.Zero
	totalQty := 0
	for i, item := range items {
		b, ok := byID[item.BookID]
		if !ok {
			return nil, &BookNotFoundError{BookID: item.BookID}
		}

		unit, err := book.EffectiveUnitPrice(b, at)
		if err != nil {
			return nil, errors.Wrapf(err, "price book %s", b.ID)
		}

		lines[i] = Line{
			BookID:    b.ID,
			BookTitle: b.Title,
			Quantity:  item.Quantity,
			UnitPrice: unit,
		}
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
		totalQty += item.Quantity
	}

	// Order-level discounts are multiplicative and sequential: bulk first,
	// then loyalty on the already-reduced total.
	bulk := totalQty >= bulkThreshold
	if bulk {
		total = total.Mul(bulkMultiplier)
	}

	fulfilled, err := s.orders.CountFulfilled(ctx, memberID)
	if err != nil {
		return nil, errors.Wrap(err, "count fulfilled orders")
	}
	loyal := fulfilled >= loyaltyThreshold
	if loyal {
		total = total.Mul(loyalMultiplier)
	}
	total = total.Round(2)

	code, err := newClaimCode()
	if err != nil {
		return nil, errors.Wrap(err, "generate claim code")
	}

	o := &Order{
		ID:              uuid.New().String(),
		MemberID:        memberID,
		Status:          StatusPending,
		Lines:           lines,
		TotalPrice:      total,
		BulkDiscount:    bulk,
		LoyaltyDiscount: loyal,
		ClaimCode:       code,
		CreatedAt:       at,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// CancelOrder transitions the member's pending order to cancelled.
func (s *Service) CancelOrder(ctx context.Context, memberID, orderID string) error {
	return s.orders.Cancel(ctx, memberID, orderID)
}

// ListOrders returns the member's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, memberID string) ([]Order, error) {
	orders, err := s.orders.ListByMember(ctx, memberID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

// BookIDs returns the distinct book ids across the order's lines. The handler
// uses it to clear exactly the ordered books from the member's cart.
func (o *Order) BookIDs() []string {
	seen := make(map[string]struct{}, len(o.Lines))
	ids := make([]string, 0, len(o.Lines))
	for _, l := range o.Lines {
		if _, ok := seen[l.BookID]; ok {
			continue
		}
		seen[l.BookID] = struct{}{}
		ids = append(ids, l.BookID)
	}
	return ids
}
