// Package fulfillment implements the staff-side claim-code workflow: a member
// presents their order's claim code, staff record the hand-over once, and the
// order becomes fulfilled.
package fulfillment

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrOrderNotFound is returned when no order carries the claim code, or
	// the matching order has been cancelled.
	ErrOrderNotFound = errors.New("order not found or has been cancelled")
	// ErrAlreadyFulfilled is returned when a fulfillment record already
	// exists for the order. It is an idempotency signal, not a retry hint.
	ErrAlreadyFulfilled = errors.New("order has already been fulfilled")
)

// Record is one fulfillment event. At most one exists per order.
type Record struct {
	OrderID     string
	StaffID     string
	ProcessedAt time.Time
}

// FulfilledOrder is the staff view of a completed order.
type FulfilledOrder struct {
	OrderID     string
	MemberName  string
	TotalPrice  decimal.Decimal
	ProcessedAt time.Time
}

// Repository defines persistence operations for fulfillment records. The
// implementation must make Fulfill race-safe through a uniqueness constraint
// on the order id, not an application-level lock.
type Repository interface {
	// Fulfill records the fulfillment and flips the order to fulfilled in one
	// transaction. It returns ErrOrderNotFound for unknown codes and orders
	// already cancelled, and ErrAlreadyFulfilled when a record exists.
	Fulfill(ctx context.Context, claimCode, staffID string) (*Record, error)
	// ListFulfilled returns fulfilled orders, most recently processed first.
	ListFulfilled(ctx context.Context) ([]FulfilledOrder, error)
}

// Service exposes the fulfillment workflow to the handler layer.
type Service struct {
	records Repository
}

// NewService creates a fulfillment Service.
func NewService(records Repository) *Service {
	return &Service{records: records}
}

// Fulfill marks the order identified by claimCode as handed over by staffID.
func (s *Service) Fulfill(ctx context.Context, staffID, claimCode string) (*Record, error) {
	if claimCode == "" {
		return nil, ErrOrderNotFound
	}
	rec, err := s.records.Fulfill(ctx, claimCode, staffID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrAlreadyFulfilled) {
			return nil, err
		}
		return nil, errors.Wrap(err, "fulfill order")
	}
	return rec, nil
}

// ListFulfilled returns all fulfilled orders for the staff dashboard.
func (s *Service) ListFulfilled(ctx context.Context) ([]FulfilledOrder, error) {
	out, err := s.records.ListFulfilled(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list fulfilled orders")
	}
	return out, nil
}
