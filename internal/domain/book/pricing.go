package book

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ErrCorruptDiscount indicates a discount percent outside [0,100] reached the
// pricing path. The catalog is supposed to clamp on write, so this is a
// data-integrity fault to surface, not to silently repair.
var ErrCorruptDiscount = errors.New("discount percent outside [0,100]")

// EffectiveUnitPrice returns the per-unit price of b at the given instant.
// The sale discount applies only when the sale flag is set and the instant
// falls within the discount window; window bounds are inclusive, and an unset
// bound does not constrain. The result is not rounded; callers round once at
// the order total.
func EffectiveUnitPrice(b *Book, at time.Time) (decimal.Decimal, error) {
	if !saleActive(b, at) {
		return b.Price, nil
	}

	if b.DiscountPercent.IsNegative() || b.DiscountPercent.GreaterThan(hundred) {
		return decimal.Zero, errors.Wrapf(ErrCorruptDiscount, "book %s", b.ID)
	}

	multiplier := decimal.NewFromInt(1).Sub(b.DiscountPercent.Div(hundred))
	return b.Price.Mul(multiplier), nil
}

func saleActive(b *Book, at time.Time) bool {
	if !b.IsOnSale {
		return false
	}
	if b.DiscountStart != nil && at.Before(*b.DiscountStart) {
		return false
	}
	if b.DiscountEnd != nil && at.After(*b.DiscountEnd) {
		return false
	}
	return true
}
