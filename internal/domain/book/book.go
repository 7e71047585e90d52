package book

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested book does not exist.
var ErrNotFound = errors.New("book not found")

// Book represents a catalog entry available for purchase.
type Book struct {
	ID                   string
	Title                string
	Author               string
	ISBN                 string
	Description          string
	Genre                string
	Language             string
	Format               string
	Publisher            string
	PublicationDate      *time.Time
	PageCount            int
	Price                decimal.Decimal
	StockQuantity        int
	ImageURL             string
	IsAvailableInLibrary bool
	IsOnSale             bool
	DiscountPercent      decimal.Decimal
	DiscountStart        *time.Time
	DiscountEnd          *time.Time
	CreatedAt            time.Time

	// AverageRating is derived from reviews at read time; zero when the
	// book has no reviews.
	AverageRating float64
}

// Filter narrows catalog listings. Zero values mean "no constraint".
type Filter struct {
	Search   string
	Genre    string
	Author   string
	Language string
	Format   string
	OnSale   *bool
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Repository defines persistence operations for the catalog.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Book, error)
	GetByID(ctx context.Context, id string) (*Book, error)
	GetByIDs(ctx context.Context, ids []string) ([]Book, error)
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id string) error
}
