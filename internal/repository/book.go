package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookheaven/bookheaven/internal/domain/book"
)

// bookColumns is the select list shared by every catalog query. The average
// rating is derived from reviews at read time.
const bookColumns = `b.id, b.title, b.author, b.isbn, b.description, b.genre, b.language,
	b.format, b.publisher, b.publication_date, b.page_count, b.price, b.stock_quantity,
	b.image_url, b.is_available_in_library, b.is_on_sale, b.discount_percent,
	b.discount_start, b.discount_end, b.created_at,
	COALESCE((SELECT AVG(r.rating)::float8 FROM reviews r WHERE r.book_id = b.id), 0)`

const (
	getBookByIDSQL  = `SELECT ` + bookColumns + ` FROM books b WHERE b.id = $1`
	getBooksByIDSQL = `SELECT ` + bookColumns + ` FROM books b WHERE b.id = ANY($1)`

	insertBookSQL = `INSERT INTO books (id, title, author, isbn, description, genre, language,
		format, publisher, publication_date, page_count, price, stock_quantity, image_url,
		is_available_in_library, is_on_sale, discount_percent, discount_start, discount_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	updateBookSQL = `UPDATE books SET title = $2, author = $3, isbn = $4, description = $5,
		genre = $6, language = $7, format = $8, publisher = $9, publication_date = $10,
		page_count = $11, price = $12, stock_quantity = $13, image_url = $14,
		is_available_in_library = $15, is_on_sale = $16, discount_percent = $17,
		discount_start = $18, discount_end = $19
		WHERE id = $1`

	deleteBookSQL = `DELETE FROM books WHERE id = $1`
)

var _ book.Repository = (*BookRepository)(nil)

// BookRepository implements book.Repository backed by PostgreSQL.
type BookRepository struct {
	pool *pgxpool.Pool
}

// NewBookRepository returns a BookRepository that uses the given pool.
func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

// List returns catalog entries matching the filter, ordered by title.
func (r *BookRepository) List(ctx context.Context, f book.Filter) ([]book.Book, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, fmt.Sprintf("(b.title ILIKE %[1]s OR b.isbn ILIKE %[1]s OR b.description ILIKE %[1]s)", p))
	}
	if f.Genre != "" {
		where = append(where, "b.genre = "+arg(f.Genre))
	}
	if f.Author != "" {
		where = append(where, "b.author = "+arg(f.Author))
	}
	if f.Language != "" {
		where = append(where, "b.language = "+arg(f.Language))
	}
	if f.Format != "" {
		where = append(where, "b.format = "+arg(f.Format))
	}
	if f.OnSale != nil {
		where = append(where, "b.is_on_sale = "+arg(*f.OnSale))
	}
	if f.MinPrice != nil {
		where = append(where, "b.price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		where = append(where, "b.price <= "+arg(*f.MaxPrice))
	}

	query := `SELECT ` + bookColumns + ` FROM books b`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY b.title"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "listing books")
	}
	return pgx.CollectRows(rows, scanBook)
}

// GetByID returns a single book. Returns book.ErrNotFound when absent.
func (r *BookRepository) GetByID(ctx context.Context, id string) (*book.Book, error) {
	rows, err := r.pool.Query(ctx, getBookByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "getting book %q", id)
	}

	b, err := pgx.CollectExactlyOneRow(rows, scanBook)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, book.ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting book %q", id)
	}
	return &b, nil
}

// GetByIDs returns books matching any of the given IDs. Unknown ids are
// simply omitted from the result.
func (r *BookRepository) GetByIDs(ctx context.Context, ids []string) ([]book.Book, error) {
	rows, err := r.pool.Query(ctx, getBooksByIDSQL, ids)
	if err != nil {
		return nil, errors.Wrap(err, "getting books by ids")
	}
	return pgx.CollectRows(rows, scanBook)
}

// Create inserts a new catalog entry.
func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	_, err := r.pool.Exec(ctx, insertBookSQL,
		b.ID, b.Title, b.Author, b.ISBN, b.Description, b.Genre, b.Language,
		b.Format, b.Publisher, b.PublicationDate, b.PageCount, b.Price, b.StockQuantity,
		b.ImageURL, b.IsAvailableInLibrary, b.IsOnSale, b.DiscountPercent,
		b.DiscountStart, b.DiscountEnd,
	)
	if err != nil {
		return errors.Wrapf(err, "creating book %q", b.ID)
	}
	return nil
}

// Update replaces all mutable fields of a catalog entry.
func (r *BookRepository) Update(ctx context.Context, b *book.Book) error {
	tag, err := r.pool.Exec(ctx, updateBookSQL,
		b.ID, b.Title, b.Author, b.ISBN, b.Description, b.Genre, b.Language,
		b.Format, b.Publisher, b.PublicationDate, b.PageCount, b.Price, b.StockQuantity,
		b.ImageURL, b.IsAvailableInLibrary, b.IsOnSale, b.DiscountPercent,
		b.DiscountStart, b.DiscountEnd,
	)
	if err != nil {
		return errors.Wrapf(err, "updating book %q", b.ID)
	}
	if tag.RowsAffected() == 0 {
		return book.ErrNotFound
	}
	return nil
}

// Delete removes a catalog entry.
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteBookSQL, id)
	if err != nil {
		return errors.Wrapf(err, "deleting book %q", id)
	}
	if tag.RowsAffected() == 0 {
		return book.ErrNotFound
	}
	return nil
}

func scanBook(row pgx.CollectableRow) (book.Book, error) {
	var b book.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Description, &b.Genre, &b.Language,
		&b.Format, &b.Publisher, &b.PublicationDate, &b.PageCount, &b.Price, &b.StockQuantity,
		&b.ImageURL, &b.IsAvailableInLibrary, &b.IsOnSale, &b.DiscountPercent,
		&b.DiscountStart, &b.DiscountEnd, &b.CreatedAt, &b.AverageRating,
	)
	return b, err
}
