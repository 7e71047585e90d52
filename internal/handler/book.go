package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookheaven/bookheaven/internal/domain/book"
)

type bookPayload struct {
	Title                string          `json:"title"`
	Author               string          `json:"author"`
	ISBN                 string          `json:"isbn"`
	Description          string          `json:"description"`
	Genre                string          `json:"genre"`
	Language             string          `json:"language"`
	Format               string          `json:"format"`
	Publisher            string          `json:"publisher"`
	PublicationDate      *time.Time      `json:"publicationDate"`
	PageCount            int             `json:"pageCount"`
	Price                decimal.Decimal `json:"price"`
	StockQuantity        int             `json:"stockQuantity"`
	ImageURL             string          `json:"imageUrl"`
	IsAvailableInLibrary bool            `json:"isAvailableInLibrary"`
	IsOnSale             bool            `json:"isOnSale"`
	DiscountPercent      decimal.Decimal `json:"discountPercent"`
	DiscountStart        *time.Time      `json:"discountStart"`
	DiscountEnd          *time.Time      `json:"discountEnd"`
}

type bookResponse struct {
	ID string `json:"id"`
	bookPayload
	AverageRating float64   `json:"averageRating"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toBookResponse(b *book.Book) bookResponse {
	return bookResponse{
		ID: b.ID,
		bookPayload: bookPayload{
			Title:                b.Title,
			Author:               b.Author,
			ISBN:                 b.ISBN,
			Description:          b.Description,
			Genre:                b.Genre,
			Language:             b.Language,
			Format:               b.Format,
			Publisher:            b.Publisher,
			PublicationDate:      b.PublicationDate,
			PageCount:            b.PageCount,
			Price:                b.Price,
			StockQuantity:        b.StockQuantity,
			ImageURL:             b.ImageURL,
			IsAvailableInLibrary: b.IsAvailableInLibrary,
			IsOnSale:             b.IsOnSale,
			DiscountPercent:      b.DiscountPercent,
			DiscountStart:        b.DiscountStart,
			DiscountEnd:          b.DiscountEnd,
		},
		AverageRating: b.AverageRating,
		CreatedAt:     b.CreatedAt,
	}
}

// bookFilterFromQuery parses listing filters from query parameters. Unknown
// or empty parameters are ignored; malformed numeric ones answer 400.
func bookFilterFromQuery(r *http.Request) (book.Filter, error) {
	q := r.URL.Query()
	f := book.Filter{
		Search:   q.Get("search"),
		Genre:    q.Get("genre"),
		Author:   q.Get("author"),
		Language: q.Get("language"),
		Format:   q.Get("format"),
	}

	if v := q.Get("onSale"); v != "" {
		onSale := v == "true" || v == "1"
		f.OnSale = &onSale
	}
	if v := q.Get("minPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, errors.New("invalid minPrice")
		}
		f.MinPrice = &d
	}
	if v := q.Get("maxPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, errors.New("invalid maxPrice")
		}
		f.MaxPrice = &d
	}
	return f, nil
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	f, err := bookFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	books, err := h.books.List(r.Context(), f)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	out := make([]bookResponse, len(books))
	for i := range books {
		out[i] = toBookResponse(&books[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	b, err := h.books.GetByID(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			writeError(w, http.StatusNotFound, book.ErrNotFound.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookResponse(b))
}

func (p *bookPayload) validate() error {
	if p.Title == "" || p.Author == "" {
		return errors.New("title and author are required")
	}
	if p.Price.IsNegative() {
		return errors.New("price must not be negative")
	}
	if p.DiscountPercent.IsNegative() || p.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("discountPercent must be between 0 and 100")
	}
	return nil
}

func (p *bookPayload) apply(b *book.Book) {
	b.Title = p.Title
	b.Author = p.Author
	b.ISBN = p.ISBN
	b.Description = p.Description
	b.Genre = p.Genre
	b.Language = p.Language
	b.Format = p.Format
	b.Publisher = p.Publisher
	b.PublicationDate = p.PublicationDate
	b.PageCount = p.PageCount
	b.Price = p.Price
	b.StockQuantity = p.StockQuantity
	b.ImageURL = p.ImageURL
	b.IsAvailableInLibrary = p.IsAvailableInLibrary
	b.IsOnSale = p.IsOnSale
	b.DiscountPercent = p.DiscountPercent
	b.DiscountStart = p.DiscountStart
	b.DiscountEnd = p.DiscountEnd
}

func (h *Handler) createBook(w http.ResponseWriter, r *http.Request) {
	var req bookPayload
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b := &book.Book{ID: uuid.New().String(), CreatedAt: time.Now()}
	req.apply(b)

	if err := h.books.Create(r.Context(), b); err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookResponse(b))
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	var req bookPayload
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.books.GetByID(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			writeError(w, http.StatusNotFound, book.ErrNotFound.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}
	req.apply(b)

	if err := h.books.Update(r.Context(), b); err != nil {
		if errors.Is(err, book.ErrNotFound) {
			writeError(w, http.StatusNotFound, book.ErrNotFound.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookResponse(b))
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	if err := h.books.Delete(r.Context(), chi.URLParam(r, "bookID")); err != nil {
		if errors.Is(err, book.ErrNotFound) {
			writeError(w, http.StatusNotFound, book.ErrNotFound.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "book removed"})
}
