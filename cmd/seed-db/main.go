// Command seed-db loads the catalog seed file and bootstrap accounts into the
// database. It is safe to run repeatedly: books are upserted and existing
// accounts are left untouched.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/bookheaven/bookheaven/internal/domain/account"
	"github.com/bookheaven/bookheaven/internal/repository"
)

type bookJSON struct {
	ID                   string          `json:"id"`
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

func main() {
	var (
		databaseURL   string
		booksFile     string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&booksFile, "books-file", "db/seed/books.json", "path to books JSON file")
	flag.StringVar(&adminEmail, "admin-email", "admin@bookheaven.local", "bootstrap admin email")
	flag.StringVar(&adminPassword, "admin-password", "", "bootstrap admin password (or BOOKHEAVEN_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("BOOKHEAVEN_SEED_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or BOOKHEAVEN_SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, booksFile, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, booksFile, adminEmail, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedBooks(ctx, pool, booksFile); err != nil {
		return errors.Wrap(err, "seed books")
	}

	if err := seedAdmin(ctx, pool, adminEmail, adminPassword); err != nil {
		return errors.Wrap(err, "seed admin account")
	}

	return nil
}

const upsertBookSQL = `INSERT INTO books (id, title, author, isbn, description, genre, language,
	format, publisher, publication_date, page_count, price, stock_quantity, image_url,
	is_available_in_library, is_on_sale, discount_percent, discount_start, discount_end)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title, author = EXCLUDED.author, isbn = EXCLUDED.isbn,
		description = EXCLUDED.description, genre = EXCLUDED.genre,
		language = EXCLUDED.language, format = EXCLUDED.format,
		publisher = EXCLUDED.publisher, publication_date = EXCLUDED.publication_date,
		page_count = EXCLUDED.page_count, price = EXCLUDED.price,
		stock_quantity = EXCLUDED.stock_quantity, image_url = EXCLUDED.image_url,
		is_available_in_library = EXCLUDED.is_available_in_library,
		is_on_sale = EXCLUDED.is_on_sale, discount_percent = EXCLUDED.discount_percent,
		discount_start = EXCLUDED.discount_start, discount_end = EXCLUDED.discount_end`

func seedBooks(ctx context.Context, pool *pgxpool.Pool, booksFile string) error {
	slog.Info("reading books file", slog.String("path", booksFile))

	data, err := os.ReadFile(booksFile)
	if err != nil {
		return errors.Wrap(err, "read books file")
	}

	var books []bookJSON
	if err := json.Unmarshal(data, &books); err != nil {
		return errors.Wrap(err, "parse books JSON")
	}

	slog.Info("upserting books", slog.Int("count", len(books)))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, b := range books {
		g.Go(func() error {
			_, err := pool.Exec(ctx, upsertBookSQL,
				b.ID, b.Title, b.Author, b.ISBN, b.Description, b.Genre, b.Language,
				b.Format, b.Publisher, b.PublicationDate, b.PageCount, b.Price,
				b.StockQuantity, b.ImageURL, b.IsAvailableInLibrary, b.IsOnSale,
				b.DiscountPercent, b.DiscountStart, b.DiscountEnd,
			)
			if err != nil {
				return errors.Wrapf(err, "upsert book %s", b.ID)
			}

			slog.Info("upserted book", slog.String("id", b.ID), slog.String("title", b.Title))
			return nil
		})
	}
	return g.Wait()
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	slog.Info("seeding bootstrap admin", slog.String("email", email))

	a, err := account.New("Administrator", email, password, account.RoleAdmin, "")
	if err != nil {
		return errors.Wrap(err, "build admin account")
	}

	accounts := repository.NewAccountRepository(pool)
	if err := accounts.Create(ctx, a); err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			slog.Info("admin account already exists, skipping")
			return nil
		}
		return errors.Wrap(err, "create admin account")
	}

	slog.Info("created admin account", slog.String("id", a.ID))
	return nil
}
