// Command catalog-import bulk-loads artisan posts from gzip-compressed JSONL
// export files (one post per line, as produced by the legacy platform dump).
//
// Files are parsed concurrently. Duplicates within and across files are
// dropped with a bloom filter keyed on artisan email plus title; the filter
// may very rarely drop a non-duplicate, which is acceptable for an import
// that operators review afterwards.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/hirafie/hirafie-backend/internal/domain/post"
	"github.com/hirafie/hirafie-backend/internal/domain/user"
	"github.com/hirafie/hirafie-backend/internal/repository"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	progressEvery = 10_000
)

// postLine is one record of the export format.
type postLine struct {
	ArtisanEmail  string          `json:"artisanEmail"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Type          string          `json:"type"`
	Price         decimal.Decimal `json:"price"`
	PaymentMethod string          `json:"paymentMethod"`
	Delivery      string          `json:"delivery"`
}

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	files := flag.Args()
	if len(files) == 0 {
		slog.Error("no input files: pass one or more .jsonl.gz files")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, files); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, databaseURL string, files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	imp := &importer{
		users: repository.NewUserRepository(pool),
		posts: repository.NewPostRepository(pool),
		seen:  bloom.NewWithEstimates(bloomCapacity, bloomFPR),
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, f := range files {
		g.Go(imp.importFile(ctx, f))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("import summary",
		slog.Uint64("imported", imp.imported),
		slog.Uint64("duplicates", imp.duplicates),
		slog.Uint64("skipped", imp.skipped),
	)
	return nil
}

// importer carries the shared state of one import run. The bloom filter and
// counters are guarded by mu; artisans caches email lookups so each artisan
// is resolved once.
type importer struct {
	users user.Repository
	posts post.Repository

	mu         sync.Mutex
	seen       *bloom.BloomFilter
	artisans   map[string]*user.User
	imported   uint64
	duplicates uint64
	skipped    uint64
}

func (imp *importer) importFile(ctx context.Context, path string) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer f.Close()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "gzip reader for %s", path)
		}
		defer gz.Close()

		var lines uint64
		scanner := bufio.NewScanner(gz)
		scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				return err
			}
			lines++
			if lines%progressEvery == 0 {
				slog.Info("import progress", slog.String("file", path), slog.Uint64("lines", lines))
			}
			if err := imp.importLine(ctx, scanner.Bytes()); err != nil {
				return errors.Wrapf(err, "%s line %d", path, lines)
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrapf(err, "read %s", path)
		}
		return nil
	}
}

func (imp *importer) importLine(ctx context.Context, raw []byte) error {
	var line postLine
	if err := json.Unmarshal(raw, &line); err != nil {
		return errors.Wrap(err, "parse record")
	}

	typ := post.Type(line.Type)
	pm := post.PaymentMethod(line.PaymentMethod)
	delivery := post.DeliveryOption(line.Delivery)
	if line.Title == "" || !typ.Valid() || !pm.Valid() || !delivery.Valid() || line.Price.IsNegative() {
		imp.mu.Lock()
		imp.skipped++
		imp.mu.Unlock()
		return nil
	}

	key := line.ArtisanEmail + "\x00" + line.Title
	imp.mu.Lock()
	if imp.seen.TestAndAddString(key) {
		imp.duplicates++
		imp.mu.Unlock()
		return nil
	}
	imp.mu.Unlock()

	artisan, err := imp.artisan(ctx, line.ArtisanEmail)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			imp.mu.Lock()
			imp.skipped++
			imp.mu.Unlock()
			slog.Warn("unknown artisan, record skipped", slog.String("email", line.ArtisanEmail))
			return nil
		}
		return err
	}

	if err := imp.posts.Create(ctx, &post.Post{
		ID:            uuid.New().String(),
		ArtisanID:     artisan.ID,
		Title:         line.Title,
		Description:   line.Description,
		Type:          typ,
		Price:         line.Price,
		PaymentMethod: pm,
		Delivery:      delivery,
		Category:      artisan.Category,
		IsActive:      true,
	}); err != nil {
		return errors.Wrapf(err, "create post %q", line.Title)
	}

	imp.mu.Lock()
	imp.imported++
	imp.mu.Unlock()
	return nil
}

// artisan resolves an artisan by email, caching the result. Accounts that
// exist but are not artisans count as not found.
func (imp *importer) artisan(ctx context.Context, email string) (*user.User, error) {
	imp.mu.Lock()
	if imp.artisans == nil {
		imp.artisans = make(map[string]*user.User)
	}
	if u, ok := imp.artisans[email]; ok {
		imp.mu.Unlock()
		if u == nil {
			return nil, user.ErrNotFound
		}
		return u, nil
	}
	imp.mu.Unlock()

	u, err := imp.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			imp.mu.Lock()
			imp.artisans[email] = nil
			imp.mu.Unlock()
		}
		return nil, err
	}
	if u.Role != user.RoleArtisan {
		imp.mu.Lock()
		imp.artisans[email] = nil
		imp.mu.Unlock()
		return nil, user.ErrNotFound
	}

	imp.mu.Lock()
	imp.artisans[email] = u
	imp.mu.Unlock()
	return u, nil
}
