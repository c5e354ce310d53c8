package googlebooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"bookhub/database"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
)

// DefaultQueries are searched when the operator names none.
var DefaultQueries = []string{"fiction", "fantasy", "science fiction", "mystery", "thriller"}

type ImportResult struct {
	Added   int64
	Skipped int64
	Failed  int64
}

type outcome int

const (
	added outcome = iota
	skipped
)

// Importer pages through search results and stores new books concurrently.
type Importer struct {
	client     *Client
	books      repository.BookRepository
	categories repository.CategoryRepository
	covers     *CoverStore
	workers    int
	log        *slog.Logger
}

// NewImporter builds an importer; a nil covers store leaves cover_image empty.
func NewImporter(client *Client, books repository.BookRepository, categories repository.CategoryRepository, covers *CoverStore, workers int, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{
		client:     client,
		books:      books,
		categories: categories,
		covers:     covers,
		workers:    workers,
		log:        log,
	}
}

// Import fetches up to limit volumes for query and adds the ones the catalog lacks.
func (im *Importer) Import(ctx context.Context, query string, limit int) (ImportResult, error) {
	var addedCount, skippedCount, failedCount atomic.Int64

	pool := NewWorkerPool(ctx, im.workers, im.log)
	pool.Start()

	var searchErr error
	for start := 0; start < limit; start += MaxPageSize {
		page, err := im.client.Search(ctx, query, start, min(MaxPageSize, limit-start))
		if err != nil {
			searchErr = err
			break
		}
		for _, v := range page.Items {
			info := v.VolumeInfo
			ok := pool.Submit(func(ctx context.Context) error {
				result, err := im.importVolume(ctx, info)
				switch {
				case err != nil:
					failedCount.Add(1)
					return fmt.Errorf("import %q: %w", info.Title, err)
				case result == added:
					addedCount.Add(1)
				default:
					skippedCount.Add(1)
				}
				return nil
			})
			if !ok {
				break
			}
		}
		if len(page.Items) < MaxPageSize || start+len(page.Items) >= page.TotalItems {
			break
		}
	}
	pool.Wait()

	res := ImportResult{Added: addedCount.Load(), Skipped: skippedCount.Load(), Failed: failedCount.Load()}
	im.log.Info("google books import finished",
		"query", query, "added", res.Added, "skipped", res.Skipped, "failed", res.Failed)
	if searchErr != nil {
		return res, searchErr
	}
	return res, ctx.Err()
}

func (im *Importer) importVolume(ctx context.Context, info VolumeInfo) (outcome, error) {
	book := info.ToBook()
	if book.Title == "" {
		im.log.Debug("skipping volume without title")
		return skipped, nil
	}
	if book.ISBN == nil {
		im.log.Debug("skipping volume without ISBN", "title", book.Title)
		return skipped, nil
	}

	taken, err := im.books.ISBNTaken(ctx, *book.ISBN, 0)
	if err != nil {
		return skipped, err
	}
	if taken {
		im.log.Debug("skipping known ISBN", "isbn", *book.ISBN)
		return skipped, nil
	}

	categories, err := im.resolveCategories(ctx, info.Categories)
	if err != nil {
		return skipped, err
	}

	if thumb := info.Thumbnail(); thumb != "" && im.covers != nil {
		cover, err := im.covers.Save(ctx, thumb, *book.ISBN)
		if err != nil {
			im.log.Warn("cover download failed", "isbn", *book.ISBN, "error", err)
		} else {
			book.CoverImage = &cover
		}
	}

	if err := im.books.Create(ctx, &book, categories); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return skipped, nil
		}
		return skipped, err
	}
	im.log.Info("book imported", "title", book.Title, "isbn", *book.ISBN, "has_cover", book.CoverImage != nil)
	return added, nil
}

// resolveCategories maps "Fiction / Fantasy" style labels onto their top-level category.
func (im *Importer) resolveCategories(ctx context.Context, labels []string) ([]models.Category, error) {
	seen := make(map[string]bool, len(labels))
	categories := make([]models.Category, 0, len(labels))
	for _, label := range labels {
		name, _, _ := strings.Cut(label, "/")
		name = strings.TrimSpace(name)
		slug := database.Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		c, err := im.categories.FindOrCreate(ctx, name, slug)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, nil
}
