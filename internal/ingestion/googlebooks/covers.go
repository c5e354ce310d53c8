package googlebooks

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
)

// CoverPrefix is the directory stored in books.cover_image for local covers.
const CoverPrefix = "covers/"

// CoverStore saves cover images under dir and hands back their relative path.
type CoverStore struct {
	dir    string
	client *Client
}

func NewCoverStore(dir string, client *Client) *CoverStore {
	return &CoverStore{dir: dir, client: client}
}

// Save downloads the best available rendition of thumbnail and stores it as <isbn>.jpg.
func (s *CoverStore) Save(ctx context.Context, thumbnail, isbn string) (string, error) {
	data, err := s.client.Download(ctx, HighQualityURL(thumbnail))
	if err != nil {
		data, err = s.client.Download(ctx, thumbnail)
		if err != nil {
			return "", fmt.Errorf("download cover: %w", err)
		}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create cover dir: %w", err)
	}
	name := isbn + ".jpg"
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write cover: %w", err)
	}
	return CoverPrefix + name, nil
}

// HighQualityURL asks for the largest zoom and drops the page-curl effect.
func HighQualityURL(thumbnail string) string {
	u := strings.ReplaceAll(thumbnail, "zoom=1", "zoom=3")
	return strings.ReplaceAll(u, "&edge=curl", "")
}

// NormalizeCoverPath rewrites an absolute URL or path to covers/<file>. ok is false when p is already relative.
func NormalizeCoverPath(p string) (normalized string, ok bool) {
	if !strings.HasPrefix(p, "http://") && !strings.HasPrefix(p, "https://") && !strings.HasPrefix(p, "/") {
		return p, false
	}
	urlPath := p
	if u, err := url.Parse(p); err == nil {
		urlPath = u.Path
	}
	base := path.Base(urlPath)
	if base == "." || base == "/" {
		return p, false
	}
	return CoverPrefix + base, true
}

type CoverResult struct {
	Updated int
	Skipped int
	Failed  int
}

// NormalizeCovers rewrites every stored cover that is not yet a relative covers/ path.
func NormalizeCovers(ctx context.Context, books repository.BookRepository, log *slog.Logger) (CoverResult, error) {
	var res CoverResult
	err := books.EachWithCover(ctx, 200, func(batch []models.Book) error {
		for _, b := range batch {
			normalized, ok := NormalizeCoverPath(*b.CoverImage)
			if !ok {
				res.Skipped++
				continue
			}
			if err := books.SetCover(ctx, b.ID, normalized); err != nil {
				res.Failed++
				log.Warn("cover update failed", "book_id", b.ID, "error", err)
				continue
			}
			res.Updated++
			log.Info("cover path updated", "book_id", b.ID, "from", *b.CoverImage, "to", normalized)
		}
		return ctx.Err()
	})
	return res, err
}
