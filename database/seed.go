package database

import (
	"bookhub/internal/microservices/http-api/models"
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type categorySeed struct {
	name        string
	description string
}

var defaultCategories = []categorySeed{
	{"Fiction", "Fictional literature and stories"},
	{"Non-Fiction", "Factual and informative books"},
	{"Mystery", "Mystery and detective stories"},
	{"Science Fiction", "Science fiction and futuristic stories"},
	{"Fantasy", "Fantasy and magical stories"},
	{"Romance", "Romance and love stories"},
	{"Thriller", "Suspense and thriller stories"},
	{"Horror", "Horror and scary stories"},
	{"Biography", "Biographical works"},
	{"History", "Historical works"},
	{"Science", "Scientific works"},
	{"Technology", "Technology-related books"},
	{"Business", "Business and economics books"},
	{"Self-Help", "Self-improvement and personal development"},
	{"Poetry", "Poetic works"},
	{"Drama", "Dramatic works"},
	{"Children", "Books for children"},
	{"Young Adult", "Books for young adults"},
	{"Art", "Art and design books"},
	{"Travel", "Travel and geography books"},
}

// SeedCategories inserts the default categories that do not exist yet and returns how many were created.
func SeedCategories(ctx context.Context, db *gorm.DB) (int, error) {
	created := 0
	for _, seed := range defaultCategories {
		desc := seed.description
		category := &models.Category{
			Name:        seed.name,
			Slug:        Slugify(seed.name),
			Description: &desc,
		}
		var count int64
		if err := db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", seed.name).Count(&count).Error; err != nil {
			return created, fmt.Errorf("seed category %q: %w", seed.name, err)
		}
		if count > 0 {
			continue
		}
		if err := db.WithContext(ctx).Create(category).Error; err != nil {
			return created, fmt.Errorf("seed category %q: %w", seed.name, err)
		}
		created++
	}
	return created, nil
}

// Slugify lower-cases name and joins its words with hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
