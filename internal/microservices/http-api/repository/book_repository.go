package repository

import (
	"bookhub/internal/microservices/http-api/models"
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	reviewsCountExpr = "(SELECT COUNT(*) FROM book_reviews br WHERE br.book_id = books.id AND br.deleted_at IS NULL)"
	shelvesCountExpr = "(SELECT COUNT(*) FROM book_shelf bs JOIN shelves s ON s.id = bs.shelf_id WHERE bs.book_id = books.id AND s.deleted_at IS NULL)"
	avgRatingExpr    = "(SELECT AVG(CAST(br.rating AS REAL)) FROM book_reviews br WHERE br.book_id = books.id AND br.deleted_at IS NULL)"

	bookWithAggregates = "books.*, " +
		reviewsCountExpr + " AS reviews_count, " +
		shelvesCountExpr + " AS shelves_count, " +
		avgRatingExpr + " AS reviews_avg_rating"
)

// bookSortColumns whitelists sort_by values.
var bookSortColumns = map[string]string{
	"title":              "books.title",
	"author":             "books.author",
	"publication_date":   "books.publication_date",
	"created_at":         "books.created_at",
	"reviews_count":      "reviews_count",
	"shelves_count":      "shelves_count",
	"reviews_avg_rating": "reviews_avg_rating",
}

// IsBookSortField reports whether field can be used as sort_by.
func IsBookSortField(field string) bool {
	_, ok := bookSortColumns[field]
	return ok
}

// BookFilter holds the optional search criteria. Zero values mean "no filter".
type BookFilter struct {
	Search        string
	CategoryIDs   []int64
	FromDate      *time.Time
	ToDate        *time.Time
	Language      string
	MinRating     *float64
	MaxRating     *float64
	MinPages      *int
	MaxPages      *int
	Publisher     string
	SortBy        string
	SortDirection string
	// RecommendedFor restricts results to recommendations for this user when non-zero.
	RecommendedFor int64
}

type BookRepository interface {
	List(ctx context.Context, p Pagination) ([]models.Book, int64, error)
	Search(ctx context.Context, f BookFilter, p Pagination) ([]models.Book, int64, error)
	ListByCategory(ctx context.Context, categoryID int64, p Pagination) ([]models.Book, int64, error)
	FindByID(ctx context.Context, id int64) (*models.Book, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ISBNTaken(ctx context.Context, isbn string, exceptID int64) (bool, error)
	Create(ctx context.Context, b *models.Book, categories []models.Category) error
	// Update saves b; categories replaces the book's categories when non-nil.
	Update(ctx context.Context, b *models.Book, categories []models.Category) error
	Delete(ctx context.Context, id int64) error
	// EachWithCover calls fn with batches of books that have a cover image.
	EachWithCover(ctx context.Context, batchSize int, fn func(books []models.Book) error) error
	SetCover(ctx context.Context, id int64, cover string) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) List(ctx context.Context, p Pagination) ([]models.Book, int64, error) {
	return r.Search(ctx, BookFilter{}, p)
}

func (r *bookRepository) ListByCategory(ctx context.Context, categoryID int64, p Pagination) ([]models.Book, int64, error) {
	return r.Search(ctx, BookFilter{CategoryIDs: []int64{categoryID}, SortBy: "title", SortDirection: "asc"}, p)
}

// Search counts and fetches one page of books matching f.
func (r *bookRepository) Search(ctx context.Context, f BookFilter, p Pagination) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	if err := r.filtered(ctx, f).Model(&models.Book{}).Count(&total).Error; err != nil {
		return nil, 0, wrap("count books", err)
	}

	q := r.filtered(ctx, f).
		Select(bookWithAggregates).
		Preload("Categories")
	q = p.apply(orderBooks(q, f.SortBy, f.SortDirection))

	if err := q.Find(&list).Error; err != nil {
		return nil, 0, wrap("search books", err)
	}
	return list, total, nil
}

func (r *bookRepository) filtered(ctx context.Context, f BookFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Book{})

	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER(books.title) LIKE ? OR LOWER(books.author) LIKE ? OR LOWER(COALESCE(books.isbn, '')) LIKE ? OR LOWER(COALESCE(books.description, '')) LIKE ?)",
			like, like, like, like)
	}
	if len(f.CategoryIDs) > 0 {
		q = q.Where("books.id IN (SELECT bc.book_id FROM book_category bc WHERE bc.category_id IN ?)", f.CategoryIDs)
	}
	if f.FromDate != nil {
		q = q.Where("books.publication_date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("books.publication_date <= ?", *f.ToDate)
	}
	if f.Language != "" {
		q = q.Where("books.language = ?", f.Language)
	}
	if f.MinRating != nil {
		q = q.Where(avgRatingExpr+" >= ?", *f.MinRating)
	}
	if f.MaxRating != nil {
		q = q.Where(avgRatingExpr+" <= ?", *f.MaxRating)
	}
	if f.MinPages != nil {
		q = q.Where("books.total_pages >= ?", *f.MinPages)
	}
	if f.MaxPages != nil {
		q = q.Where("books.total_pages <= ?", *f.MaxPages)
	}
	if pub := strings.TrimSpace(f.Publisher); pub != "" {
		q = q.Where("LOWER(COALESCE(books.publisher, '')) LIKE ?", "%"+strings.ToLower(pub)+"%")
	}
	if f.RecommendedFor != 0 {
		q = q.Where("(books.id IN (?) OR books.id IN (?))",
			r.sameCategoryBooks(f.RecommendedFor), r.similarReadersBooks(f.RecommendedFor))
	}
	return q
}

// sameCategoryBooks selects books sharing a category with any book the user has progress on.
func (r *bookRepository) sameCategoryBooks(userID int64) *gorm.DB {
	read := r.db.Table("book_category bc2").
		Select("bc2.category_id").
		Joins("JOIN reading_progress rp ON rp.book_id = bc2.book_id").
		Where("rp.user_id = ? AND rp.deleted_at IS NULL", userID)

	return r.db.Table("book_category bc").
		Select("bc.book_id").
		Where("bc.category_id IN (?)", read)
}

// similarReadersBooks selects books completed by users sharing at least three completed books with userID.
func (r *bookRepository) similarReadersBooks(userID int64) *gorm.DB {
	similar := r.db.Table("reading_progress other").
		Select("other.user_id").
		Joins("JOIN reading_progress mine ON mine.book_id = other.book_id").
		Where("mine.user_id = ? AND mine.status = ? AND mine.deleted_at IS NULL", userID, models.StatusCompleted).
		Where("other.user_id <> ? AND other.status = ? AND other.deleted_at IS NULL", userID, models.StatusCompleted).
		Group("other.user_id").
		Having("COUNT(*) >= ?", 3)

	return r.db.Table("reading_progress rp2").
		Select("rp2.book_id").
		Where("rp2.status = ? AND rp2.deleted_at IS NULL AND rp2.user_id IN (?)", models.StatusCompleted, similar)
}

func orderBooks(q *gorm.DB, sortBy, direction string) *gorm.DB {
	column, ok := bookSortColumns[sortBy]
	if !ok {
		column = "books.created_at"
		if direction == "" {
			direction = "desc"
		}
	}
	if direction != "asc" {
		direction = "desc"
	}
	return q.Order(column + " " + direction).Order("books.id " + direction)
}

func (r *bookRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).
		Select(bookWithAggregates).
		Preload("Categories").
		First(&b, "books.id = ?", id).Error; err != nil {
		return nil, wrap("find book", err)
	}
	return &b, nil
}

func (r *bookRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, wrap("check book", err)
	}
	return count > 0, nil
}

// ISBNTaken reports whether another live book already uses isbn.
func (r *bookRepository) ISBNTaken(ctx context.Context, isbn string, exceptID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Book{}).Where("isbn = ?", isbn)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, wrap("check isbn", err)
	}
	return count > 0, nil
}

func (r *bookRepository) Create(ctx context.Context, b *models.Book, categories []models.Category) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories").Create(b).Error; err != nil {
			return err
		}
		return replaceCategories(tx, b, categories)
	})
	return wrap("create book", err)
}

func (r *bookRepository) Update(ctx context.Context, b *models.Book, categories []models.Category) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories").Save(b).Error; err != nil {
			return err
		}
		if categories == nil {
			return nil
		}
		return replaceCategories(tx, b, categories)
	})
	return wrap("update book", err)
}

func replaceCategories(tx *gorm.DB, b *models.Book, categories []models.Category) error {
	if err := tx.Model(b).Association("Categories").Replace(categories); err != nil {
		return err
	}
	b.Categories = categories
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	return wrap("delete book", r.db.WithContext(ctx).Delete(&models.Book{}, id).Error)
}

func (r *bookRepository) EachWithCover(ctx context.Context, batchSize int, fn func(books []models.Book) error) error {
	var batch []models.Book
	err := r.db.WithContext(ctx).
		Where("cover_image IS NOT NULL").
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
			return fn(batch)
		}).Error
	return wrap("scan book covers", err)
}

func (r *bookRepository) SetCover(ctx context.Context, id int64, cover string) error {
	res := r.db.WithContext(ctx).Model(&models.Book{}).Where("id = ?", id).Update("cover_image", cover)
	if res.Error != nil {
		return wrap("set book cover", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
