package repository

import (
	"bookhub/internal/microservices/http-api/models"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const challengeWithCounts = "reading_challenges.*, " +
	"(SELECT COUNT(*) FROM reading_challenge_participants cp WHERE cp.reading_challenge_id = reading_challenges.id) AS participants_count"

// ChallengeFilter narrows challenge listings.
type ChallengeFilter struct {
	// ViewerID sees their own private challenges too; zero is anonymous.
	ViewerID int64
	// ShowAll lifts the visibility restriction.
	ShowAll    bool
	ActiveOnly bool
	Featured   bool
	Today      time.Time
}

// ParticipantUpdate mutates a participant row inside the book-usage transaction.
type ParticipantUpdate func(p *models.ChallengeParticipant) error

type ChallengeRepository interface {
	Create(ctx context.Context, c *models.ReadingChallenge) error
	Save(ctx context.Context, c *models.ReadingChallenge) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.ReadingChallenge, error)
	// FindDetailed loads creator and participants with their users.
	FindDetailed(ctx context.Context, id int64) (*models.ReadingChallenge, error)
	List(ctx context.Context, f ChallengeFilter, p Pagination) ([]models.ReadingChallenge, int64, error)
	ListJoinedBy(ctx context.Context, userID int64, p Pagination) ([]models.ReadingChallenge, int64, error)
	CountParticipants(ctx context.Context, challengeID int64) (int64, error)
	FindParticipant(ctx context.Context, challengeID, userID int64) (*models.ChallengeParticipant, error)
	CreateParticipant(ctx context.Context, p *models.ChallengeParticipant) error
	FindChallengeBook(ctx context.Context, userID, challengeID, bookID int64) (*models.ChallengeBook, error)
	// AddBook inserts the usage row and applies update to the participant in one transaction.
	AddBook(ctx context.Context, cb *models.ChallengeBook, update ParticipantUpdate) (*models.ChallengeParticipant, error)
	// RemoveBook deletes the usage row and applies update to the participant in one transaction.
	RemoveBook(ctx context.Context, cb *models.ChallengeBook, update ParticipantUpdate) (*models.ChallengeParticipant, error)
}

type challengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) Create(ctx context.Context, c *models.ReadingChallenge) error {
	return wrap("create challenge", r.db.WithContext(ctx).Omit("Creator", "Participants").Create(c).Error)
}

func (r *challengeRepository) Save(ctx context.Context, c *models.ReadingChallenge) error {
	return wrap("update challenge", r.db.WithContext(ctx).Omit("Creator", "Participants").Save(c).Error)
}

func (r *challengeRepository) Delete(ctx context.Context, id int64) error {
	return wrap("delete challenge", r.db.WithContext(ctx).Delete(&models.ReadingChallenge{}, id).Error)
}

func (r *challengeRepository) FindByID(ctx context.Context, id int64) (*models.ReadingChallenge, error) {
	var c models.ReadingChallenge
	if err := r.db.WithContext(ctx).
		Select(challengeWithCounts).
		First(&c, "reading_challenges.id = ?", id).Error; err != nil {
		return nil, wrap("find challenge", err)
	}
	return &c, nil
}

func (r *challengeRepository) FindDetailed(ctx context.Context, id int64) (*models.ReadingChallenge, error) {
	var c models.ReadingChallenge
	if err := r.db.WithContext(ctx).
		Select(challengeWithCounts).
		Preload("Creator").
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("reading_challenge_participants.created_at asc")
		}).
		Preload("Participants.User").
		First(&c, "reading_challenges.id = ?", id).Error; err != nil {
		return nil, wrap("find challenge", err)
	}
	return &c, nil
}

func (r *challengeRepository) List(ctx context.Context, f ChallengeFilter, p Pagination) ([]models.ReadingChallenge, int64, error) {
	return r.page(ctx, func(q *gorm.DB) *gorm.DB {
		if !f.ShowAll {
			if f.ViewerID != 0 {
				q = q.Where("(reading_challenges.is_public = ? OR reading_challenges.created_by = ?)", true, f.ViewerID)
			} else {
				q = q.Where("reading_challenges.is_public = ?", true)
			}
		}
		if f.ActiveOnly {
			today := models.DateOnly(f.Today)
			q = q.Where("reading_challenges.start_date <= ? AND reading_challenges.end_date >= ?", today, today)
		}
		if f.Featured {
			q = q.Where("reading_challenges.is_featured = ?", true)
		}
		return q
	}, p)
}

func (r *challengeRepository) ListJoinedBy(ctx context.Context, userID int64, p Pagination) ([]models.ReadingChallenge, int64, error) {
	joined := r.db.Model(&models.ChallengeParticipant{}).Select("reading_challenge_id").Where("user_id = ?", userID)
	return r.page(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("reading_challenges.id IN (?)", joined)
	}, p)
}

func (r *challengeRepository) page(ctx context.Context, filter func(*gorm.DB) *gorm.DB, p Pagination) ([]models.ReadingChallenge, int64, error) {
	var list []models.ReadingChallenge
	var total int64

	if err := filter(r.db.WithContext(ctx).Model(&models.ReadingChallenge{})).Count(&total).Error; err != nil {
		return nil, 0, wrap("count challenges", err)
	}
	q := filter(r.db.WithContext(ctx).Model(&models.ReadingChallenge{})).
		Select(challengeWithCounts).
		Preload("Creator").
		Order("reading_challenges.created_at desc").
		Order("reading_challenges.id desc")
	if err := p.apply(q).Find(&list).Error; err != nil {
		return nil, 0, wrap("list challenges", err)
	}
	return list, total, nil
}

func (r *challengeRepository) CountParticipants(ctx context.Context, challengeID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ChallengeParticipant{}).
		Where("reading_challenge_id = ?", challengeID).
		Count(&count).Error; err != nil {
		return 0, wrap("count participants", err)
	}
	return count, nil
}

func (r *challengeRepository) FindParticipant(ctx context.Context, challengeID, userID int64) (*models.ChallengeParticipant, error) {
	var p models.ChallengeParticipant
	if err := r.db.WithContext(ctx).
		Where("reading_challenge_id = ? AND user_id = ?", challengeID, userID).
		First(&p).Error; err != nil {
		return nil, wrap("find participant", err)
	}
	return &p, nil
}

func (r *challengeRepository) CreateParticipant(ctx context.Context, p *models.ChallengeParticipant) error {
	return wrap("join challenge", r.db.WithContext(ctx).Omit("User", "Challenge").Create(p).Error)
}

func (r *challengeRepository) FindChallengeBook(ctx context.Context, userID, challengeID, bookID int64) (*models.ChallengeBook, error) {
	var cb models.ChallengeBook
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND reading_challenge_id = ? AND book_id = ?", userID, challengeID, bookID).
		First(&cb).Error; err != nil {
		return nil, wrap("find challenge book", err)
	}
	return &cb, nil
}

func (r *challengeRepository) AddBook(ctx context.Context, cb *models.ChallengeBook, update ParticipantUpdate) (*models.ChallengeParticipant, error) {
	var participant *models.ChallengeParticipant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Book").Create(cb).Error; err != nil {
			return err
		}
		p, err := r.applyToParticipant(tx, cb, update)
		participant = p
		return err
	})
	if err != nil {
		return nil, wrap("add challenge book", err)
	}
	return participant, nil
}

func (r *challengeRepository) RemoveBook(ctx context.Context, cb *models.ChallengeBook, update ParticipantUpdate) (*models.ChallengeParticipant, error) {
	var participant *models.ChallengeParticipant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ChallengeBook{}, cb.ID).Error; err != nil {
			return err
		}
		p, err := r.applyToParticipant(tx, cb, update)
		participant = p
		return err
	})
	if err != nil {
		return nil, wrap("remove challenge book", err)
	}
	return participant, nil
}

// applyToParticipant locks the participant row (where the dialect supports it) and saves update's changes.
func (r *challengeRepository) applyToParticipant(tx *gorm.DB, cb *models.ChallengeBook, update ParticipantUpdate) (*models.ChallengeParticipant, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var p models.ChallengeParticipant
	if err := q.Where("reading_challenge_id = ? AND user_id = ?", cb.ReadingChallengeID, cb.UserID).
		First(&p).Error; err != nil {
		return nil, err
	}
	if err := update(&p); err != nil {
		return nil, err
	}
	if err := tx.Omit("User", "Challenge").Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
