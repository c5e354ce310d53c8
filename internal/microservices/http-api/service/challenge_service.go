package service

import (
	"context"
	"errors"
	"maps"
	"strings"
	"time"

	"bookhub/internal/microservices/http-api/apperror"
	"bookhub/internal/microservices/http-api/dto"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"

	"gorm.io/datatypes"
)

var (
	ErrChallengeHasParticipants = apperror.Conflict("Cannot delete challenge with participants")
	ErrChallengeNotActive       = apperror.Conflict("This challenge is not currently active")
	ErrAlreadyParticipating     = apperror.Conflict("Already participating in this challenge")
	ErrNotParticipating         = apperror.Forbidden("Not participating in this challenge")
	ErrBookAlreadyUsed          = apperror.Conflict("Book already used in this challenge")
	ErrBookNotInChallenge       = apperror.NotFound("Book not found in this challenge")
)

// ChallengeView is a challenge plus the caller's participation, when there is one.
type ChallengeView struct {
	Challenge models.ReadingChallenge
	Viewer    *models.ChallengeParticipant
}

type ChallengeService interface {
	List(ctx context.Context, viewerID int64, q dto.ChallengeListQuery, p repository.Pagination) ([]models.ReadingChallenge, int64, error)
	ListJoined(ctx context.Context, userID int64, p repository.Pagination) ([]models.ReadingChallenge, int64, error)
	Get(ctx context.Context, viewerID, challengeID int64) (*ChallengeView, error)
	Create(ctx context.Context, userID int64, req dto.CreateChallengeRequest) (*models.ReadingChallenge, error)
	Update(ctx context.Context, userID, challengeID int64, req dto.UpdateChallengeRequest) (*models.ReadingChallenge, error)
	Delete(ctx context.Context, userID, challengeID int64) error
	Join(ctx context.Context, userID, challengeID int64) error
	AddBook(ctx context.Context, userID, challengeID, bookID int64, requirementKey string) (*models.ChallengeParticipant, error)
	RemoveBook(ctx context.Context, userID, challengeID, bookID int64) (*models.ChallengeParticipant, error)
	// Today is the calendar day the service evaluates challenge windows against.
	Today() time.Time
}

type challengeService struct {
	repo       repository.ChallengeRepository
	books      repository.BookRepository
	activities ActivityService
	now        Clock
}

func NewChallengeService(repo repository.ChallengeRepository, books repository.BookRepository, activities ActivityService) ChallengeService {
	return &challengeService{repo: repo, books: books, activities: activities, now: utcNow}
}

func (s *challengeService) Today() time.Time {
	return models.DateOnly(s.now())
}

func (s *challengeService) List(ctx context.Context, viewerID int64, q dto.ChallengeListQuery, p repository.Pagination) ([]models.ReadingChallenge, int64, error) {
	return s.repo.List(ctx, repository.ChallengeFilter{
		ViewerID:   viewerID,
		ShowAll:    q.ShowAll,
		ActiveOnly: q.ActiveOnly,
		Featured:   q.Featured,
		Today:      s.Today(),
	}, p)
}

func (s *challengeService) ListJoined(ctx context.Context, userID int64, p repository.Pagination) ([]models.ReadingChallenge, int64, error) {
	return s.repo.ListJoinedBy(ctx, userID, p)
}

func (s *challengeService) Get(ctx context.Context, viewerID, challengeID int64) (*ChallengeView, error) {
	challenge, err := s.repo.FindDetailed(ctx, challengeID)
	if err != nil {
		return nil, notFound(err, "Reading challenge not found")
	}
	if !challenge.VisibleTo(viewerID) {
		return nil, apperror.Forbidden("")
	}

	view := &ChallengeView{Challenge: *challenge}
	if viewerID != 0 {
		for i := range challenge.Participants {
			if challenge.Participants[i].UserID == viewerID {
				view.Viewer = &challenge.Participants[i]
				break
			}
		}
	}
	return view, nil
}

func (s *challengeService) Create(ctx context.Context, userID int64, req dto.CreateChallengeRequest) (*models.ReadingChallenge, error) {
	start, end, err := s.window(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := s.requireFutureStart(start); err != nil {
		return nil, err
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	challenge := &models.ReadingChallenge{
		CreatedBy:    userID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		StartDate:    start,
		EndDate:      end,
		Requirements: datatypes.NewJSONType(models.Requirements(req.Requirements)),
		IsPublic:     isPublic,
		IsFeatured:   req.IsFeatured,
	}
	if err := s.repo.Create(ctx, challenge); err != nil {
		return nil, err
	}

	s.activities.Log(ctx, userID, models.ActivityCreatedChallenge, models.SubjectChallenge, challenge.ID, nil)
	return s.reload(ctx, challenge.ID)
}

func (s *challengeService) Update(ctx context.Context, userID, challengeID int64, req dto.UpdateChallengeRequest) (*models.ReadingChallenge, error) {
	challenge, err := s.created(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}

	participants, err := s.repo.CountParticipants(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	startRaw := challenge.StartDate.Format(dto.DateLayout)
	if req.StartDate != nil {
		startRaw = *req.StartDate
	}
	endRaw := challenge.EndDate.Format(dto.DateLayout)
	if req.EndDate != nil {
		endRaw = *req.EndDate
	}
	start, end, err := s.window(startRaw, endRaw)
	if err != nil {
		return nil, err
	}

	if !start.Equal(models.DateOnly(challenge.StartDate)) {
		if participants > 0 {
			return nil, apperror.FieldError("start_date", "Cannot change start date after participants have joined.")
		}
		if err := s.requireFutureStart(start); err != nil {
			return nil, err
		}
	}
	if req.Requirements != nil && !maps.Equal(req.Requirements, map[string]int(challenge.Requirements.Data())) {
		if participants > 0 {
			return nil, apperror.FieldError("requirements", "Cannot change requirements after participants have joined.")
		}
		challenge.Requirements = datatypes.NewJSONType(models.Requirements(req.Requirements))
	}

	challenge.StartDate = start
	challenge.EndDate = end
	if req.Title != nil {
		challenge.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		challenge.Description = *req.Description
	}
	if req.IsPublic != nil {
		challenge.IsPublic = *req.IsPublic
	}
	if req.IsFeatured != nil {
		challenge.IsFeatured = *req.IsFeatured
	}

	if err := s.repo.Save(ctx, challenge); err != nil {
		return nil, err
	}
	return s.reload(ctx, challenge.ID)
}

func (s *challengeService) Delete(ctx context.Context, userID, challengeID int64) error {
	if _, err := s.created(ctx, userID, challengeID); err != nil {
		return err
	}
	participants, err := s.repo.CountParticipants(ctx, challengeID)
	if err != nil {
		return err
	}
	if participants > 0 {
		return ErrChallengeHasParticipants
	}
	return s.repo.Delete(ctx, challengeID)
}

func (s *challengeService) Join(ctx context.Context, userID, challengeID int64) error {
	challenge, err := s.repo.FindByID(ctx, challengeID)
	if err != nil {
		return notFound(err, "Reading challenge not found")
	}
	if !challenge.VisibleTo(userID) {
		return apperror.Forbidden("")
	}
	if !challenge.IsActiveOn(s.now()) {
		return ErrChallengeNotActive
	}

	if _, err := s.repo.FindParticipant(ctx, challengeID, userID); err == nil {
		return ErrAlreadyParticipating
	} else if !isNotFound(err) {
		return err
	}

	participant := &models.ChallengeParticipant{
		ReadingChallengeID: challengeID,
		UserID:             userID,
		Progress:           datatypes.NewJSONType(challenge.ZeroProgress()),
	}
	if err := s.repo.CreateParticipant(ctx, participant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyParticipating
		}
		return err
	}

	s.activities.Log(ctx, userID, models.ActivityJoinedChallenge, models.SubjectChallenge, challengeID, nil)
	return nil
}

func (s *challengeService) AddBook(ctx context.Context, userID, challengeID, bookID int64, requirementKey string) (*models.ChallengeParticipant, error) {
	challenge, err := s.participating(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}

	exists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound("Book not found")
	}
	if _, ok := challenge.Requirements.Data()[requirementKey]; !ok {
		return nil, apperror.FieldError("requirement_key", "The selected requirement key is invalid.")
	}

	if _, err := s.repo.FindChallengeBook(ctx, userID, challengeID, bookID); err == nil {
		return nil, ErrBookAlreadyUsed
	} else if !isNotFound(err) {
		return nil, err
	}

	cb := &models.ChallengeBook{
		UserID:             userID,
		ReadingChallengeID: challengeID,
		BookID:             bookID,
		RequirementKey:     requirementKey,
	}
	completed := false
	participant, err := s.repo.AddBook(ctx, cb, func(p *models.ChallengeParticipant) error {
		completed = s.applyCount(challenge, p, requirementKey, 1)
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrBookAlreadyUsed
		}
		return nil, err
	}

	if completed {
		s.activities.Log(ctx, userID, models.ActivityCompletedChallenge, models.SubjectChallenge, challengeID, nil)
	}
	return participant, nil
}

func (s *challengeService) RemoveBook(ctx context.Context, userID, challengeID, bookID int64) (*models.ChallengeParticipant, error) {
	challenge, err := s.repo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, notFound(err, "Reading challenge not found")
	}

	cb, err := s.repo.FindChallengeBook(ctx, userID, challengeID, bookID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBookNotInChallenge
		}
		return nil, err
	}

	participant, err := s.repo.RemoveBook(ctx, cb, func(p *models.ChallengeParticipant) error {
		s.applyCount(challenge, p, cb.RequirementKey, -1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

// applyCount moves one requirement counter by delta (never below zero) and re-evaluates completion.
// It reports whether the participant just became complete.
func (s *challengeService) applyCount(challenge *models.ReadingChallenge, p *models.ChallengeParticipant, key string, delta int) bool {
	progress := maps.Clone(p.Progress.Data())
	if progress == nil {
		progress = challenge.ZeroProgress()
	}
	progress[key] = max(progress[key]+delta, 0)
	p.Progress = datatypes.NewJSONType(progress)

	wasCompleted := p.IsCompleted
	p.IsCompleted = challenge.IsFulfilled(progress)
	switch {
	case p.IsCompleted && !wasCompleted:
		now := s.now()
		p.CompletedAt = &now
	case !p.IsCompleted:
		p.CompletedAt = nil
	}
	return p.IsCompleted && !wasCompleted
}

func (s *challengeService) participating(ctx context.Context, userID, challengeID int64) (*models.ReadingChallenge, error) {
	challenge, err := s.repo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, notFound(err, "Reading challenge not found")
	}
	if _, err := s.repo.FindParticipant(ctx, challengeID, userID); err != nil {
		if isNotFound(err) {
			return nil, ErrNotParticipating
		}
		return nil, err
	}
	return challenge, nil
}

func (s *challengeService) created(ctx context.Context, userID, challengeID int64) (*models.ReadingChallenge, error) {
	challenge, err := s.repo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, notFound(err, "Reading challenge not found")
	}
	if challenge.CreatedBy != userID {
		return nil, apperror.Forbidden("")
	}
	return challenge, nil
}

func (s *challengeService) reload(ctx context.Context, id int64) (*models.ReadingChallenge, error) {
	challenge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Reading challenge not found")
	}
	return challenge, nil
}

// window parses both dates and checks that end is after start.
func (s *challengeService) window(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := dto.ParseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.FieldError("start_date", "The start date is not a valid date.")
	}
	end, err := dto.ParseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.FieldError("end_date", "The end date is not a valid date.")
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, apperror.FieldError("end_date", "The end date must be after the start date.")
	}
	return start, end, nil
}

func (s *challengeService) requireFutureStart(start time.Time) error {
	if start.Before(s.Today()) {
		return apperror.FieldError("start_date", "The challenge must start today or in the future.")
	}
	return nil
}
