package service

import (
	"context"
	"errors"

	"bookhub/internal/microservices/http-api/apperror"
	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
)

var (
	ErrFollowSelf       = apperror.Unprocessable("You cannot follow yourself")
	ErrAlreadyFollowing = apperror.Unprocessable("You are already following this user")
	ErrUnfollowSelf     = apperror.Unprocessable("You cannot unfollow yourself")
	ErrNotFollowing     = apperror.Unprocessable("You are not following this user")
)

type FollowerService interface {
	Profile(ctx context.Context, userID int64) (*models.User, error)
	Follow(ctx context.Context, followerID, targetID int64) error
	Unfollow(ctx context.Context, followerID, targetID int64) error
	Followers(ctx context.Context, userID int64, p repository.Pagination) ([]models.User, int64, error)
	Following(ctx context.Context, userID int64, p repository.Pagination) ([]models.User, int64, error)
}

type followerService struct {
	repo  repository.FollowerRepository
	users repository.UserRepository
}

func NewFollowerService(repo repository.FollowerRepository, users repository.UserRepository) FollowerService {
	return &followerService{repo: repo, users: users}
}

func (s *followerService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return user, nil
}

func (s *followerService) Follow(ctx context.Context, followerID, targetID int64) error {
	if _, err := s.Profile(ctx, targetID); err != nil {
		return err
	}
	if followerID == targetID {
		return ErrFollowSelf
	}

	following, err := s.repo.IsFollowing(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if following {
		return ErrAlreadyFollowing
	}
	if err := s.repo.Follow(ctx, followerID, targetID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

func (s *followerService) Unfollow(ctx context.Context, followerID, targetID int64) error {
	if _, err := s.Profile(ctx, targetID); err != nil {
		return err
	}
	if followerID == targetID {
		return ErrUnfollowSelf
	}

	removed, err := s.repo.Unfollow(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFollowing
	}
	return nil
}

func (s *followerService) Followers(ctx context.Context, userID int64, p repository.Pagination) ([]models.User, int64, error) {
	return s.repo.Followers(ctx, userID, p)
}

func (s *followerService) Following(ctx context.Context, userID int64, p repository.Pagination) ([]models.User, int64, error) {
	return s.repo.Following(ctx, userID, p)
}
