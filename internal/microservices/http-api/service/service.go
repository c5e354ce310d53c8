package service

import (
	"errors"
	"time"

	"bookhub/internal/microservices/http-api/apperror"
	"bookhub/internal/microservices/http-api/repository"
)

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// notFound turns repository.ErrNotFound into a 404 and passes other errors through.
func notFound(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFoundWrap(message, err)
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
