package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, PerPage: DefaultPerPage}, NewPagination(0, 0))
	assert.Equal(t, Pagination{Page: 3, PerPage: MaxPerPage}, NewPagination(3, 500))
	assert.Equal(t, 20, NewPagination(3, 10).Offset())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, wrap("op", nil))
	assert.ErrorIs(t, wrap("find", gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, wrap("create", gorm.ErrDuplicatedKey), ErrDuplicate)

	err := wrap("save", errors.New("disk full"))
	assert.EqualError(t, err, "save: disk full")
}
