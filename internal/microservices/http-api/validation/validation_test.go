package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title        string         `json:"title" binding:"required,max=5"`
	ISBN         *string        `json:"isbn" binding:"omitempty,book_isbn"`
	Pages        int            `json:"total_pages" binding:"omitempty,min=1"`
	Status       string         `json:"status" binding:"omitempty,oneof=a b"`
	Requirements map[string]int `json:"requirements" binding:"omitempty,min=1,dive,gte=1"`
}

func validate(t *testing.T, req sampleRequest) map[string][]string {
	t.Helper()
	Register()
	err := binding.Validator.ValidateStruct(&req)
	if err == nil {
		return nil
	}
	fields, ok := FieldErrors(err)
	require.True(t, ok)
	return fields
}

func TestFieldErrors_Messages(t *testing.T) {
	bad := "12345"
	fields := validate(t, sampleRequest{
		Title:        "",
		ISBN:         &bad,
		Pages:        -1,
		Status:       "c",
		Requirements: map[string]int{"fantasy": 0},
	})

	assert.Equal(t, []string{"The title field is required."}, fields["title"])
	assert.Equal(t, []string{"The isbn must be a valid ISBN-10 or ISBN-13."}, fields["isbn"])
	assert.Equal(t, []string{"The total pages must be at least 1."}, fields["total_pages"])
	assert.Equal(t, []string{"The selected status is invalid."}, fields["status"])
	assert.Contains(t, fields, "requirements.fantasy")
}

func TestFieldErrors_MaxString(t *testing.T) {
	fields := validate(t, sampleRequest{Title: "too long"})
	assert.Equal(t, []string{"The title may not be greater than 5 characters."}, fields["title"])
}

func TestFieldErrors_ValidRequest(t *testing.T) {
	good := "978-0-306-40615-7"
	assert.Nil(t, validate(t, sampleRequest{Title: "Dune", ISBN: &good, Pages: 10}))
}

func TestFieldErrors_TypeMismatch(t *testing.T) {
	var req sampleRequest
	err := json.Unmarshal([]byte(`{"total_pages": "many"}`), &req)
	require.Error(t, err)

	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"The total pages field must be of type integer."}, fields["total_pages"])
}

func TestFieldErrors_Unrelated(t *testing.T) {
	_, ok := FieldErrors(errors.New("EOF"))
	assert.False(t, ok)
}
