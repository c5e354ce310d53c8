package command

import (
	"bytes"
	"testing"

	"bookhub/internal/microservices/http-api/dto"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	assert.Equal(t, "[--------------------]", bar(0))
	assert.Equal(t, "[##########----------]", bar(50))
	assert.Equal(t, "[####################]", bar(100))
	assert.Equal(t, "[####################]", bar(250))
	assert.Equal(t, "[--------------------]", bar(-5))
}

func TestPrintGoal(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	printGoal(&buf, dto.GoalResponse{Year: 2025, TargetBooks: 10, BooksRead: 5, BooksProgress: 50, TargetPages: 100, PagesRead: 100, PagesProgress: 100, IsCompleted: false})

	out := buf.String()
	assert.Contains(t, out, "2025 reading goal in progress")
	assert.Contains(t, out, "books [##########----------] 5/10")
	assert.Contains(t, out, "pages [####################] 100/100")
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	assert.NoError(t, err)
	assert.EqualValues(t, 42, id)

	_, err = parseID("0")
	assert.Error(t, err)
	_, err = parseID("abc")
	assert.Error(t, err)
}
