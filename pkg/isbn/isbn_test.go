package isbn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"isbn13 plain", "9780306406157", true},
		{"isbn13 hyphenated", "978-0-306-40615-7", true},
		{"isbn13 spaced", "978 0 13 235088 4", true},
		{"isbn13 bad checksum", "9780306406158", false},
		{"isbn13 with letter", "97803064061X7", false},
		{"isbn10 plain", "0306406152", true},
		{"isbn10 trailing X", "080442957X", true},
		{"isbn10 lowercase x rejected", "080442957x", false},
		{"isbn10 bad checksum", "0306406153", false},
		{"isbn10 X not last", "03064X6152", false},
		{"too short", "12345", false},
		{"eleven digits", "12345678901", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "9780306406157", Normalize(" 978-0-306 40615-7 "))
	assert.Equal(t, "080442957X", Normalize("0-8044-2957-X"))
	assert.Equal(t, "080442957x", Normalize("0-8044-2957-x"))
}
