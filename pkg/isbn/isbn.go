// Package isbn normalizes and validates ISBN-10 and ISBN-13 identifiers.
package isbn

import "strings"

// Normalize strips hyphens and spaces. The ISBN-10 check character must already be an upper-case X.
func Normalize(raw string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(raw))
}

// Valid reports whether raw is a well-formed ISBN-10 or ISBN-13 with a correct check digit.
func Valid(raw string) bool {
	s := Normalize(raw)
	switch len(s) {
	case 13:
		return valid13(s)
	case 10:
		return valid10(s)
	default:
		return false
	}
}

// valid13: digits at even indexes weigh 1, odd indexes weigh 3, sum mod 10 == 0.
func valid13(s string) bool {
	sum := 0
	for i := 0; i < 13; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	return sum%10 == 0
}

// valid10: weights 10..1, trailing X counts as 10, sum mod 11 == 0.
func valid10(s string) bool {
	sum := 0
	for i := 0; i < 9; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		sum += int(c-'0') * (10 - i)
	}

	last := s[9]
	switch {
	case last == 'X':
		sum += 10
	case last >= '0' && last <= '9':
		sum += int(last - '0')
	default:
		return false
	}
	return sum%11 == 0
}
