package validation

import (
	"strings"
	"unicode/utf8"
)

// Strength is the feedback class of a password.
type Strength int

const (
	None Strength = iota
	Weak
	Medium
	Strong
)

const punctuation = "!@#$%^&*"

func (s Strength) String() string {
	switch s {
	case Weak:
		return "Weak"
	case Medium:
		return "Medium"
	case Strong:
		return "Strong"
	default:
		return ""
	}
}

// Level is the meter fill in thirds: 0 for None up to 3 for Strong.
func (s Strength) Level() int {
	return int(s)
}

// Color is the meter colour as a hex string, empty for None.
func (s Strength) Color() string {
	switch s {
	case Weak:
		return "#ef4444"
	case Medium:
		return "#f59e0b"
	case Strong:
		return "#22c55e"
	default:
		return ""
	}
}

// Score counts how many of the six strength checks pwd passes.
func Score(pwd string) int {
	n := utf8.RuneCountInString(pwd)
	score := 0
	if n >= 6 {
		score++
	}
	if n >= 10 {
		score++
	}
	if strings.ContainsFunc(pwd, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		score++
	}
	if strings.ContainsFunc(pwd, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		score++
	}
	if strings.ContainsFunc(pwd, func(r rune) bool { return r >= '0' && r <= '9' }) {
		score++
	}
	if strings.ContainsAny(pwd, punctuation) {
		score++
	}
	return score
}

// Classify maps a password to its Strength. The empty password is None.
func Classify(pwd string) Strength {
	if pwd == "" {
		return None
	}
	switch score := Score(pwd); {
	case score <= 2:
		return Weak
	case score <= 4:
		return Medium
	default:
		return Strong
	}
}
