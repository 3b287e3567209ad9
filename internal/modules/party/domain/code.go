package domain

import (
	"math/rand"
	"regexp"
	"strings"
)

const (
	CodeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// GenerateCode produces a random 6-character join code. Uniqueness is the
// store's problem, not the generator's.
func GenerateCode() string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}
	return b.String()
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether code is an already-normalized join code.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}
