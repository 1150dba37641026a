package validate

import (
	"regexp"
	"strings"

	"ktmobile/internal/domain"

	"github.com/go-playground/validator/v10"
)

var (
	reEmail   = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ       = regexp.MustCompile(`^[A-Za-z0-9 _'+\\-]{1,50}$`)
	reID      = regexp.MustCompile(`^[A-Za-z0-9_-]{1,96}$`)
	reStorage = regexp.MustCompile(`^([0-9]{1,4}(GB|TB|mm)|[A-Za-z][A-Za-z ]{0,19})$`)
	reBrand   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 &-]{0,39}$`)
	reModel   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 +()'./-]{0,79}$`)
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct runs the `validate` tags of s.
func Struct(s any) error { return v.Struct(s) }

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 80 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// ID validates a phone record identifier.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Storage validates a storage label such as 256GB, 1TB, 49mm or Standard.
func Storage(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reStorage.MatchString(s)
}

// Condition parses a grade, case-insensitively.
func Condition(s string) (domain.Grade, bool) {
	g := domain.Grade(strings.ToLower(strings.TrimSpace(s)))
	return g, g.Valid()
}

// Warranty parses the warranty add-on: "", "0", "off", "12" or "24".
func Warranty(s string) (domain.Warranty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "off", "none":
		return domain.WarrantyOff, true
	case "12", "12mo":
		return domain.Warranty12, true
	case "24", "24mo":
		return domain.Warranty24, true
	}
	return 0, false
}

// Flag parses a checkbox-style boolean.
func Flag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func Brand(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reBrand.MatchString(s)
}

func Model(s string) (string, bool) {
	s = strings.Join(strings.Fields(s), " ")
	return s, reModel.MatchString(s)
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
