package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Errors maps field names to human-readable messages. An empty map
// means the input passed.
type Errors map[string]string

func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

func (e Errors) OK() bool { return len(e) == 0 }

// Name trims and checks a display name (2 chars minimum).
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) >= 2 && len(s) <= 100
}

// Email trims and checks an email address.
func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password enforces the registration minimum length.
func Password(s string) bool {
	return len(s) >= 8 && len(s) <= 72 // bcrypt input cap
}

// Category trims and checks an entry category.
func Category(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 100
}

// Value checks a monetary amount in minor units.
func Value(v int64) bool {
	return v > 0
}

// Date parses an entry date. Accepts YYYY-MM-DD or RFC 3339.
func Date(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Month parses an optional YYYY-MM filter.
func Month(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	return t, err == nil
}

// ID parses a positive integer identifier from a path or query string.
func ID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return id, err == nil && id > 0
}

// Role checks a user role, defaulting empty input to "user".
func Role(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return "user", true
	case "admin", "user":
		return s, true
	}
	return "", false
}

// MemberRole checks a family membership role, defaulting to "member".
func MemberRole(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return "member", true
	case "admin", "member":
		return s, true
	}
	return "", false
}
