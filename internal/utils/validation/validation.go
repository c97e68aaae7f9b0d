// Package validation holds the shared validation, sanitization, and date
// helpers used by the student record store and both HTTP surfaces.
//
// Every function here is a pure function over its inputs except NewStudentID
// and NowISO, which read the entropy source / system clock. None of them ever
// panics on bad input: an invalid or empty value yields the documented
// default instead ("" for formatters, false for predicates, 0 for ages).
//
// All date parsing and "now" comparisons are pinned to UTC so that results
// never shift by a day depending on the server's timezone.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

const (
	// dateLayout is the expected wire format for birth dates (ISO 8601 date).
	dateLayout = "2006-01-02"

	// frenchDateLayout is the display format used everywhere in the UI.
	frenchDateLayout = "02/01/2006"

	// minNameRunes / maxNameRunes bound the trimmed name length. Runes, not
	// bytes: accented French names ("Léa") count one per letter.
	minNameRunes = 2
	maxNameRunes = 50

	// maxAgeYears is how far in the past a birth date may lie.
	maxAgeYears = 150

	// unsafeNameChars are never allowed to survive into a stored name.
	unsafeNameChars = `<>"'&`
)

var (
	// birthDatePattern enforces the exact YYYY-MM-DD shape before parsing,
	// so "1990-9-4" or "1990-09-14T00:00:00Z" are rejected up front.
	birthDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	// tagPattern matches markup-like sequences ("<script>", "<b>") which are
	// dropped whole during sanitization, contents included.
	tagPattern = regexp.MustCompile(`<[^>]*>`)

	// unsafeCharReplacer strips any unsafe character that survives tag
	// removal, such as an unpaired "<" or a stray "&".
	unsafeCharReplacer = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "", "&", "")
)

// FormatFrenchDate converts an ISO date string (YYYY-MM-DD) to the French
// display form DD/MM/YYYY. Empty or unparseable input yields "".
func FormatFrenchDate(date string) string {
	if date == "" {
		return ""
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return ""
	}
	return parsed.Format(frenchDateLayout)
}

// CalculateAge returns the whole number of years elapsed from the given
// ISO birth date to now, decremented by one when the current month/day
// precedes the birth month/day. Empty or invalid input yields 0.
func CalculateAge(birth string) int {
	parsed, err := time.Parse(dateLayout, birth)
	if err != nil {
		return 0
	}
	return ageAt(parsed, time.Now().UTC())
}

// ageAt computes the age at a fixed reference instant.
func ageAt(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}

// IsValidBirthDate reports whether date is an exact YYYY-MM-DD string that
// parses to a real calendar date, is not in the future, and is not more
// than 150 years in the past.
func IsValidBirthDate(date string) bool {
	if !birthDatePattern.MatchString(date) {
		return false
	}
	// time.Parse also rejects impossible dates such as 2023-02-30.
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	return birthDateInRange(parsed, time.Now().UTC())
}

// birthDateInRange checks the [now-150y, now] window at a fixed instant.
func birthDateInRange(birth, now time.Time) bool {
	if birth.After(now) {
		return false
	}
	return !birth.Before(now.AddDate(-maxAgeYears, 0, 0))
}

// IsValidName reports whether the trimmed name is 2–50 runes long and
// contains none of the characters < > " ' &.
func IsValidName(name string) bool {
	trimmed := strings.TrimSpace(name)
	length := utf8.RuneCountInString(trimmed)
	if length < minNameRunes || length > maxNameRunes {
		return false
	}
	return !strings.ContainsAny(trimmed, unsafeNameChars)
}

// IsValidStudentID reports whether id is a non-empty string. IDs are opaque
// tokens; anything beyond presence is the store's concern.
func IsValidStudentID(id string) bool {
	return id != ""
}

// NewStudentID returns a unique student identifier: a ULID, which combines
// a millisecond timestamp with 80 bits of randomness. Collisions are
// negligible at this application's scale.
func NewStudentID() string {
	return ulid.Make().String()
}

// SanitizeName normalizes free-text name input: markup-like <...> sequences
// are dropped whole, any remaining < > " ' & characters are stripped,
// whitespace runs collapse to single spaces, the result is trimmed and
// truncated to 50 runes. Empty input yields "".
func SanitizeName(name string) string {
	cleaned := tagPattern.ReplaceAllString(name, "")
	cleaned = unsafeCharReplacer.Replace(cleaned)
	// Fields both collapses internal whitespace runs and trims the ends.
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if runes := []rune(cleaned); len(runes) > maxNameRunes {
		cleaned = strings.TrimSpace(string(runes[:maxNameRunes]))
	}
	return cleaned
}

// DatesEqual reports whether a and b both parse to the same instant.
// Either value being empty or unparseable makes the result false.
func DatesEqual(a, b string) bool {
	first, ok := parseFlexible(a)
	if !ok {
		return false
	}
	second, ok := parseFlexible(b)
	if !ok {
		return false
	}
	return first.Equal(second)
}

// parseFlexible accepts either a plain ISO date or a full RFC 3339 timestamp.
func parseFlexible(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// NowISO returns the current instant as an ISO-8601 (RFC 3339) string in UTC.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
