// Package validate holds the pure answer checks used by the registration flow.
// Every function reports pass/fail only; callers own the retry wording.
package validate

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	// BirthDateLayout accepts both padded and unpadded day and month (01.02.1990, 1.2.1990).
	BirthDateLayout = "2.1.2006"

	MinAge = 18
	MaxAge = 65

	minPhoneDigits = 10
	maxPhoneDigits = 15

	minSpecCodeDigits = 3
	maxSpecCodeDigits = 4

	// NoSpec is the literal answer for "no specialty"; it is stored as is.
	NoSpec = "нет"
)

var namePattern = regexp.MustCompile(`^[А-ЯЁа-яё\s-]{2,50}$`)

// BirthDate parses a DD.MM.YYYY date and accepts it when the age at now is
// within [MinAge, MaxAge].
func BirthDate(text string, now time.Time) bool {
	born, err := time.Parse(BirthDateLayout, strings.TrimSpace(text))
	if err != nil {
		return false
	}
	age := Age(born, now)
	return age >= MinAge && age <= MaxAge
}

// Age returns full years between born and now, counting a birthday only once
// its month and day have been reached this year.
func Age(born, now time.Time) int {
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age
}

// Name accepts 2-50 Cyrillic letters, whitespace or hyphens.
func Name(text string) bool {
	return namePattern.MatchString(text)
}

// Phone keeps only ASCII digits and normalizes the number to international form.
// It returns false and an empty string when the digit count is out of range.
func Phone(text string) (bool, string) {
	digits := onlyDigits(text)
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return false, ""
	}

	switch {
	case strings.HasPrefix(digits, "8"):
		return true, "+7" + digits[1:]
	case strings.HasPrefix(digits, "7"):
		return true, "+" + digits
	case len(digits) == minPhoneDigits:
		return true, "+7" + digits
	default:
		return true, "+" + digits
	}
}

// MilitarySpec validates "codes; professions" or the literal NoSpec and returns the
// normalized value: codes reduced to digits, sorted, joined by ", ".
func MilitarySpec(text string) (bool, string) {
	text = strings.TrimSpace(text)
	if strings.ToLower(text) == NoSpec {
		return true, NoSpec
	}

	parts := strings.Split(text, ";")
	if len(parts) != 2 {
		return false, ""
	}

	var codes []string
	for _, raw := range strings.Split(parts[0], ",") {
		if code := onlyDigits(raw); code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return false, ""
	}
	for _, code := range codes {
		if len(code) < minSpecCodeDigits || len(code) > maxSpecCodeDigits {
			return false, ""
		}
	}

	profession := strings.TrimSpace(parts[1])
	if profession == "" {
		return false, ""
	}

	sort.Strings(codes)
	return true, strings.Join(codes, ", ") + "; " + profession
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
