package model

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// NormalizeEmail lowercases and trims an email address so that diffing is
// insensitive to case and whitespace differences between the club site and
// the remote directory.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone reduces a phone number to a "+1" prefixed digit string.
// Formatting characters are stripped; a 10-digit national number gains the
// US country code. Numbers that already carry a country code keep it.
// An empty or non-numeric input returns the empty string.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	s := digits.String()
	switch {
	case s == "":
		return ""
	case len(s) == 10:
		return "+1" + s
	case len(s) == 11 && s[0] == '1':
		return "+" + s
	default:
		return "+" + s
	}
}

// Aliases remaps desired emails before diffing. The remote directory
// resolves some addresses to a canonical alias server-side; without the
// remap those members would be re-inserted on every run.
type Aliases map[string]string

// LoadAliases reads an alias table from a YAML file mapping each email to
// its canonical form. An empty path yields an empty table.
func LoadAliases(path string) (Aliases, error) {
	if path == "" {
		return Aliases{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading alias file: %w", err)
	}
	var parsed map[string]string
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsing alias file %s: %w", path, err)
	}

	aliases := make(Aliases, len(parsed))
	for from, to := range parsed {
		aliases[NormalizeEmail(from)] = NormalizeEmail(to)
	}
	return aliases, nil
}

// Apply returns the canonical form for the given email. Lookup and result
// are both normalized.
func (a Aliases) Apply(email string) string {
	key := NormalizeEmail(email)
	if canonical, ok := a[key]; ok {
		return NormalizeEmail(canonical)
	}
	return key
}

// ApplyAll rewrites the email of each user in place and returns the slice.
func (a Aliases) ApplyAll(users []User) []User {
	for i := range users {
		users[i].Email = a.Apply(users[i].Email)
	}
	return users
}
