package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEventMultiDay(t *testing.T) {
	single := Event{StartDate: date("2024-01-01"), EndDate: date("2024-01-01")}
	multi := Event{StartDate: date("2024-01-01"), EndDate: date("2024-01-03")}

	assert.False(t, single.MultiDay())
	assert.True(t, multi.MultiDay())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"formatted national", "(555) 123-4567", "+15551234567"},
		{"dotted national", "555.123.4567", "+15551234567"},
		{"with country code", "1-555-123-4567", "+15551234567"},
		{"already normalized", "+15551234567", "+15551234567"},
		{"empty", "", ""},
		{"no digits", "n/a", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestAliasesApply(t *testing.T) {
	aliases := Aliases{"old@example.com": "New@Example.com"}

	// Remapped, with both sides normalized.
	assert.Equal(t, "new@example.com", aliases.Apply("OLD@example.com"))
	// Untouched addresses pass through normalized.
	assert.Equal(t, "other@example.com", aliases.Apply("Other@Example.com"))
}

func TestAliasesApplyAll(t *testing.T) {
	aliases := Aliases{"old@example.com": "new@example.com"}
	users := []User{
		{Name: "User 0", Email: "old@example.com"},
		{Name: "User 1", Email: "user1@example.com"},
	}

	out := aliases.ApplyAll(users)

	assert.Equal(t, "new@example.com", out[0].Email)
	assert.Equal(t, "user1@example.com", out[1].Email)
}

func TestUserValues(t *testing.T) {
	u := User{
		Name:    "User 0",
		Email:   "user0@example.com",
		Address: "1 Main St",
		City:    "Pasadena",
		State:   "CA",
		Zipcode: "91101",
	}

	assert.Equal(t, "User 0 <user0@example.com>", u.NameEmail())
	assert.Equal(t, "1 Main St, Pasadena, CA 91101", u.FormattedAddress())
	assert.Equal(t, "n/a", u.TripLeaderValue())
	assert.Equal(t, "n/a", u.PositionValue())

	u.TripLeaderStatus = TripLeaderSnow2
	u.Position = "Treasurer"
	assert.Equal(t, "S2", u.TripLeaderValue())
	assert.Equal(t, "Treasurer", u.PositionValue())
}

func TestLoadAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	content := "old@example.com: new@example.com\nAnother@Example.com: canonical@example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	aliases, err := LoadAliases(path)
	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", aliases.Apply("old@example.com"))
	assert.Equal(t, "canonical@example.com", aliases.Apply("another@example.com"))

	empty, err := LoadAliases("")
	assert.NoError(t, err)
	assert.Equal(t, "kept@example.com", empty.Apply("kept@example.com"))

	_, err = LoadAliases(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
