package shell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_Run(t *testing.T) {
	r := NewRegistry(testContent, func() time.Time { return testNow })

	tests := []struct {
		name string
		args string
		want string
	}{
		{"welcome", "", testContent["welcome"]},
		{"help", "", testContent["help"]},
		{"about", "ignored", testContent["about"]},
		{"contact", "", testContent["contact"]},
		{"whoami", "", "keuhdall"},
		{"ls", "", "about.txt  skills.txt  projects.txt  experience.txt  contact.txt"},
		{"echo", "hello  world", "hello  world"},
		{"echo", "", ""},
		{"cat", "about.txt", testContent["about"]},
		{"cat", "./skills.txt", testContent["skills"]},
		{"cat", "nosuch.txt", FileNotFound},
		{"cat", "", FileNotFound},
		{"clear", "", ""},
		{"2048", "", "Starting 2048 game..."},
		{"date", "", "Tue Mar 05 2024 14:07:09 GMT+0000 (UTC)"},
		{"ABOUT", "", "Command not found: ABOUT. Type 'help' for available commands."},
	}

	for _, tt := range tests {
		t.Run(tt.name+" "+tt.args, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Run(tt.name, tt.args))
		})
	}
}

func TestRegistry_CatMatchesStaticCommands(t *testing.T) {
	r := NewRegistry(testContent, nil)

	for _, file := range Files {
		name := file[:len(file)-len(".txt")]
		assert.Equal(t, r.Run(name, ""), r.Run("cat", file), file)
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry(testContent, nil)

	assert.Equal(t, []string{
		"help", "about", "skills", "projects", "experience", "contact",
		"clear", "whoami", "date", "uptime", "ls", "cat", "echo", "welcome", "2048",
	}, r.Names())

	for _, name := range r.Names() {
		id, ok := r.Lookup(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, id.String())
	}

	_, ok := r.Lookup("Help")
	assert.False(t, ok)
	assert.Equal(t, "CommandID(99)", CommandID(99).String())
}

// Hours are taken modulo a whole day while years are 365.25 days long, so
// a quarter day carries over into the hours field after each year.
func TestUptime(t *testing.T) {
	now := BirthEpoch.Add(time.Duration(msYear)*time.Millisecond +
		2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second + 999*time.Millisecond)

	assert.Equal(t,
		"System uptime since birth (Nov 15, 1994 00:00):\n1 years, 2 days, 9 hours, 4 minutes, 5 seconds",
		Uptime(now))
}

func TestUptime_YearIsQuarterDayLonger(t *testing.T) {
	now := BirthEpoch.Add(365 * 24 * time.Hour)

	assert.Contains(t, Uptime(now), "0 years, 365 days, 0 hours, 0 minutes, 0 seconds")
}

func TestFormatDate_Zone(t *testing.T) {
	zone := time.FixedZone("CET", 3600)
	got := FormatDate(time.Date(2025, time.January, 1, 9, 30, 0, 0, zone))

	assert.Equal(t, "Wed Jan 01 2025 09:30:00 GMT+0100 (CET)", got)
}
