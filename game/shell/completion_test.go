package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete_SingleCommandMatch(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"h", "help"},
		{"H", "help"},
		{"  ab", "about"},
		{"upt", "uptime"},
		{"20", "2048"},
		{"cat", "cat"},
		{"cat ", "cat"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sh, _ := newTestShell(t)
			sh.SetInput(tt.input)

			result := sh.Complete(tt.input)
			assert.Equal(t, tt.want, result.Input)
			assert.Equal(t, tt.want, sh.Input())
			assert.False(t, result.Listed)
			assert.Len(t, sh.Transcript(), 1)
		})
	}
}

func TestComplete_MultipleCommandMatches(t *testing.T) {
	sh, q := newTestShell(t)
	sh.SetInput("c")

	result := sh.Complete("c")

	assert.True(t, result.Listed)
	assert.Equal(t, []string{"contact", "clear", "cat"}, result.Matches)
	assert.Equal(t, "c", sh.Input())

	transcript := sh.Transcript()
	require.Len(t, transcript, 2)
	assert.Equal(t, "c", transcript[1].Input)
	assert.Equal(t, "Available completions:\ncontact  clear  cat", transcript[1].Output)

	assert.Empty(t, sh.History())
	assert.False(t, sh.Busy())
	assert.Zero(t, q.Len())
}

func TestComplete_FileNames(t *testing.T) {
	sh, _ := newTestShell(t)

	result := sh.Complete("cat ab")
	assert.Equal(t, "cat about.txt", result.Input)

	result = sh.Complete("cat AB")
	assert.Empty(t, result.Matches, "file names are case-sensitive")
	assert.Equal(t, "cat about.txt", sh.Input())
}

func TestComplete_FileWithoutMatch(t *testing.T) {
	sh, _ := newTestShell(t)
	sh.SetInput("cat .")

	result := sh.Complete("cat .")
	assert.Empty(t, result.Matches)
	assert.False(t, result.Listed)
	assert.Equal(t, "cat .", sh.Input())
}

func TestComplete_NoBehaviourForOtherShapes(t *testing.T) {
	for _, input := range []string{"echo a", "cat a b", "zzz"} {
		sh, _ := newTestShell(t)
		sh.SetInput(input)

		result := sh.Complete(input)
		assert.False(t, result.Listed, input)
		assert.Equal(t, input, sh.Input(), input)
		assert.Len(t, sh.Transcript(), 1, input)
	}
}

func TestComplete_EmptyListsEverything(t *testing.T) {
	sh, _ := newTestShell(t)

	result := sh.Complete("")
	assert.True(t, result.Listed)
	assert.Equal(t, sh.registry.Names(), result.Matches)
}

func TestComplete_IgnoredWhileBusy(t *testing.T) {
	sh, _ := newTestShell(t)
	require.NoError(t, sh.Execute("about"))

	result := sh.Complete("h")
	assert.Empty(t, result.Input)
	assert.Len(t, sh.Transcript(), 2)
}
