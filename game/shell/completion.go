package shell

import (
	"strings"

	"golang.org/x/text/cases"
)

// Complete performs tab completion on input. A single command token is
// completed against command names ignoring case; "cat <prefix>" is
// completed against Files with case preserved. One match rewrites the
// input field. Several matches are listed in a new transcript entry
// without touching history.
func (sh *Shell) Complete(input string) Completion {
	if sh.busy {
		return Completion{Input: sh.input}
	}

	parts := strings.Split(strings.TrimSpace(input), " ")

	var (
		matches []string
		header  string
		prefix  string
	)
	switch {
	case len(parts) == 1:
		token := cases.Fold().String(parts[0])
		for _, name := range sh.registry.Names() {
			if strings.HasPrefix(name, token) {
				matches = append(matches, name)
			}
		}
		header = "Available completions:\n"
	case len(parts) == 2 && parts[0] == CmdCat.String():
		for _, file := range Files {
			if strings.HasPrefix(file, parts[1]) {
				matches = append(matches, file)
			}
		}
		header = "Available files:\n"
		prefix = parts[0] + " "
	}

	result := Completion{Matches: matches}
	switch {
	case len(matches) == 1:
		sh.input = prefix + matches[0]
	case len(matches) > 1:
		sh.transcript = append(sh.transcript, Entry{
			Input:     input,
			Output:    header + strings.Join(matches, "  "),
			Timestamp: sh.clock(),
		})
		result.Listed = true
	}
	result.Input = sh.input
	return result
}
