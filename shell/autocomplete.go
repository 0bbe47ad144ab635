package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/catsearch/board"
)

// ShellCompleter provides autocomplete for command names and symmetry
// arguments.
type ShellCompleter struct{}

func NewShellCompleter() *ShellCompleter {
	return &ShellCompleter{}
}

var commandNames = []string{
	"help", "rle", "random", "show", "step", "move", "sym", "pop", "hash",
	"clear", "chain", "load", "search", "result", "exit",
}

// Do implements the readline.AutoComplete interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	switch {
	case len(fields) == 0 || (len(fields) == 1 && !endsWithSpace):
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	case fields[0] == "sym" && (len(fields) == 1 || (len(fields) == 2 && !endsWithSpace)):
		if len(fields) == 2 {
			prefix = fields[1]
		}
		for _, s := range board.AllSymmetries {
			completions = append(completions, s.String())
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
