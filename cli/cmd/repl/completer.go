package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/zlang-dev/zlang/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "clear", "quit"}

// isWordBoundary reports whether the rune is a word delimiter for
// completion purposes: whitespace, member-access dot, and operator or
// punctuation characters.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', ':', ';', '"':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on a
// boundary (after a space, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// candidates returns the completion vocabulary for a mode: control
// commands in ctrl mode; keywords, built-ins, and the names bound in the
// top-level environment in eval mode.
func candidates(mode inputMode, globals *lang.Env) []string {
	if mode == modeCtrl {
		return ctrlCommands
	}

	words := append(lang.Keywords(), lang.BuiltinNames()...)

	if globals != nil {
		words = append(words, globals.Names()...)
	}

	seen := make(map[string]struct{}, len(words))
	uniq := words[:0]

	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}

		seen[w] = struct{}{}
		uniq = append(uniq, w)
	}

	return uniq
}

// matchWord fuzzy-matches the current word against the vocabulary.
// An empty word yields no matches rather than the full vocabulary.
func matchWord(word string, vocabulary []string) fuzzy.Matches {
	if word == "" {
		return nil
	}

	return fuzzy.Find(word, vocabulary)
}

// renderCandidateBar renders matches as a single horizontal bar,
// highlighting the selected candidate, ellipsizing to fit width.
func renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	width int,
) string {
	var b strings.Builder

	for i, m := range matches {
		part := m.Str
		if i == selected {
			part = selectedStyle.Render(part)
		} else {
			part = suggestionStyle.Render(part)
		}

		if i > 0 {
			b.WriteString("  ")
		}

		if lipgloss.Width(b.String())+lipgloss.Width(part) > width {
			b.WriteString(hintStyle.Render("…"))

			break
		}

		b.WriteString(part)
	}

	return b.String()
}
