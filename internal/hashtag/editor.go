package hashtag

import (
	"strings"
	"unicode/utf8"
)

// MaxTagStringLen caps the cumulative length of the confirmed tag string,
// counted in runes. A confirmation that would push the joined tags past the
// cap is refused and the token stays in the body text.
const MaxTagStringLen = 1000

// Editor tracks free text and a cursor position, detecting an in-progress
// #token immediately before the cursor and confirming it on a trailing
// space. Confirmed tokens move out of the body into the selected-tags list.
type Editor struct {
	vocabulary []string

	text     []rune
	cursor   int // rune offset into text
	selected []string
}

// NewEditor creates an editor with the known tag vocabulary used for
// autocomplete suggestions.
func NewEditor(vocabulary []string) *Editor {
	return &Editor{vocabulary: vocabulary}
}

// SetVocabulary replaces the autocomplete vocabulary.
func (e *Editor) SetVocabulary(vocabulary []string) {
	e.vocabulary = vocabulary
}

// Apply installs the new text and cursor position, then confirms a #token
// the user just terminated with a space. It returns the confirmed tag, or
// "" when nothing was confirmed.
func (e *Editor) Apply(text string, cursor int) string {
	e.text = []rune(text)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(e.text) {
		cursor = len(e.text)
	}
	e.cursor = cursor

	return e.confirmPending()
}

// Text returns the current body text.
func (e *Editor) Text() string {
	return string(e.text)
}

// Cursor returns the current cursor position in runes.
func (e *Editor) Cursor() int {
	return e.cursor
}

// Selected returns the confirmed tags in confirmation order.
func (e *Editor) Selected() []string {
	out := make([]string, len(e.selected))
	copy(out, e.selected)
	return out
}

// TagString returns the confirmed tags joined as "#a #b", the free-text
// hashtag format the backend stores.
func (e *Editor) TagString() string {
	if len(e.selected) == 0 {
		return ""
	}
	return "#" + strings.Join(e.selected, " #")
}

// CurrentToken returns the in-progress #token immediately before the cursor,
// without its '#', and whether one exists. The token is bounded by the
// nearest preceding space or newline, or the start of the string.
func (e *Editor) CurrentToken() (string, bool) {
	start := e.cursor
	for start > 0 {
		prev := e.text[start-1]
		if prev == ' ' || prev == '\n' {
			break
		}
		start--
	}
	if start >= e.cursor || e.text[start] != '#' {
		return "", false
	}
	return string(e.text[start+1 : e.cursor]), true
}

// Suggestions filters the vocabulary by case-insensitive prefix match
// against the in-progress token. No token means no suggestions.
func (e *Editor) Suggestions() []string {
	token, ok := e.CurrentToken()
	if !ok {
		return nil
	}
	prefix := strings.ToLower(token)

	var out []string
	for _, word := range e.vocabulary {
		if strings.HasPrefix(strings.ToLower(word), prefix) {
			out = append(out, word)
		}
	}
	return out
}

// confirmPending checks for "#token " directly before the cursor and, if
// found and within the cumulative cap, moves the token into the selected
// list and removes it (and its trailing space) from the body.
func (e *Editor) confirmPending() string {
	if e.cursor == 0 || e.text[e.cursor-1] != ' ' {
		return ""
	}

	end := e.cursor - 1 // last rune of the token
	start := end
	for start > 0 {
		prev := e.text[start-1]
		if prev == ' ' || prev == '\n' {
			break
		}
		start--
	}
	if start >= end || e.text[start] != '#' {
		return ""
	}

	token := string(e.text[start+1 : end])
	if token == "" {
		return ""
	}
	if e.isDuplicate(token) || !e.fitsCap(token) {
		return ""
	}

	e.selected = append(e.selected, token)
	e.text = append(e.text[:start], e.text[e.cursor:]...)
	e.cursor = start
	return token
}

// isDuplicate matches confirmed tags case-insensitively, like suggestions.
func (e *Editor) isDuplicate(token string) bool {
	for _, tag := range e.selected {
		if strings.EqualFold(tag, token) {
			return true
		}
	}
	return false
}

// fitsCap counts in runes, matching how journal content is capped.
func (e *Editor) fitsCap(token string) bool {
	joined := utf8.RuneCountInString(e.TagString())
	added := 1 + utf8.RuneCountInString(token) // leading '#'
	if joined > 0 {
		added++ // separating space
	}
	return joined+added <= MaxTagStringLen
}
