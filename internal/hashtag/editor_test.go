package hashtag

import (
	"strings"
	"testing"
)

func TestCurrentToken(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cursor int
		want   string
		ok     bool
	}{
		{"token at start", "#lun", 4, "lun", true},
		{"token after space", "had #lun", 8, "lun", true},
		{"token after newline", "line one\n#gy", 12, "gy", true},
		{"bare hash", "a #", 3, "", true},
		{"no token", "plain text", 10, "", false},
		{"cursor mid-word not after hash", "lunch", 3, "", false},
		{"cursor before the hash", "a #tag", 2, "", false},
		{"hash not at word start", "ab#cd", 5, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEditor(nil)
			e.Apply(tt.text, tt.cursor)
			got, ok := e.CurrentToken()
			if ok != tt.ok || got != tt.want {
				t.Errorf("CurrentToken() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSuggestions_CaseInsensitivePrefix(t *testing.T) {
	e := NewEditor([]string{"Lunch", "lundi", "gym", "Reading"})
	e.Apply("today #Lu", 9)

	got := e.Suggestions()
	if len(got) != 2 {
		t.Fatalf("got %d suggestions %v, want 2", len(got), got)
	}
	if got[0] != "Lunch" || got[1] != "lundi" {
		t.Errorf("suggestions = %v, want [Lunch lundi]", got)
	}

	// No in-progress token, no suggestions.
	e.Apply("today lu", 8)
	if got := e.Suggestions(); got != nil {
		t.Errorf("suggestions without token = %v, want nil", got)
	}
}

func TestApply_ConfirmsTokenOnTrailingSpace(t *testing.T) {
	e := NewEditor([]string{"lunch"})

	confirmed := e.Apply("had #lunch ", 11)
	if confirmed != "lunch" {
		t.Fatalf("confirmed = %q, want lunch", confirmed)
	}
	if got := e.Text(); got != "had " {
		t.Errorf("text = %q, want token removed from body", got)
	}
	if got := e.Cursor(); got != 4 {
		t.Errorf("cursor = %d, want 4", got)
	}
	if got := e.TagString(); got != "#lunch" {
		t.Errorf("tag string = %q, want #lunch", got)
	}
}

func TestApply_MultipleConfirmations(t *testing.T) {
	e := NewEditor(nil)

	e.Apply("#work ", 6)
	e.Apply("note #gym ", 10)

	selected := e.Selected()
	if len(selected) != 2 || selected[0] != "work" || selected[1] != "gym" {
		t.Errorf("selected = %v, want [work gym]", selected)
	}
	if got := e.TagString(); got != "#work #gym" {
		t.Errorf("tag string = %q, want \"#work #gym\"", got)
	}
}

func TestApply_NoConfirmationCases(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cursor int
	}{
		{"no trailing space", "had #lunch", 10},
		{"empty token", "had # ", 6},
		{"space after plain word", "had lunch ", 10},
		{"cursor not at the space", "had #lunch x", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEditor(nil)
			if confirmed := e.Apply(tt.text, tt.cursor); confirmed != "" {
				t.Errorf("confirmed %q, want nothing", confirmed)
			}
			if got := e.Text(); got != tt.text {
				t.Errorf("body changed to %q without a confirmation", got)
			}
		})
	}
}

func TestApply_CumulativeCapRefusesConfirmation(t *testing.T) {
	e := NewEditor(nil)

	// Fill the tag string close to the cap.
	big := strings.Repeat("a", MaxTagStringLen-10)
	if got := e.Apply("#"+big+" ", len(big)+2); got == "" {
		t.Fatal("first confirmation should fit")
	}

	// The next token would cross the cap: refused, body untouched.
	text := "#overflowing "
	if got := e.Apply(text, len(text)); got != "" {
		t.Errorf("confirmed %q past the cap", got)
	}
	if got := e.Text(); got != text {
		t.Errorf("body = %q, want unchanged on refused confirmation", got)
	}
	if len(e.Selected()) != 1 {
		t.Errorf("selected = %v, want only the first tag", e.Selected())
	}
	if len(e.TagString()) > MaxTagStringLen {
		t.Errorf("tag string length %d exceeds cap", len(e.TagString()))
	}
}

func TestApply_DuplicateTagRefusedCaseInsensitively(t *testing.T) {
	e := NewEditor(nil)

	if got := e.Apply("#Work ", 6); got != "Work" {
		t.Fatalf("first confirmation = %q, want Work", got)
	}

	// The same tag in different case stays in the body.
	text := "note #work "
	if got := e.Apply(text, len([]rune(text))); got != "" {
		t.Errorf("confirmed duplicate %q", got)
	}
	if got := e.Text(); got != text {
		t.Errorf("body = %q, want unchanged on refused duplicate", got)
	}
	if got := e.TagString(); got != "#Work" {
		t.Errorf("tag string = %q, want only the first confirmation", got)
	}

	// A genuinely new tag still confirms.
	if got := e.Apply("note #work #gym ", 16); got != "gym" {
		t.Errorf("confirmed = %q, want gym", got)
	}
}

func TestFitsCap_CountsRunes(t *testing.T) {
	e := NewEditor(nil)

	// 400 Hangul runes are over 1000 bytes but well under the rune cap.
	wide := strings.Repeat("가", 400)
	if got := e.Apply("#"+wide+" ", 402); got != wide {
		t.Errorf("confirmation refused for %d-rune tag", 400)
	}

	// A second wide tag would cross the cap in runes: 401 + 1 + 401 > 1000.
	wider := strings.Repeat("나", 600)
	text := "#" + wider + " "
	if got := e.Apply(text, len([]rune(text))); got != "" {
		t.Errorf("confirmed %d-rune tag past the cap", 600)
	}
}

func TestApply_MultibyteText(t *testing.T) {
	e := NewEditor([]string{"점심"})

	text := "오늘 #점심 "
	confirmed := e.Apply(text, len([]rune(text)))
	if confirmed != "점심" {
		t.Errorf("confirmed = %q, want 점심", confirmed)
	}
	if got := e.Text(); got != "오늘 " {
		t.Errorf("text = %q, want token removed", got)
	}
}
