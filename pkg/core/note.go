// Package core holds the note domain: the Note entity, the storage ports and
// the in-memory Repository that answers edits and searches.
package core

import "strings"

// NoTag is the label shown for notes saved without a tag.
const NoTag = "No tag"

// Note is a single user note.
// ID is opaque and stable for the lifetime of the note; Title, Content and
// Tag are user-authored.
type Note struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
	Tag     string `json:"tag" yaml:"tag"`
}

// HasTag reports whether the note carries a real tag.
func (n Note) HasTag() bool {
	return n.Tag != "" && n.Tag != NoTag
}

// Matches reports whether the note matches query as a case-insensitive
// substring of its title, content or tag. An empty query matches everything.
func (n Note) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Content), q) ||
		strings.Contains(strings.ToLower(n.Tag), q)
}

// Theme is the persisted light/dark preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme converts user input into a Theme.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", &InvalidThemeError{Value: s}
}

// InvalidThemeError is returned by ParseTheme for unknown names.
type InvalidThemeError struct {
	Value string
}

func (e *InvalidThemeError) Error() string {
	return "invalid theme " + strings.TrimSpace(e.Value) + ` (expected "light" or "dark")`
}
