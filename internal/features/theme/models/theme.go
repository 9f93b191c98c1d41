package models

import "strings"

// Theme is the visual theme stored on the user record.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
	Ozon  Theme = "ozon"
)

// All returns every supported theme.
func All() []Theme {
	return []Theme{Light, Dark, Ozon}
}

// Valid reports whether t is a supported theme.
func (t Theme) Valid() bool {
	switch t {
	case Light, Dark, Ozon:
		return true
	}
	return false
}

func (t Theme) String() string {
	return string(t)
}

// Parse normalizes a stored theme name.
func Parse(s string) (Theme, bool) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// Scheme is the host's ambient light/dark preference.
type Scheme string

const (
	SchemeLight Scheme = "light"
	SchemeDark  Scheme = "dark"
)

// FromScheme maps the ambient scheme to a theme. Only dark maps to Dark.
func FromScheme(s Scheme) Theme {
	if s == SchemeDark {
		return Dark
	}
	return Light
}
