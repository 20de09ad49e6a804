package model

import (
	"regexp"
	"strings"
)

// Category groups tasks under a title, color and icon.
type Category struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Color string `json:"color" yaml:"color"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// DefaultCategoryColors is the palette offered when creating a category.
var DefaultCategoryColors = []string{
	"#C9CC41",
	"#66CC41",
	"#41CCA7",
	"#4181CC",
	"#41A2CC",
	"#CC8441",
	"#9741CC",
	"#CC4173",
	"#FF9680",
	"#80FFFF",
	"#80FFD1",
	"#809CFF",
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateNew checks a category before it is sent to a backend.
func (c Category) ValidateNew() error {
	if c.ID != "" {
		return NewValidationError("id", "must be empty before creation")
	}
	if strings.TrimSpace(c.Title) == "" {
		return NewValidationError("title", "must not be empty")
	}
	if c.Color == "" {
		return NewValidationError("color", "must not be empty")
	}
	if !hexColor.MatchString(c.Color) {
		return NewValidationError("color", "must be a #RGB or #RRGGBB hex value")
	}
	return nil
}
