package dataset

import (
	"fmt"
	"strings"
)

// Category selects which metric drives marker height.
type Category int

// Category constants using iota
const (
	Population Category = iota
	GDP
	Area
	Elevation
	NumCategories // Sentinel value for array sizing
)

var categoryNames = [NumCategories]string{
	Population: "population",
	GDP:        "gdp",
	Area:       "area",
	Elevation:  "averageElevation",
}

// Categories returns every selectable category in display order.
func Categories() []Category {
	return []Category{Population, GDP, Area, Elevation}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c >= 0 && c < NumCategories
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Next cycles to the following category, wrapping after Elevation.
func (c Category) Next() Category {
	if !c.Valid() {
		return Population
	}
	return (c + 1) % NumCategories
}

// ParseCategory accepts the category name case-insensitively.
// "elevation" is accepted as an alias of "averageElevation".
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "elevation", "averageelevation", "average_elevation":
		return Elevation, nil
	}
	for i, n := range categoryNames {
		if strings.ToLower(n) == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}
