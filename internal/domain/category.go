package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ServiceCategory is a closed enumeration of the salon's service families
type ServiceCategory string

const (
	CategoryHairdressing ServiceCategory = "peluqueria"
	CategoryAesthetics   ServiceCategory = "estetica"
)

// legacyAllCategories is the stored marker meaning "qualified for every category".
// It is expanded at the data boundary and never reaches the matcher.
const legacyAllCategories = "ambas"

// AllCategories lists every known category in stable order
var AllCategories = []ServiceCategory{
	CategoryHairdressing,
	CategoryAesthetics,
}

var categoryLabels = map[ServiceCategory]string{
	CategoryHairdressing: "Peluquería",
	CategoryAesthetics:   "Estética",
}

// Label returns the human readable category name
func (c ServiceCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// IsValid reports whether c is one of AllCategories
func (c ServiceCategory) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseServiceCategory converts a stored or user supplied category name.
// The comparison is exact after case folding and accent removal.
func ParseServiceCategory(raw string) (ServiceCategory, error) {
	c := ServiceCategory(normalizeCategory(raw))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
	return c, nil
}

// CategorySet is the set of categories a worker is qualified for
type CategorySet map[ServiceCategory]struct{}

// NewCategorySet builds a set from the given categories
func NewCategorySet(categories ...ServiceCategory) CategorySet {
	s := make(CategorySet, len(categories))
	for _, c := range categories {
		s[c] = struct{}{}
	}
	return s
}

// ParseCategorySet decodes stored category names, expanding the legacy "ambas" marker
func ParseCategorySet(raw ...string) (CategorySet, error) {
	s := make(CategorySet, len(raw))
	for _, r := range raw {
		if normalizeCategory(r) == legacyAllCategories {
			for _, c := range AllCategories {
				s[c] = struct{}{}
			}
			continue
		}
		c, err := ParseServiceCategory(r)
		if err != nil {
			return nil, err
		}
		s[c] = struct{}{}
	}
	return s, nil
}

// Contains reports set membership
func (s CategorySet) Contains(c ServiceCategory) bool {
	_, ok := s[c]
	return ok
}

// Slice returns members in stable order
func (s CategorySet) Slice() []ServiceCategory {
	out := make([]ServiceCategory, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func normalizeCategory(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	return accentReplacer.Replace(s)
}

var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
)
