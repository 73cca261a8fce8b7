package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Default category names
const (
	CategoryGroceries       = "Groceries"
	CategoryTask            = "Task"
	CategoryHomeImprovement = "Home Improvement"
	CategoryTravelIdea      = "Travel Idea"
	CategoryDateIdea        = "Date Idea"
)

// CategorySet is the fixed, ordered set of categories a note can be filed
// under, with the default used for unclassifiable notes and the list/shopping
// category eligible for item splitting.
type CategorySet struct {
	names       []string
	defaultName string
	shopping    string
}

// NewCategorySet builds a CategorySet. The default and shopping categories
// must be members of names. Names are unique ignoring case.
func NewCategorySet(names []string, defaultName, shopping string) (*CategorySet, error) {
	if len(names) == 0 {
		return nil, goerr.Wrap(ErrInvalidCategories, "at least one category is required")
	}

	set := &CategorySet{}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, goerr.Wrap(ErrInvalidCategories, "category name cannot be empty")
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return nil, goerr.Wrap(ErrInvalidCategories, "duplicate category", goerr.V(CategoryKey, name))
		}
		seen[key] = struct{}{}
		set.names = append(set.names, name)
	}

	var ok bool
	if set.defaultName, ok = set.Canonical(defaultName); !ok {
		return nil, goerr.Wrap(ErrInvalidCategories, "default category is not in the set", goerr.V(CategoryKey, defaultName))
	}
	if set.shopping, ok = set.Canonical(shopping); !ok {
		return nil, goerr.Wrap(ErrInvalidCategories, "shopping category is not in the set", goerr.V(CategoryKey, shopping))
	}

	return set, nil
}

// DefaultCategorySet returns the built-in categories
func DefaultCategorySet() *CategorySet {
	return &CategorySet{
		names: []string{
			CategoryGroceries,
			CategoryTask,
			CategoryHomeImprovement,
			CategoryTravelIdea,
			CategoryDateIdea,
		},
		defaultName: CategoryTask,
		shopping:    CategoryGroceries,
	}
}

// Names returns the category names in declaration order
func (s *CategorySet) Names() []string {
	return cloneStrings(s.names)
}

// Default returns the category used when a note cannot be classified
func (s *CategorySet) Default() string {
	return s.defaultName
}

// Shopping returns the list/shopping category
func (s *CategorySet) Shopping() string {
	return s.shopping
}

// Canonical resolves name to its declared spelling, ignoring case and
// surrounding whitespace.
func (s *CategorySet) Canonical(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, n := range s.names {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}
