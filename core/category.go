package core

import "fmt"

// Category is the rhetorical role an opinion plays in a discussion.
type Category string

const (
	Claim        Category = "Claim"
	Counterclaim Category = "Counterclaim"
	Rebuttal     Category = "Rebuttal"
	Evidence     Category = "Evidence"
)

// DefaultCategory is used when a classifier reply cannot be interpreted.
const DefaultCategory = Claim

var categories = []Category{Claim, Counterclaim, Rebuttal, Evidence}

// Categories returns the four categories in their fixed precedence order.
// The returned slice is a copy.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// ParseCategory converts an exact label into a Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidCategory, s)
}
