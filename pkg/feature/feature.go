package feature

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Category groups features for browsing. The set is fixed.
type Category string

const (
	CategoryMovement  Category = "movement"
	CategoryCombat    Category = "combat"
	CategoryRender    Category = "render"
	CategoryChat      Category = "chat"
	CategoryExploits  Category = "exploits"
	CategoryFun       Category = "fun"
	CategoryMisc      Category = "misc"
	CategoryHidden    Category = "hidden"
	CategoryAutobuild Category = "autobuild"
	CategoryBlocks    Category = "blocks"
)

var categories = []Category{
	CategoryMovement,
	CategoryCombat,
	CategoryRender,
	CategoryChat,
	CategoryExploits,
	CategoryFun,
	CategoryMisc,
	CategoryHidden,
	CategoryAutobuild,
	CategoryBlocks,
}

// Categories returns every known category in display order.
func Categories() []Category {
	return slices.Clone(categories)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory converts a case-insensitive name into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", errors.Join(ErrInvalidCategory, fmt.Errorf("unknown category %q", s))
	}
	return c, nil
}

// Descriptor is the immutable metadata supplied when a feature is registered.
type Descriptor struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	Tutorial    string   `json:"tutorial,omitempty"`
	// Restricted features are blocked while the compatibility policy is enforced.
	Restricted bool `json:"restricted,omitempty"`
}

// Validate checks the fields required for registration.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.Join(ErrInvalidDescriptor, errors.New("feature name cannot be empty"))
	}
	if !d.Category.Valid() {
		return errors.Join(ErrInvalidDescriptor, ErrInvalidCategory, fmt.Errorf("unknown category %q", d.Category))
	}
	return nil
}

// HasTag reports whether the descriptor carries the tag, ignoring case.
func (d Descriptor) HasTag(tag string) bool {
	return slices.ContainsFunc(d.Tags, func(t string) bool {
		return strings.EqualFold(t, tag)
	})
}

func (d Descriptor) clone() Descriptor {
	d.Tags = slices.Clone(d.Tags)
	return d
}
