package model

import (
	"strings"
	"time"
)

// ContestantID is the sequential registration number shown on a contestant's badge
type ContestantID int

// Known categories offered by the registration form
const (
	CategoryMr = "Mr. BatStateU"
	CategoryMs = "Ms. BatStateU"

	// DefaultCategory is preselected in the registration form
	DefaultCategory = CategoryMr
)

// Display group prefixes. Grouping only looks at the start of the category
// string, so "Mr." and "Mr" (and "Mrs.") all land in the Mr group.
const (
	PrefixMr = "Mr"
	PrefixMs = "Ms"
)

// Categories returns the categories offered by the registration form, in display order
func Categories() []string {
	return []string{CategoryMr, CategoryMs}
}

// Contestant is a registered pageant entrant. Never mutated after creation.
type Contestant struct {
	ID        ContestantID `json:"id"`
	Name      string       `json:"name"`
	Category  string       `json:"category"`
	CreatedAt time.Time    `json:"created_at"`
}

// HasPrefix reports whether the contestant's category starts with prefix
func (c Contestant) HasPrefix(prefix string) bool {
	return strings.HasPrefix(c.Category, prefix)
}

// Counts is the derived headcount shown on the dashboard
type Counts struct {
	Total int `json:"total"`
	Mr    int `json:"mr"`
	Ms    int `json:"ms"`
}
