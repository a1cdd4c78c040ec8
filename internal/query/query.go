// Package query implements the dashboard's in-memory filtering over complaint
// collections. All functions are pure: they never mutate their inputs and are
// deterministic for a given input set.
package query

import (
	"strings"

	"grievance-service/internal/model"
)

// All disables a status or category criterion.
const All = "all"

type Criteria struct {
	Term     string
	Status   string
	Category string
}

// MatchesText reports whether term is a case-insensitive substring of the
// complaint's title or ID. An empty term matches everything.
func MatchesText(c *model.Complaint, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(c.Title), term) ||
		strings.Contains(strings.ToLower(c.ID), term)
}

// MatchesStatus reports whether the complaint has the given status.
// The value "all" matches everything.
func MatchesStatus(c *model.Complaint, status string) bool {
	return status == All || string(c.Status) == status
}

// MatchesCategory reports whether the complaint's category contains the given
// value as a case-insensitive substring. Deliberately loose so partial filters
// work: "water" matches "Water Supply". The value "all" matches everything.
func MatchesCategory(c *model.Complaint, category string) bool {
	if category == All {
		return true
	}
	return strings.Contains(strings.ToLower(c.Category), strings.ToLower(category))
}

// Filter returns the ordered subsequence of complaints matching all three
// criteria. Input order is preserved and the input slice is left untouched.
func Filter(complaints []model.Complaint, crit Criteria) []model.Complaint {
	status := crit.Status
	if status == "" {
		status = All
	}
	category := crit.Category
	if category == "" {
		category = All
	}

	out := make([]model.Complaint, 0, len(complaints))
	for i := range complaints {
		c := &complaints[i]
		if MatchesText(c, crit.Term) && MatchesStatus(c, status) && MatchesCategory(c, category) {
			out = append(out, *c)
		}
	}
	return out
}
