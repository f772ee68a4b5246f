// Package templates maintains the set of résumé template identifiers the
// renderer knows how to draw.
package templates

import "slices"

// Default is the template assigned to documents that reference an unknown
// or retired template.
const Default = "onyx"

// known lists the templates currently shipped, in gallery order.
// Retiring a template means removing it here; documents that still
// reference it fall back to Default when normalized.
var known = []string{
	"azurill",
	"bronzor",
	"chikorita",
	"ditgar",
	"ditto",
	"gengar",
	"glalie",
	"kakuna",
	"lapras",
	"leafish",
	"meowth",
	"onyx",
	"pikachu",
	"rhyhorn",
}

// IsKnown reports whether id names a shipped template.
func IsKnown(id string) bool {
	return slices.Contains(known, id)
}

// All returns the shipped template identifiers in gallery order.
func All() []string {
	return slices.Clone(known)
}

// Resolve returns id when it is known, Default otherwise.
func Resolve(id string) string {
	if IsKnown(id) {
		return id
	}
	return Default
}
