package services

import "sort"

// Curated staff areas surfaced to the resource filter UI.
var staffAreas = []string{
	"Academic Advising",
	"Admissions",
	"Alumni Relations",
	"Assessment",
	"Career Services",
	"Communications",
	"Development",
	"Facilities",
	"Finance",
	"Financial Aid",
	"Human Resources",
	"Information Technology",
	"Institutional Research",
	"Instructional Design",
	"Library",
	"Marketing",
	"Registrar",
	"Research Administration",
	"Student Affairs",
	"Student Success",
}

// ListAreas returns the curated area names sorted alphabetically.
func ListAreas() []string {
	out := make([]string, len(staffAreas))
	copy(out, staffAreas)
	sort.Strings(out)
	return out
}
