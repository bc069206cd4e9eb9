package app

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"restorank/internal/domain"
)

type SortBy string

const (
	SortScore SortBy = "score"
	SortDate  SortBy = "date"
	SortName  SortBy = "name"
)

// FilterAll is the sentinel location that disables filtering.
const FilterAll = "all"

// ValidSort reports whether s names a sort criterion ("" means primary
// source order).
func ValidSort(s SortBy) bool {
	switch s {
	case "", SortScore, SortDate, SortName:
		return true
	}
	return false
}

// ViewModel derives the displayed sequence from the full restaurant set and
// the current filter/sort state. Both setters are idempotent and
// order-independent: the derived sequence is always recomputed from the full
// set, never from a previously derived one.
type ViewModel struct {
	all      []domain.Restaurant
	filtered []domain.Restaurant
	location string
	sortBy   SortBy
	coll     *collate.Collator
}

func NewViewModel(all []domain.Restaurant) *ViewModel {
	vm := &ViewModel{
		all:      all,
		location: FilterAll,
		coll:     collate.New(language.Spanish, collate.IgnoreCase),
	}
	vm.recompute()
	return vm
}

// SetFilter restricts the view to restaurants whose location equals
// location, or restores the full set for FilterAll.
func (v *ViewModel) SetFilter(location string) {
	if location == "" {
		location = FilterAll
	}
	if v.location == location {
		return
	}
	v.location = location
	v.recompute()
}

// SetSort orders the view by the given criterion. Unknown criteria are
// ignored.
func (v *ViewModel) SetSort(s SortBy) {
	if !ValidSort(s) || v.sortBy == s {
		return
	}
	v.sortBy = s
	v.recompute()
}

// Restaurants returns the current derived sequence. Callers must not mutate
// the returned slice.
func (v *ViewModel) Restaurants() []domain.Restaurant {
	return v.filtered
}

func (v *ViewModel) recompute() {
	out := make([]domain.Restaurant, 0, len(v.all))
	for _, r := range v.all {
		if v.location == FilterAll || r.Location == v.location {
			out = append(out, r)
		}
	}
	switch v.sortBy {
	case SortScore:
		sort.SliceStable(out, func(i, j int) bool {
			return scoreValue(out[i].Rating) > scoreValue(out[j].Rating)
		})
	case SortDate:
		sort.SliceStable(out, func(i, j int) bool {
			return dateValue(out[i].Date).After(dateValue(out[j].Date))
		})
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return v.coll.CompareString(out[i].Name, out[j].Name) < 0
		})
	}
	v.filtered = out
}
