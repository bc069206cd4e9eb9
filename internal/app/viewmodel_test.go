package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"restorank/internal/app"
	"restorank/internal/domain"
)

func names(rs []domain.Restaurant) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestViewModel_SortScoreStableDescending(t *testing.T) {
	vm := app.NewViewModel([]domain.Restaurant{
		{Name: "A", Rating: "7"},
		{Name: "B", Rating: "9.5"},
		{Name: "C", Rating: "abc"}, // unparsable counts as 0
		{Name: "D", Rating: "9.5"},
	})

	vm.SetSort(app.SortScore)

	// the two 9.5 entries stay adjacent in input order (stable sort)
	assert.Equal(t, []string{"B", "D", "A", "C"}, names(vm.Restaurants()))
}

func TestViewModel_SortDateDescendingInvalidSinks(t *testing.T) {
	vm := app.NewViewModel([]domain.Restaurant{
		{Name: "old", Date: "01/01/2020"},
		{Name: "new", Date: "15/12/2024"},
		{Name: "bad", Date: "not a date"}, // parses as epoch, sinks to the bottom
		{Name: "mid", Date: "2/6/2022"},
	})

	vm.SetSort(app.SortDate)

	assert.Equal(t, []string{"new", "mid", "old", "bad"}, names(vm.Restaurants()))
}

func TestViewModel_SortNameLocaleAware(t *testing.T) {
	vm := app.NewViewModel([]domain.Restaurant{
		{Name: "Boca"},
		{Name: "Ácido"}, // byte order would put this after Boca
	})

	vm.SetSort(app.SortName)

	assert.Equal(t, []string{"Ácido", "Boca"}, names(vm.Restaurants()))
}

func TestViewModel_FilterByLocation(t *testing.T) {
	all := []domain.Restaurant{
		{Name: "A", Location: "Lima, Perú"},
		{Name: "B", Location: "Madrid, España"},
		{Name: "C", Location: "Lima, Perú"},
	}
	vm := app.NewViewModel(all)

	vm.SetFilter("Lima, Perú")
	assert.Equal(t, []string{"A", "C"}, names(vm.Restaurants()))

	vm.SetFilter(app.FilterAll)
	assert.Equal(t, []string{"A", "B", "C"}, names(vm.Restaurants()))
}

func TestViewModel_FilterSortOrderIndependent(t *testing.T) {
	all := []domain.Restaurant{
		{Name: "A", Location: "x", Rating: "5"},
		{Name: "B", Location: "y", Rating: "9"},
		{Name: "C", Location: "x", Rating: "7"},
	}

	a := app.NewViewModel(all)
	a.SetFilter("x")
	a.SetSort(app.SortScore)

	b := app.NewViewModel(all)
	b.SetSort(app.SortScore)
	b.SetFilter("x")

	assert.Equal(t, names(a.Restaurants()), names(b.Restaurants()))
	assert.Equal(t, []string{"C", "A"}, names(a.Restaurants()))

	// repeating with unchanged parameters is a no-op
	a.SetSort(app.SortScore)
	a.SetFilter("x")
	assert.Equal(t, []string{"C", "A"}, names(a.Restaurants()))
}
