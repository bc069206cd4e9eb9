package app

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"restorank/internal/domain"
)

var (
	// NFD decomposition followed by combining-mark removal strips diacritics
	// ("ñ" -> "n", "é" -> "e").
	diacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	// apostrophes vanish instead of becoming separators ("Niño's" -> "ninos")
	apostrophes = strings.NewReplacer("'", "", "’", "")

	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify derives the URL-safe identifier used for deep links: lower-case,
// diacritics stripped, apostrophes removed, every remaining run of non
// [a-z0-9] collapsed to a single hyphen, no leading/trailing hyphen.
func Slugify(name string) string {
	s := strings.ToLower(name)
	if folded, _, err := transform.String(diacritics, s); err == nil {
		s = folded
	}
	s = apostrophes.Replace(s)
	return strings.Trim(nonAlnum.ReplaceAllString(s, "-"), "-")
}

// FindBySlug linearly scans the canonical set and returns the first
// restaurant whose computed slug equals slug, or nil. The sets involved are
// tens of rows; no index is warranted.
func FindBySlug(rs []domain.Restaurant, slug string) *domain.Restaurant {
	for i := range rs {
		if Slugify(rs[i].Name) == slug {
			return &rs[i]
		}
	}
	return nil
}

// View names the two addressable presentation states.
type View string

const (
	ViewRanking View = "ranking"
	ViewDetail  View = "detail"
)

// Route is the outcome of fragment resolution.
type Route struct {
	View       View
	Restaurant *domain.Restaurant
}

// ResolveFragment maps a URL fragment onto a view: "restaurant/<slug>"
// designates a known restaurant's detail; everything else (empty fragment,
// unknown slug, unrecognized shape) falls back to the ranking list.
func ResolveFragment(frag string, rs []domain.Restaurant) Route {
	frag = strings.TrimPrefix(strings.TrimSpace(frag), "#")
	if slug, ok := strings.CutPrefix(frag, "restaurant/"); ok {
		if r := FindBySlug(rs, slug); r != nil {
			return Route{View: ViewDetail, Restaurant: r}
		}
	}
	return Route{View: ViewRanking}
}
