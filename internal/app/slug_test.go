package app_test

import (
	"testing"

	"restorank/internal/app"
	"restorank/internal/domain"
)

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Él Niño's Café", "el-ninos-cafe"},
		{"Central", "central"},
		{"  Sushi -- Bar  ", "sushi-bar"},
		{"DiverXO", "diverxo"},
		{"Ñoquis & Co. 22", "noquis-co-22"},
		{"", ""},
	}
	for _, c := range cases {
		if got := app.Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFindBySlug(t *testing.T) {
	rs := []domain.Restaurant{
		{Rank: 1, Name: "Él Niño's Café"},
		{Rank: 2, Name: "Central"},
	}

	if r := app.FindBySlug(rs, "el-ninos-cafe"); r == nil || r.Rank != 1 {
		t.Fatalf("expected rank-1 match, got %+v", r)
	}
	if r := app.FindBySlug(rs, "no-such-place"); r != nil {
		t.Fatalf("expected nil for unknown slug, got %+v", r)
	}
}

func TestResolveFragment(t *testing.T) {
	rs := []domain.Restaurant{{Rank: 1, Name: "Central"}}

	if rt := app.ResolveFragment("restaurant/central", rs); rt.View != app.ViewDetail || rt.Restaurant == nil {
		t.Fatalf("expected detail route, got %+v", rt)
	}
	if rt := app.ResolveFragment("#restaurant/central", rs); rt.View != app.ViewDetail {
		t.Fatalf("leading # should be tolerated, got %+v", rt)
	}
	if rt := app.ResolveFragment("", rs); rt.View != app.ViewRanking {
		t.Fatalf("empty fragment should resolve to ranking, got %+v", rt)
	}
	if rt := app.ResolveFragment("restaurant/unknown", rs); rt.View != app.ViewRanking {
		t.Fatalf("unknown slug should fall back to ranking, got %+v", rt)
	}
	if rt := app.ResolveFragment("something/else", rs); rt.View != app.ViewRanking {
		t.Fatalf("unrecognized fragment should fall back to ranking, got %+v", rt)
	}
}
