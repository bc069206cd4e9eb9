package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"restorank/internal/adapters/observability"
	"restorank/internal/domain"
)

// Aggregator orchestrates one load cycle: concurrent retrieval of the main
// listing, the critic feeds and the optional people's survey, followed by
// validation and assembly of the canonical result.
type Aggregator struct {
	fetch   domain.SheetFetcher
	timeout time.Duration
}

func NewAggregator(f domain.SheetFetcher, timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Aggregator{fetch: f, timeout: timeout}
}

// LoadAll fetches every source in cfg concurrently and waits for all of them.
// Individual failures degrade to empty tables; LoadAll itself never fails.
// The worst outcome is the fallback dataset with no critic data.
func (a *Aggregator) LoadAll(ctx context.Context, cfg domain.SourceConfig) domain.AggregateResult {
	var (
		main    domain.Table
		people  domain.Table
		critics = make([]domain.Table, len(cfg.Critics))
	)

	var g errgroup.Group
	g.Go(func() error {
		main = a.fetchSource(ctx, "main", cfg.Main)
		return nil
	})
	for i, cs := range cfg.Critics {
		i, cs := i, cs
		g.Go(func() error {
			critics[i] = a.fetchSource(ctx, cs.ID, cs.Ref)
			return nil
		})
	}
	if cfg.People != "" {
		g.Go(func() error {
			people = a.fetchSource(ctx, "people", cfg.People)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// individual fetches swallow their own errors, so this only fires if
		// the join primitive itself breaks; keep the system renderable
		log.Error().Err(err).Msg("source batch join failed, serving fallback dataset")
		return fallbackResult(cfg)
	}

	res := domain.AggregateResult{CriticIndex: make(map[string][]domain.Row, len(cfg.Critics))}

	verdict := Validate(main)
	if verdict == SourceValid && !HasNameColumn(main.Rows[0]) {
		verdict = SourceNoName
	}
	observability.ObserveLoad(verdict.String())
	if verdict != SourceValid {
		log.Warn().Str("source", "main").Str("verdict", verdict.String()).
			Msg("main source unusable, serving fallback dataset")
		res.Restaurants = FallbackRestaurants()
	} else {
		res.Restaurants = make([]domain.Restaurant, 0, len(main.Rows))
		for i, row := range main.Rows {
			// row position IS the ranking: rank columns in the sheet are
			// deliberately overridden
			res.Restaurants = append(res.Restaurants, mapRestaurant(row, i+1))
		}
	}

	for i, cs := range cfg.Critics {
		res.CriticOrder = append(res.CriticOrder, cs.ID)
		t := critics[i]
		if v := Validate(t); v != SourceValid {
			log.Warn().Str("source", cs.ID).Str("verdict", v.String()).
				Msg("critic source unusable, keeping empty row set")
			continue
		}
		res.CriticIndex[cs.ID] = t.Rows
	}

	if cfg.People != "" {
		if v := Validate(people); v == SourceValid {
			res.PeopleScores = mapPeopleScores(people)
		} else {
			// people scores are additive; never fall back to mock data here
			log.Warn().Str("source", "people").Str("verdict", v.String()).
				Msg("people survey unusable, keeping empty score set")
		}
	}

	return res
}

func (a *Aggregator) fetchSource(ctx context.Context, id string, ref domain.SourceRef) domain.Table {
	fctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	t, err := a.fetch.Fetch(fctx, ref)
	if err != nil {
		observability.ObserveSource(id, "error", time.Since(start))
		log.Warn().Str("source", id).Err(err).Msg("source fetch failed, degrading to empty row set")
		return domain.Table{}
	}
	observability.ObserveSource(id, "ok", time.Since(start))
	return Normalize(t)
}

func fallbackResult(cfg domain.SourceConfig) domain.AggregateResult {
	res := domain.AggregateResult{
		Restaurants: FallbackRestaurants(),
		CriticIndex: make(map[string][]domain.Row, len(cfg.Critics)),
	}
	for _, cs := range cfg.Critics {
		res.CriticOrder = append(res.CriticOrder, cs.ID)
	}
	return res
}

func mapRestaurant(row domain.Row, rank int) domain.Restaurant {
	loc := Resolve(row, "location")
	if loc == "" {
		loc = DefaultLocation
	}
	return domain.Restaurant{
		Rank:        rank,
		Name:        Resolve(row, "name"),
		Rating:      Resolve(row, "rating"),
		Location:    loc,
		Date:        Resolve(row, "date"),
		Description: Resolve(row, "description"),
		Address:     Resolve(row, "address"),
		Phone:       Resolve(row, "phone"),
		Instagram:   Resolve(row, "instagram"),
		MapLink:     Resolve(row, "maplink"),
		OrderedBy:   Resolve(row, "orderedby"),
		Photos:      Resolve(row, "photos"),
	}
}

// mapPeopleScores reads the survey positionally: first column is the name,
// second the score, independent of the critic alias tables.
func mapPeopleScores(t domain.Table) []domain.PeopleScore {
	out := make([]domain.PeopleScore, 0, len(t.Rows))
	for _, row := range t.Rows {
		var name, score string
		if len(t.Headers) > 0 {
			name = strings.TrimSpace(row[t.Headers[0]])
		}
		if len(t.Headers) > 1 {
			score = strings.TrimSpace(row[t.Headers[1]])
		}
		if name == "" {
			continue
		}
		out = append(out, domain.PeopleScore{Name: name, Score: score})
	}
	return out
}

// criticRowFor returns the critic's row whose resolved name matches name
// (case-insensitive, trimmed). Sheets occasionally hold duplicate rows for
// one restaurant; the first in sheet order wins.
func criticRowFor(rows []domain.Row, name string) domain.Row {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return nil
	}
	for _, row := range rows {
		if strings.ToLower(strings.TrimSpace(Resolve(row, "name"))) == want {
			return row
		}
	}
	return nil
}

// ResolvePhotos prefers the restaurant's own photo field; otherwise it walks
// the critic feeds in their fixed order and borrows the first non-empty
// photo field from a row matching the restaurant's name. Empty string means
// no photos anywhere.
func ResolvePhotos(r domain.Restaurant, res domain.AggregateResult) string {
	if strings.TrimSpace(r.Photos) != "" {
		return r.Photos
	}
	for _, id := range res.CriticOrder {
		row := criticRowFor(res.CriticIndex[id], r.Name)
		if row == nil {
			continue
		}
		if p := Resolve(row, "photos"); p != "" {
			return p
		}
	}
	return ""
}

// SplitPhotos splits a semicolon-delimited photo string into trimmed URLs,
// dropping empty segments.
func SplitPhotos(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if u := strings.TrimSpace(p); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// ResolveScores builds the per-critic score table for a restaurant. Critics
// without a matching row are omitted, not rendered as blanks. The field set
// depends on the active mode: presencial scores place and service, delivery
// scores shipping and price.
func ResolveScores(r domain.Restaurant, res domain.AggregateResult, mode domain.Mode) []domain.CriticScoreRow {
	var out []domain.CriticScoreRow
	for _, id := range res.CriticOrder {
		row := criticRowFor(res.CriticIndex[id], r.Name)
		if row == nil {
			continue
		}
		sc := domain.CriticScoreRow{
			Critic:  id,
			Average: ResolveOr(row, "average", "-"),
			Food:    ResolveOr(row, "food", "-"),
		}
		if mode == domain.ModeDelivery {
			sc.Shipping = ResolveOr(row, "shipping", "-")
			sc.Price = ResolveOr(row, "price", "-")
		} else {
			sc.Place = ResolveOr(row, "place", "-")
			sc.Service = ResolveOr(row, "service", "-")
		}
		out = append(out, sc)
	}
	return out
}
