package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"restorank/internal/domain"
)

// Session owns all state of one running aggregation: the active mode, the
// latest installed AggregateResult and its view-model. Every load batch
// carries a monotonic generation number; results whose generation is no
// longer current are discarded on arrival, so a mode switch racing an
// in-flight load can never be overwritten by stale data.
type Session struct {
	agg   *Aggregator
	cfgs  map[domain.Mode]domain.SourceConfig
	cache domain.Cache
	ttl   time.Duration

	mu     sync.Mutex
	mode   domain.Mode
	gen    uint64
	result domain.AggregateResult
	vm     *ViewModel
}

func NewSession(agg *Aggregator, cfgs map[domain.Mode]domain.SourceConfig, initial domain.Mode, cache domain.Cache, ttl time.Duration) *Session {
	return &Session{agg: agg, cfgs: cfgs, cache: cache, ttl: ttl, mode: initial}
}

func (s *Session) Mode() domain.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) Modes() []domain.Mode {
	out := make([]domain.Mode, 0, len(s.cfgs))
	for m := range s.cfgs {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SwitchMode is a no-op for the current mode. Otherwise it swaps the source
// configuration, clears all in-memory state and runs a fresh load cycle.
func (s *Session) SwitchMode(ctx context.Context, m domain.Mode) error {
	s.mu.Lock()
	if m == s.mode {
		s.mu.Unlock()
		return nil
	}
	if _, ok := s.cfgs[m]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("unknown mode %q", m)
	}
	s.mode = m
	s.gen++ // invalidates any load still in flight for the old mode
	s.result = domain.AggregateResult{}
	s.vm = nil
	s.mu.Unlock()

	log.Info().Str("mode", string(m)).Msg("mode switched, reloading sources")
	s.Reload(ctx)
	return nil
}

// Reload runs one load cycle for the active mode and installs the result
// unless a newer cycle has started meanwhile.
func (s *Session) Reload(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	mode := s.mode
	cfg := s.cfgs[mode]
	s.mu.Unlock()

	key := "aggregate:" + string(mode)
	if s.cache != nil {
		var cached domain.AggregateResult
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			s.install(gen, cached)
			return
		}
	}

	res := s.agg.LoadAll(ctx, cfg)
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, res, s.ttl)
	}
	s.install(gen, res)
}

func (s *Session) install(gen uint64, res domain.AggregateResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		log.Debug().Uint64("generation", gen).Uint64("current", s.gen).
			Msg("stale load result discarded")
		return
	}
	s.result = res
	s.vm = NewViewModel(res.Restaurants)
}

// Ranking returns the filtered, sorted sequence. location "" means all;
// sortBy "" means primary source order.
func (s *Session) Ranking(location string, sortBy SortBy) []domain.Restaurant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vm == nil {
		return nil
	}
	s.vm.SetFilter(location)
	s.vm.SetSort(sortBy)
	items := s.vm.Restaurants()
	out := make([]domain.Restaurant, len(items))
	copy(out, items)
	return out
}

func (s *Session) FindBySlug(slug string) (domain.Restaurant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := FindBySlug(s.result.Restaurants, slug); r != nil {
		return *r, true
	}
	return domain.Restaurant{}, false
}

// Resolve maps a URL fragment onto a view against the current set.
func (s *Session) Resolve(fragment string) Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ResolveFragment(fragment, s.result.Restaurants)
}

func (s *Session) Photos(r domain.Restaurant) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ResolvePhotos(r, s.result)
}

func (s *Session) Scores(r domain.Restaurant) []domain.CriticScoreRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ResolveScores(r, s.result, s.mode)
}

func (s *Session) PeopleScores() []domain.PeopleScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PeopleScore, len(s.result.PeopleScores))
	copy(out, s.result.PeopleScores)
	return out
}
