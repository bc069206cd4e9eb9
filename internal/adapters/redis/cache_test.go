package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "restorank/internal/adapters/redis"
	"restorank/internal/domain"
)

func TestCache_SetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	snap := domain.AggregateResult{
		Restaurants: []domain.Restaurant{{Rank: 1, Name: "Central", Rating: "9.5"}},
		CriticOrder: []string{"wil"},
	}

	if err := c.Set(ctx, "aggregate:presencial", snap, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got domain.AggregateResult
	ok, err := c.Get(ctx, "aggregate:presencial", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(got.Restaurants) != 1 || got.Restaurants[0].Name != "Central" {
		t.Fatalf("unexpected snapshot: %+v", got)
	}

	if err := c.Del(ctx, "aggregate:presencial"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, err = c.Get(ctx, "aggregate:presencial", &got)
	if err != nil || ok {
		t.Fatalf("expected miss after del, ok=%v err=%v", ok, err)
	}
}

func TestCache_MissOnAbsentKey(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)

	var got domain.AggregateResult
	ok, err := c.Get(context.Background(), "aggregate:delivery", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected miss")
	}
}

func TestCache_ExpiredEntryMisses(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "aggregate:presencial", domain.AggregateResult{}, time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Second)

	var got domain.AggregateResult
	ok, _ := c.Get(ctx, "aggregate:presencial", &got)
	if ok {
		t.Fatal("expected miss after TTL expiry")
	}
}
