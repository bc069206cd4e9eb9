package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"restorank/internal/domain"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	FetchRPS     int
	DefaultMode  domain.Mode
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		FetchTimeout: time.Duration(atoi("FETCH_TIMEOUT_SECONDS", 8)) * time.Second,
		FetchRPS:     atoi("FETCH_RPS", 5),
		DefaultMode:  domain.Mode(env("RANKING_MODE", string(domain.ModePresencial))),
	}
	if _, ok := Sources()[c.DefaultMode]; !ok {
		log.Warn().Str("mode", string(c.DefaultMode)).Msg("unknown RANKING_MODE, falling back to presencial")
		c.DefaultMode = domain.ModePresencial
	}
	return c
}

// criticOrder is the fixed iteration order used everywhere critic feeds are
// walked (photo borrowing, score tables).
var criticOrder = []string{"wil", "fer", "colo", "andy"}

// presencialGIDs are the per-critic tabs of the shared ranking spreadsheet.
// The wil tab doubles as the main listing.
var presencialGIDs = map[string]string{
	"wil":  "667637220",
	"fer":  "445878910",
	"colo": "1592300088",
	"andy": "1438813672",
}

// Sources returns the per-mode feed configuration. Every ref is
// env-overridable; critic entries whose resolved ref is empty are skipped.
func Sources() map[domain.Mode]domain.SourceConfig {
	return map[domain.Mode]domain.SourceConfig{
		domain.ModePresencial: {
			Main:    domain.SourceRef(env("PRESENCIAL_MAIN_URL", sheetTab(presencialGIDs["wil"]))),
			Critics: critics("PRESENCIAL", presencialGIDs),
			People:  domain.SourceRef(os.Getenv("PRESENCIAL_PEOPLE_URL")),
		},
		domain.ModeDelivery: {
			Main:    domain.SourceRef(env("DELIVERY_MAIN_URL", sheetTab("0"))),
			Critics: critics("DELIVERY", nil),
			People:  domain.SourceRef(os.Getenv("DELIVERY_PEOPLE_URL")),
		},
	}
}

func critics(prefix string, gids map[string]string) []domain.CriticSource {
	out := make([]domain.CriticSource, 0, len(criticOrder))
	for _, id := range criticOrder {
		ref := env(prefix+"_"+strings.ToUpper(id)+"_URL", sheetTab(gids[id]))
		if ref == "" {
			continue
		}
		out = append(out, domain.CriticSource{ID: id, Ref: domain.SourceRef(ref)})
	}
	return out
}

func sheetTab(gid string) string {
	if gid == "" {
		return ""
	}
	base := env("RANKING_SHEET_CSV_BASE",
		"https://docs.google.com/spreadsheets/d/1x6ZnQFGZW-YkzoCxN51NXvpsYl3XuV4rtfBN5k7EucA/export?format=csv")
	return base + "&gid=" + gid
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
