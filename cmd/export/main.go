// cmd/export runs one load cycle for a mode and prints the aggregate result
// as JSON, useful for inspecting what the API would serve.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"restorank/internal/adapters/sheets"
	"restorank/internal/app"
	"restorank/internal/domain"
	"restorank/internal/shared"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	// logs to stderr so stdout stays valid JSON
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	mode := cfg.DefaultMode
	if len(os.Args) > 1 {
		mode = domain.Mode(os.Args[1])
	}
	sc, ok := shared.Sources()[mode]
	if !ok {
		log.Fatal().Str("mode", string(mode)).Msg("unknown mode")
	}

	log.Info().Str("mode", string(mode)).Int("critics", len(sc.Critics)).Msg("export starting")

	client := sheets.New(cfg.FetchRPS, cfg.FetchTimeout)
	agg := app.NewAggregator(client, cfg.FetchTimeout)
	res := agg.LoadAll(context.Background(), sc)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		log.Fatal().Err(err).Msg("encode result failed")
	}
	log.Info().Int("restaurants", len(res.Restaurants)).Int("people_scores", len(res.PeopleScores)).Msg("export completed")
}
