// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"restorank/internal/app"
	"restorank/internal/domain"
)

type Handlers struct{ S *app.Session }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/ranking", h.ranking)
	s.mux.Get("/v1/restaurants/{slug}", h.restaurant)
	s.mux.Get("/v1/restaurants/{slug}/scores", h.scores)
	s.mux.Get("/v1/people-scores", h.peopleScores)
	s.mux.Get("/v1/modes", h.modes)
	s.mux.Post("/v1/modes/{mode}", h.switchMode)
	s.mux.Get("/v1/resolve", h.resolve)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

type rankingItem struct {
	domain.Restaurant
	Slug string
}

func (h *Handlers) ranking(w http.ResponseWriter, r *http.Request) {
	sortBy := app.SortBy(r.URL.Query().Get("sort"))
	if !app.ValidSort(sortBy) {
		writeProblem(w, http.StatusBadRequest, "Invalid sort", "sort must be one of score, date, name")
		return
	}
	location := r.URL.Query().Get("location")

	items := h.S.Ranking(location, sortBy)
	out := make([]rankingItem, 0, len(items))
	for _, it := range items {
		out = append(out, rankingItem{Restaurant: it, Slug: app.Slugify(it.Name)})
	}

	writeJSON(w, r, struct {
		Mode  domain.Mode
		Items []rankingItem
	}{h.S.Mode(), out})
}

type restaurantDetail struct {
	Rank        int
	Name        string
	Slug        string
	Rating      string
	Location    string
	Date        string
	Description string
	Address     string
	Phone       string
	Instagram   string
	MapLink     string
	OrderedBy   string
	Photos      []string
}

func (h *Handlers) restaurant(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	rest, ok := h.S.FindBySlug(slug)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "no restaurant for slug "+slug)
		return
	}

	writeJSON(w, r, restaurantDetail{
		Rank:        rest.Rank,
		Name:        rest.Name,
		Slug:        slug,
		Rating:      rest.Rating,
		Location:    rest.Location,
		Date:        rest.Date,
		Description: rest.Description,
		Address:     rest.Address,
		Phone:       rest.Phone,
		Instagram:   rest.Instagram,
		MapLink:     rest.MapLink,
		OrderedBy:   rest.OrderedBy,
		Photos:      app.SplitPhotos(h.S.Photos(rest)),
	})
}

func (h *Handlers) scores(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	rest, ok := h.S.FindBySlug(slug)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "no restaurant for slug "+slug)
		return
	}
	writeJSON(w, r, struct {
		Mode   domain.Mode
		Scores []domain.CriticScoreRow
	}{h.S.Mode(), h.S.Scores(rest)})
}

func (h *Handlers) peopleScores(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, struct {
		Items []domain.PeopleScore
	}{h.S.PeopleScores()})
}

func (h *Handlers) modes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, struct {
		Current   domain.Mode
		Available []domain.Mode
	}{h.S.Mode(), h.S.Modes()})
}

func (h *Handlers) switchMode(w http.ResponseWriter, r *http.Request) {
	mode := domain.Mode(chi.URLParam(r, "mode"))
	if err := h.S.SwitchMode(r.Context(), mode); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid mode", err.Error())
		return
	}
	writeJSON(w, r, struct {
		Current   domain.Mode
		Available []domain.Mode
	}{h.S.Mode(), h.S.Modes()})
}

func (h *Handlers) resolve(w http.ResponseWriter, r *http.Request) {
	route := h.S.Resolve(r.URL.Query().Get("fragment"))
	out := struct {
		View string
		Slug string
	}{View: string(route.View)}
	if route.Restaurant != nil {
		out.Slug = app.Slugify(route.Restaurant.Name)
	}
	writeJSON(w, r, out)
}
