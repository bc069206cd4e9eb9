package app

import (
	"strconv"
	"strings"
	"time"

	"restorank/internal/domain"
)

/********** alias registry (single source of truth) **********/

// fieldAliases maps each canonical field to its ordered bilingual alias
// keys. The sheets are hand-edited in Spanish or English depending on the
// critic, so every resolution goes through this table; alias lists are never
// repeated at call sites.
var fieldAliases = map[string][]string{
	"name":        {"name", "nombre"},
	"rating":      {"rating", "promedio", "score"},
	"date":        {"date", "fecha"},
	"location":    {"location", "ubicacion", "ubicación"},
	"description": {"description", "descripcion", "descripción"},
	"address":     {"address", "direccion", "dirección"},
	"phone":       {"phone", "telefono", "teléfono"},
	"instagram":   {"instagram", "ig"},
	"maplink":     {"maplink", "mapa", "map"},
	"orderedby":   {"orderedby", "pedido", "pedimos"},
	"photos":      {"fotos", "images", "photos"},

	// score-table fields consumed from critic rows
	"average":  {"promedio", "average", "rating"},
	"food":     {"comida", "food"},
	"place":    {"lugar", "place", "ambience"},
	"service":  {"atencion", "atención", "service"},
	"shipping": {"envio", "envío", "shipping", "delivery"},
	"price":    {"precio", "price"},
}

var fieldDefaults = map[string]string{
	"rating": "0",
}

// DefaultLocation labels restaurants whose sheet row has no location value.
const DefaultLocation = "Sin ubicación"

// Resolve returns the first non-empty value among the aliases registered
// for field, else the field's documented default ("0" for rating, ""
// otherwise).
func Resolve(row domain.Row, field string) string {
	for _, k := range fieldAliases[field] {
		if v := strings.TrimSpace(row[k]); v != "" {
			return v
		}
	}
	return fieldDefaults[field]
}

// ResolveOr is Resolve with an explicit default, used for score-table cells
// which render "-" rather than "0" when missing.
func ResolveOr(row domain.Row, field, def string) string {
	for _, k := range fieldAliases[field] {
		if v := strings.TrimSpace(row[k]); v != "" {
			return v
		}
	}
	return def
}

/********** value parsing **********/

// scoreValue parses a string-encoded rating; comma decimal separators are
// tolerated ("8,5"), anything unparsable counts as 0.
func scoreValue(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// dateValue parses a DD/MM/YYYY display date. Unparseable dates resolve to
// the epoch so they sink to the bottom of a descending sort.
func dateValue(s string) time.Time {
	t, err := time.Parse("2/1/2006", strings.TrimSpace(s))
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t
}
