package app

import "restorank/internal/domain"

// FallbackRestaurants returns the fixed dataset served when the main source
// is private, empty, or lacks a name column. Entries are complete renderable
// records so the degraded state needs no special-casing downstream.
func FallbackRestaurants() []domain.Restaurant {
	return []domain.Restaurant{
		{Rank: 1, Name: "Pujol", Rating: "9.8", Location: "CDMX, México",
			Description: "Cocina mexicana de autor en las manos de Enrique Olvera."},
		{Rank: 2, Name: "Central", Rating: "9.7", Location: "Lima, Perú",
			Description: "Exploración de ecosistemas peruanos por Virgilio Martínez."},
		{Rank: 3, Name: "DiverXO", Rating: "9.6", Location: "Madrid, España",
			Description: "Vanguardia extrema de Dabiz Muñoz en Madrid."},
		{Rank: 4, Name: "Oteque", Rating: "9.5", Location: "Río, Brasil",
			Description: "Minimalismo y elegancia en Río de Janeiro."},
	}
}
