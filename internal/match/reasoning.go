// internal/match/reasoning.go
package match

import (
	"strings"

	"steadyone-workers/internal/models"
)

// reasoning assembles the one-to-two sentence summary from the dominant
// budget, borough and pet facts. Same inputs always produce the same
// sentence; there is no free-form generation.
func reasoning(listing *models.Listing, criteria *models.UserCriteria) string {
	parts := []string{budgetFact(listing.Price, criteria.BudgetMax)}

	if fact := boroughFact(listing, criteria.Boroughs); fact != "" {
		parts = append(parts, fact)
	}
	if fact := petFact(listing, criteria.Pets); fact != "" {
		parts = append(parts, fact)
	}
	return strings.Join(parts, " ")
}

func budgetFact(price, budget int) string {
	p, b := float64(price), float64(budget)
	switch {
	case p < 0.85*b:
		return "Priced well under your budget."
	case p <= b:
		return "Priced within your budget."
	case p <= 1.1*b:
		return "Slightly over your budget."
	default:
		return "Well over your budget."
	}
}

func boroughFact(listing *models.Listing, preferred []string) string {
	if len(preferred) == 0 {
		return ""
	}
	if matchesPreferredArea(listing, preferred) {
		return "Located in one of your preferred boroughs."
	}
	return "Outside your preferred boroughs."
}

func petFact(listing *models.Listing, pets models.PetPreference) string {
	if !pets.WantsPets() {
		return ""
	}
	if listing.PetsAllowed != nil && *listing.PetsAllowed {
		return "Pets are welcome here."
	}
	return "Pet policy does not cover your pets."
}
