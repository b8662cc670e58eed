// internal/models/criteria.go
package models

import "strconv"

// BedroomChoice is the questionnaire bedroom answer: "0", "1", "2" or "3+".
type BedroomChoice string

const (
	BedroomsStudio    BedroomChoice = "0"
	BedroomsOne       BedroomChoice = "1"
	BedroomsTwo       BedroomChoice = "2"
	BedroomsThreePlus BedroomChoice = "3+"
)

// Desired returns the numeric bedroom count the choice stands for and
// whether the choice is open-ended ("3+" accepts any count >= 3).
func (b BedroomChoice) Desired() (int, bool) {
	if b == BedroomsThreePlus {
		return 3, true
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, false
	}
	return n, false
}

// BathroomChoice is the questionnaire bathroom answer: "1", "1.5" or "2+".
type BathroomChoice string

const (
	BathroomsOne     BathroomChoice = "1"
	BathroomsOneHalf BathroomChoice = "1.5"
	BathroomsTwoPlus BathroomChoice = "2+"
)

// Min returns the minimum acceptable bathroom count for the choice.
func (b BathroomChoice) Min() float64 {
	switch b {
	case BathroomsOneHalf:
		return 1.5
	case BathroomsTwoPlus:
		return 2
	default:
		return 1
	}
}

// PetPreference captures which pets the user is bringing.
type PetPreference string

const (
	PetsNone PetPreference = "none"
	PetsCats PetPreference = "cats"
	PetsDogs PetPreference = "dogs"
	PetsBoth PetPreference = "both"
)

// WantsPets reports whether the user needs a pet-friendly listing.
func (p PetPreference) WantsPets() bool {
	return p == PetsCats || p == PetsDogs || p == PetsBoth
}

// UserCriteria is built once per session from the questionnaire answers
// and stays immutable for the session. Boroughs empty means no preference.
type UserCriteria struct {
	Boroughs  []string       `json:"boroughs,omitempty"`
	BudgetMax int            `json:"budgetMax"`
	Bedrooms  BedroomChoice  `json:"bedrooms"`
	Bathrooms BathroomChoice `json:"bathrooms,omitempty"`
	Pets      PetPreference  `json:"pets"`
	Amenities []string       `json:"amenities,omitempty"`
}
