// internal/match/scorer.go

// Package match is the canonical listing scorer. Every surface that needs
// a verdict on a (listing, criteria) pair goes through Score; there are no
// per-screen weight variants.
package match

import (
	"errors"
	"strings"

	"steadyone-workers/internal/models"
)

var (
	ErrInvalidPrice  = errors.New("LISTING_PRICE_INVALID")
	ErrInvalidBudget = errors.New("BUDGET_INVALID")
)

// Category weights. The four categories sum to 100 before the incentive
// bonus; the final score is clamped back into [0,100].
const (
	BudgetPointsMax   = 40
	BedroomPointsMax  = 20
	BoroughPointsMax  = 20
	PetsPointsMax     = 10
	AmenityPointsEach = 2

	IncentiveBonusSingle   = 6
	IncentiveBonusMultiple = 10

	// A listing without a photo can never reach CONSIDER or ACT_NOW.
	NoPhotoScoreCap = 59

	LowScoreThreshold  = 50
	HighScoreThreshold = 80
)

// nycBoroughs normalizes the five borough names for in-NYC detection.
var nycBoroughs = map[string]bool{
	"manhattan":     true,
	"brooklyn":      true,
	"queens":        true,
	"bronx":         true,
	"the bronx":     true,
	"staten island": true,
}

// Score computes the MatchAnalysis for one listing against one set of
// criteria. It is pure: no I/O, no randomness, no hidden state. Missing
// optional fields are treated as neutral; a non-positive price or budget
// is malformed input and rejected outright.
func Score(listing *models.Listing, criteria *models.UserCriteria) (*models.MatchAnalysis, error) {
	if listing == nil || listing.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if criteria == nil || criteria.BudgetMax <= 0 {
		return nil, ErrInvalidBudget
	}

	budget := budgetPoints(listing.Price, criteria.BudgetMax)
	bedrooms := bedroomPoints(listing.Bedrooms, criteria.Bedrooms)
	borough := boroughPoints(listing, criteria.Boroughs)
	petsAmenities := petsAmenityPoints(listing, criteria)

	incentives := DetectIncentives(listing.Description)
	bonus := 0
	switch {
	case len(incentives) >= 2:
		bonus = IncentiveBonusMultiple
	case len(incentives) == 1:
		bonus = IncentiveBonusSingle
	}

	score := clamp(budget+bedrooms+borough+petsAmenities+bonus, 0, 100)
	if !listing.HasPhoto() && score > NoPhotoScoreCap {
		score = NoPhotoScoreCap
	}

	badge, recommendation := badgeFor(score)

	analysis := &models.MatchAnalysis{
		Score:              score,
		Badge:              badge,
		Recommendation:     recommendation,
		Risks:              riskTags(listing, criteria, score),
		Advantages:         advantageTags(listing, criteria, incentives, score),
		IncentivesDetected: incentives,
		Reasoning:          reasoning(listing, criteria),
	}
	return analysis, nil
}

// MoreAdvantaged breaks ties between equal-score analyses: the one with
// more advantage tags wins. Anything beyond that is left to the caller's
// stable ordering.
func MoreAdvantaged(a, b *models.MatchAnalysis) bool {
	return len(a.Advantages) > len(b.Advantages)
}

func budgetPoints(price, budget int) int {
	p, b := float64(price), float64(budget)
	switch {
	case p <= 0.9*b:
		return BudgetPointsMax
	case p <= b:
		return 30
	case p <= 1.1*b:
		return 15
	default:
		return 0
	}
}

func bedroomPoints(have int, want models.BedroomChoice) int {
	desired, openEnded := want.Desired()
	if openEnded && have >= desired {
		return BedroomPointsMax
	}
	switch diff := abs(have - desired); diff {
	case 0:
		return BedroomPointsMax
	case 1:
		return 10
	default:
		return 0
	}
}

func boroughPoints(listing *models.Listing, preferred []string) int {
	if len(preferred) == 0 {
		// No preference supplied: neutral full credit.
		return BoroughPointsMax
	}
	if matchesPreferredArea(listing, preferred) {
		return BoroughPointsMax
	}
	if nycBoroughs[normalize(listing.Borough)] {
		return 5
	}
	return 0
}

// matchesPreferredArea is a case-insensitive substring match of any
// preferred borough token against the listing's borough or neighborhood.
func matchesPreferredArea(listing *models.Listing, preferred []string) bool {
	borough := normalize(listing.Borough)
	neighborhood := normalize(listing.Neighborhood)
	for _, p := range preferred {
		token := normalize(p)
		if token == "" {
			continue
		}
		if strings.Contains(borough, token) || strings.Contains(neighborhood, token) {
			return true
		}
	}
	return false
}

func petsAmenityPoints(listing *models.Listing, criteria *models.UserCriteria) int {
	points := 0
	if !criteria.Pets.WantsPets() {
		// Pets irrelevant to this user: full pet credit.
		points = PetsPointsMax
	} else if listing.PetsAllowed != nil && *listing.PetsAllowed {
		points = PetsPointsMax
	}

	for _, want := range criteria.Amenities {
		if hasAmenity(listing, want) {
			points += AmenityPointsEach
		}
		if points >= PetsPointsMax {
			return PetsPointsMax
		}
	}
	return points
}

func hasAmenity(listing *models.Listing, want string) bool {
	token := normalize(want)
	if token == "" {
		return false
	}
	for _, a := range listing.Amenities {
		if strings.Contains(normalize(a), token) {
			return true
		}
	}
	return strings.Contains(normalize(listing.Description), token)
}

func badgeFor(score int) (models.Badge, models.Recommendation) {
	switch {
	case score >= 80:
		return models.BadgeActNow, models.RecommendApply
	case score >= 60:
		return models.BadgeConsider, models.RecommendApplyWithCaveats
	case score >= 40:
		return models.BadgeWait, models.RecommendWaitConsciously
	default:
		return models.BadgePass, models.RecommendWait
	}
}

func riskTags(listing *models.Listing, criteria *models.UserCriteria, score int) []models.RiskTag {
	var risks []models.RiskTag
	p, b := float64(listing.Price), float64(criteria.BudgetMax)

	if listing.Price > criteria.BudgetMax {
		risks = append(risks, models.RiskPriceAboveBudget)
	}
	if p > 1.1*b {
		risks = append(risks, models.RiskPriceFarAboveBudget)
	}
	if len(criteria.Boroughs) > 0 && !matchesPreferredArea(listing, criteria.Boroughs) {
		risks = append(risks, models.RiskWrongBorough)
	}
	if desired, openEnded := criteria.Bedrooms.Desired(); !(openEnded && listing.Bedrooms >= desired) && abs(listing.Bedrooms-desired) > 1 {
		risks = append(risks, models.RiskWrongBedrooms)
	}
	if !listing.HasPhoto() {
		risks = append(risks, models.RiskNoPhoto)
	}
	if criteria.Pets.WantsPets() && (listing.PetsAllowed == nil || !*listing.PetsAllowed) {
		risks = append(risks, models.RiskNoPets)
	}
	if score < LowScoreThreshold {
		risks = append(risks, models.RiskLowScore)
	}
	if len(listing.Description) < 30 {
		risks = append(risks, models.RiskMissingDescription)
	}
	return risks
}

func advantageTags(listing *models.Listing, criteria *models.UserCriteria, incentives []string, score int) []models.AdvantageTag {
	var advantages []models.AdvantageTag
	p, b := float64(listing.Price), float64(criteria.BudgetMax)

	if p < 0.95*b {
		advantages = append(advantages, models.AdvantageBelowBudget)
	}
	if p < 0.85*b {
		advantages = append(advantages, models.AdvantageWellBelowBudget)
	}
	if criteria.Pets.WantsPets() && listing.PetsAllowed != nil && *listing.PetsAllowed {
		advantages = append(advantages, models.AdvantagePetsOK)
	}
	if exactBoroughMatch(listing, criteria.Boroughs) {
		advantages = append(advantages, models.AdvantagePreferredArea)
	}
	for _, inc := range incentives {
		switch inc {
		case IncentiveFreeMonth:
			advantages = append(advantages, models.AdvantageFreeMonth)
		case IncentiveNoFee:
			advantages = append(advantages, models.AdvantageNoFee)
		}
	}
	if desired, openEnded := criteria.Bedrooms.Desired(); listing.Bedrooms == desired || (openEnded && listing.Bedrooms >= desired) {
		advantages = append(advantages, models.AdvantageExactBedrooms)
	}
	if score >= HighScoreThreshold {
		advantages = append(advantages, models.AdvantageHighScore)
	}
	return advantages
}

// exactBoroughMatch requires the listing borough to equal a preferred
// token, unlike the looser substring match used for the score itself.
func exactBoroughMatch(listing *models.Listing, preferred []string) bool {
	borough := normalize(listing.Borough)
	for _, p := range preferred {
		if borough != "" && borough == normalize(p) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
