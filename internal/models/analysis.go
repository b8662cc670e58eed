// internal/models/analysis.go
package models

// Badge is the coarse recommendation bucket derived from the match score.
type Badge string

const (
	BadgeActNow   Badge = "ACT_NOW"
	BadgeConsider Badge = "CONSIDER"
	BadgeWait     Badge = "WAIT"
	BadgePass     Badge = "PASS"
)

// Recommendation is the user-facing action pinned to each badge.
type Recommendation string

const (
	RecommendApply            Recommendation = "Apply"
	RecommendApplyWithCaveats Recommendation = "ApplyWithCaveats"
	RecommendWaitConsciously  Recommendation = "WaitConsciously"
	RecommendWait             Recommendation = "Wait"
)

// RiskTag flags a concern about a listing relative to the user's criteria.
type RiskTag string

const (
	RiskPriceAboveBudget    RiskTag = "price_above_budget"
	RiskPriceFarAboveBudget RiskTag = "price_far_above_budget"
	RiskWrongBorough        RiskTag = "wrong_borough"
	RiskWrongBedrooms       RiskTag = "wrong_bedrooms"
	RiskNoPhoto             RiskTag = "no_photo"
	RiskNoPets              RiskTag = "no_pets"
	RiskLowScore            RiskTag = "low_score"
	RiskMissingDescription  RiskTag = "missing_description"
)

// AdvantageTag flags a selling point of a listing for the user's criteria.
type AdvantageTag string

const (
	AdvantageBelowBudget     AdvantageTag = "below_budget"
	AdvantageWellBelowBudget AdvantageTag = "well_below_budget"
	AdvantagePetsOK          AdvantageTag = "pets_ok"
	AdvantagePreferredArea   AdvantageTag = "preferred_borough"
	AdvantageFreeMonth       AdvantageTag = "free_month"
	AdvantageNoFee           AdvantageTag = "no_fee"
	AdvantageExactBedrooms   AdvantageTag = "exact_bedrooms"
	AdvantageHighScore       AdvantageTag = "high_score"
)

// MatchAnalysis is the derived verdict for one (listing, criteria) pair.
// It is recomputed on every view and never persisted.
type MatchAnalysis struct {
	Score              int            `json:"score"`
	Badge              Badge          `json:"badge"`
	Recommendation     Recommendation `json:"recommendation"`
	Risks              []RiskTag      `json:"risks"`
	Advantages         []AdvantageTag `json:"advantages"`
	IncentivesDetected []string       `json:"incentivesDetected"`
	Reasoning          string         `json:"reasoning"`
}
