// internal/match/incentives.go
package match

import (
	"regexp"
	"strings"
)

// Canonical incentive labels. Phrase variants collapse into one label so
// "first month free" and "2 months free" count as a single distinct
// incentive, not two.
const (
	IncentiveFreeMonth      = "free month"
	IncentiveNoFee          = "no fee"
	IncentiveConcession     = "concession"
	IncentiveReducedDeposit = "reduced deposit"
	IncentiveFlexibleLease  = "flexible lease"
)

type incentivePattern struct {
	label string
	re    *regexp.Regexp
}

// Detection order is fixed so IncentivesDetected is deterministic.
var incentivePatterns = []incentivePattern{
	{IncentiveFreeMonth, regexp.MustCompile(`free month|\b(\d+|one|two|three|first)\s+months?\s+free`)},
	{IncentiveNoFee, regexp.MustCompile(`no (broker('?s)? )?fee`)},
	{IncentiveConcession, regexp.MustCompile(`concession`)},
	{IncentiveReducedDeposit, regexp.MustCompile(`reduced (security )?deposit`)},
	{IncentiveFlexibleLease, regexp.MustCompile(`flexible lease`)},
}

// DetectIncentives scans a listing description (case-insensitive) for
// landlord concession phrases and returns the ordered distinct labels.
func DetectIncentives(description string) []string {
	if description == "" {
		return nil
	}
	text := strings.ToLower(description)

	var found []string
	for _, p := range incentivePatterns {
		if p.re.MatchString(text) {
			found = append(found, p.label)
		}
	}
	return found
}
