// Package colregs classifies the navigational relationship between two
// vessels under the international right-of-way rules (COLREGS Rules 13-15)
// and scores collision risk from closest-point-of-approach projection.
//
// All entry points are pure functions over immutable inputs; the classifier
// and assessor hold only read-only configuration and are safe to share
// across concurrent callers.
package colregs

// EncounterType labels the COLREGS situation between own ship and a target.
type EncounterType string

const (
	EncounterSafe            EncounterType = "safe"
	EncounterHeadOn          EncounterType = "head_on"
	EncounterCrossingGiveWay EncounterType = "crossing_give_way"
	EncounterCrossingStandOn EncounterType = "crossing_stand_on"
	EncounterOvertaking      EncounterType = "overtaking"
)

// Valid reports whether t is one of the known encounter types.
func (t EncounterType) Valid() bool {
	switch t {
	case EncounterSafe, EncounterHeadOn, EncounterCrossingGiveWay,
		EncounterCrossingStandOn, EncounterOvertaking:
		return true
	}
	return false
}

// RiskLevel grades collision risk. Severity comparisons go through the
// explicit ordinal table below, not declaration order.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var riskOrdinal = map[RiskLevel]int{
	RiskSafe:     0,
	RiskLow:      1,
	RiskMedium:   2,
	RiskHigh:     3,
	RiskCritical: 4,
}

// Severity returns the position of the level in the total order
// SAFE < LOW < MEDIUM < HIGH < CRITICAL. Unknown levels rank below SAFE.
func (l RiskLevel) Severity() int {
	if ord, ok := riskOrdinal[l]; ok {
		return ord
	}
	return -1
}

// AtLeast reports whether l is at least as severe as other.
func (l RiskLevel) AtLeast(other RiskLevel) bool {
	return l.Severity() >= other.Severity()
}

// Valid reports whether l is one of the known risk levels.
func (l RiskLevel) Valid() bool {
	_, ok := riskOrdinal[l]
	return ok
}

// EncounterSituation is the immutable result of one classification call.
// Angles are degrees in [0, 360), distance is meters.
type EncounterSituation struct {
	Type            EncounterType `json:"encounter_type"`
	RelativeBearing float64       `json:"relative_bearing"`
	RelativeCourse  float64       `json:"relative_course"`
	Distance        float64       `json:"distance"`
	AspectAngle     float64       `json:"aspect_angle"`
}

// RiskAssessment is the immutable result of one risk evaluation. TCPA is in
// seconds and may be +Inf (no relative motion) or negative (closest point
// already passed).
type RiskAssessment struct {
	DCPA           float64   `json:"dcpa"`
	TCPA           float64   `json:"tcpa"`
	Distance       float64   `json:"distance"`
	BearingRate    float64   `json:"bearing_rate"`
	Level          RiskLevel `json:"risk_level"`
	IsDangerous    bool      `json:"is_dangerous"`
	RequiresAction bool      `json:"requires_action"`
}
