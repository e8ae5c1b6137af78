package colregs

import (
	"fmt"
	"math"

	"marops-sim/internal/geometry"
)

// Rule 13/15 sector bounds in degrees of relative bearing. Lower bounds are
// inclusive, upper bounds exclusive, so every bearing maps to exactly one
// sector.
const (
	crossingMinDeg   = 5.0
	sternSectorMin   = 112.5
	sternSectorMax   = 247.5
	crossingMaxDeg   = 355.0
	reciprocalCourse = 180.0
)

// ClassifierConfig holds the classifier tunables, fixed at construction.
type ClassifierConfig struct {
	// SafeDistanceM is the range beyond which every contact is SAFE.
	SafeDistanceM float64
	// HeadOnBearingDeg is the half-width of the dead-ahead window for the
	// head-on rule.
	HeadOnBearingDeg float64
	// HeadOnCourseDeg is the tolerance around reciprocal courses for the
	// head-on rule.
	HeadOnCourseDeg float64
	// OvertakeSpeedRatio is the minimum ratio of the faster vessel's speed
	// over the slower one's before a stern-sector contact counts as
	// overtaking. At 1.0 the faster vessel must be strictly faster.
	OvertakeSpeedRatio float64
}

// DefaultClassifierConfig returns the stock tunables: 3000 m safe distance,
// 5 degree head-on window, 10 degree reciprocal-course tolerance.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		SafeDistanceM:      3000,
		HeadOnBearingDeg:   5,
		HeadOnCourseDeg:    10,
		OvertakeSpeedRatio: 1.0,
	}
}

// Classifier maps relative vessel geometry to an encounter category.
type Classifier struct {
	cfg ClassifierConfig
}

// NewClassifier validates the config and returns a classifier. Zero values
// for the angular tunables fall back to the defaults; a non-positive safe
// distance is rejected.
func NewClassifier(cfg ClassifierConfig) (*Classifier, error) {
	def := DefaultClassifierConfig()
	if cfg.HeadOnBearingDeg == 0 {
		cfg.HeadOnBearingDeg = def.HeadOnBearingDeg
	}
	if cfg.HeadOnCourseDeg == 0 {
		cfg.HeadOnCourseDeg = def.HeadOnCourseDeg
	}
	if cfg.OvertakeSpeedRatio == 0 {
		cfg.OvertakeSpeedRatio = def.OvertakeSpeedRatio
	}
	if err := geometry.CheckFinite(cfg.SafeDistanceM, cfg.HeadOnBearingDeg, cfg.HeadOnCourseDeg, cfg.OvertakeSpeedRatio); err != nil {
		return nil, fmt.Errorf("classifier config: %w", err)
	}
	if cfg.SafeDistanceM <= 0 {
		return nil, fmt.Errorf("classifier config: %w: safe distance %v", geometry.ErrInvalidInput, cfg.SafeDistanceM)
	}
	if cfg.HeadOnBearingDeg < 0 || cfg.HeadOnCourseDeg < 0 || cfg.OvertakeSpeedRatio < 0 {
		return nil, fmt.Errorf("classifier config: %w: negative tolerance", geometry.ErrInvalidInput)
	}
	return &Classifier{cfg: cfg}, nil
}

// Config returns a copy of the classifier's configuration.
func (c *Classifier) Config() ClassifierConfig {
	return c.cfg
}

// Classify evaluates the encounter between own ship and a target from one
// snapshot of positions, headings (degrees), and speeds. Contacts beyond the
// safe distance are SAFE with the geometry fields still populated for
// diagnostics.
func (c *Classifier) Classify(osPos geometry.Position, osHeadingDeg, osSpeed float64, tsPos geometry.Position, tsHeadingDeg, tsSpeed float64) (EncounterSituation, error) {
	if err := geometry.CheckFinite(osPos.X, osPos.Y, osHeadingDeg, tsPos.X, tsPos.Y, tsHeadingDeg); err != nil {
		return EncounterSituation{}, err
	}
	if err := geometry.CheckSpeed(osSpeed); err != nil {
		return EncounterSituation{}, fmt.Errorf("own ship: %w", err)
	}
	if err := geometry.CheckSpeed(tsSpeed); err != nil {
		return EncounterSituation{}, fmt.Errorf("target ship: %w", err)
	}

	sit := EncounterSituation{
		Type:            EncounterSafe,
		RelativeBearing: geometry.RelativeBearing(osPos, osHeadingDeg, tsPos),
		RelativeCourse:  geometry.NormalizeAngle360(tsHeadingDeg - osHeadingDeg),
		Distance:        geometry.Distance(osPos, tsPos),
		AspectAngle:     geometry.AspectAngle(tsHeadingDeg, osPos, tsPos),
	}
	if sit.Distance > c.cfg.SafeDistanceM {
		return sit, nil
	}
	sit.Type = c.sector(sit.RelativeBearing, sit.RelativeCourse, osSpeed, tsSpeed)
	return sit, nil
}

// sector applies the rules in priority order: head-on, overtaking, crossing
// give-way, crossing stand-on, then the SAFE residual.
func (c *Classifier) sector(bearing, course, osSpeed, tsSpeed float64) EncounterType {
	deadAhead := bearing < c.cfg.HeadOnBearingDeg || bearing >= 360-c.cfg.HeadOnBearingDeg
	reciprocal := math.Abs(geometry.NormalizeAngle(course-reciprocalCourse)) < c.cfg.HeadOnCourseDeg
	if deadAhead && reciprocal {
		return EncounterHeadOn
	}

	if bearing >= sternSectorMin && bearing < sternSectorMax {
		// Rule 13 needs one vessel actually catching up. With comparable
		// speeds the contact falls through to the residual.
		faster, slower := osSpeed, tsSpeed
		if tsSpeed > osSpeed {
			faster, slower = tsSpeed, osSpeed
		}
		if faster > slower*c.cfg.OvertakeSpeedRatio {
			return EncounterOvertaking
		}
		return EncounterSafe
	}

	if bearing >= crossingMinDeg && bearing < sternSectorMin {
		return EncounterCrossingGiveWay
	}
	if bearing >= sternSectorMax && bearing < crossingMaxDeg {
		return EncounterCrossingStandOn
	}
	return EncounterSafe
}

// ActionRequirement returns the right-of-way obligation for an encounter
// type, with the rule citation.
func ActionRequirement(t EncounterType) string {
	switch t {
	case EncounterHeadOn:
		return "Alter course to starboard so both vessels pass port to port (Rule 14)."
	case EncounterCrossingGiveWay:
		return "Give way: alter course and/or speed to pass astern of the target (Rule 15)."
	case EncounterCrossingStandOn:
		return "Stand on: maintain course and speed, monitor the give-way vessel (Rule 15)."
	case EncounterOvertaking:
		return "Keep clear of the vessel being overtaken until finally past and clear (Rule 13)."
	default:
		return "No action required."
	}
}
