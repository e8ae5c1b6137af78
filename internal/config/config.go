// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"marops-sim/internal/colregs"
)

// Zone defines a circular operating area in the local plane, meters.
type Zone struct {
	Name    string  `yaml:"name"`
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
	RadiusM float64 `yaml:"radius_m"`
}

// Fleet defines a group of own ships of the same class.
type Fleet struct {
	Name       string  `yaml:"name"`
	Class      string  `yaml:"class"`
	Count      int     `yaml:"count"`
	Zone       string  `yaml:"zone"`
	HeadingDeg float64 `yaml:"heading_deg"`
	SpeedMS    float64 `yaml:"speed_ms"`
}

// Traffic configures the background target-ship population.
type Traffic struct {
	CountPerZone int      `yaml:"count_per_zone"`
	Classes      []string `yaml:"classes"`
}

// RiskThreshold is one row of the risk table, most severe first.
type RiskThreshold struct {
	Level    string  `yaml:"level"`
	DCPAMaxM float64 `yaml:"dcpa_max_m"`
	TCPAMaxS float64 `yaml:"tcpa_max_s"`
}

// Colregs holds the encounter-classification and risk tunables.
type Colregs struct {
	SafeDistanceM      float64         `yaml:"safe_distance_m"`
	HeadOnBearingDeg   float64         `yaml:"head_on_bearing_deg"`
	HeadOnCourseDeg    float64         `yaml:"head_on_course_deg"`
	OvertakeSpeedRatio float64         `yaml:"overtake_speed_ratio"`
	ActionLevel        string          `yaml:"action_level"`
	RiskThresholds     []RiskThreshold `yaml:"risk_thresholds"`
}

// SimulationConfig is the root configuration for zones, fleets, traffic,
// and the COLREGS tunables.
type SimulationConfig struct {
	Zones   []Zone  `yaml:"zones"`
	Fleets  []Fleet `yaml:"fleets"`
	Traffic Traffic `yaml:"traffic"`
	Colregs Colregs `yaml:"colregs"`
}

// Load loads YAML config and validates it against a CUE schema.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Zones) == 0 {
		return nil, fmt.Errorf("config: no zones defined")
	}
	return &cfg, nil
}

// ClassifierConfig converts the YAML tunables into the classifier's config,
// falling back to the stock defaults for unset fields.
func (c Colregs) ClassifierConfig() colregs.ClassifierConfig {
	cfg := colregs.DefaultClassifierConfig()
	if c.SafeDistanceM != 0 {
		cfg.SafeDistanceM = c.SafeDistanceM
	}
	if c.HeadOnBearingDeg != 0 {
		cfg.HeadOnBearingDeg = c.HeadOnBearingDeg
	}
	if c.HeadOnCourseDeg != 0 {
		cfg.HeadOnCourseDeg = c.HeadOnCourseDeg
	}
	if c.OvertakeSpeedRatio != 0 {
		cfg.OvertakeSpeedRatio = c.OvertakeSpeedRatio
	}
	return cfg
}

// AssessorConfig converts the YAML risk table into the assessor's config.
func (c Colregs) AssessorConfig() (colregs.AssessorConfig, error) {
	cfg := colregs.AssessorConfig{ActionLevel: colregs.RiskLevel(c.ActionLevel)}
	if c.ActionLevel == "" {
		cfg.ActionLevel = colregs.RiskMedium
	}
	for _, th := range c.RiskThresholds {
		lvl := colregs.RiskLevel(th.Level)
		if !lvl.Valid() {
			return colregs.AssessorConfig{}, fmt.Errorf("config: unknown risk level %q", th.Level)
		}
		cfg.Thresholds = append(cfg.Thresholds, colregs.RiskThreshold{
			Level:    lvl,
			DCPAMaxM: th.DCPAMaxM,
			TCPAMaxS: th.TCPAMaxS,
		})
	}
	return cfg, nil
}
