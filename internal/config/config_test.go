package config

import (
	"os"
	"path/filepath"
	"testing"

	"marops-sim/internal/colregs"
)

const testSchema = `
zones: [...{
	name:     string
	center_x: number
	center_y: number
	radius_m: >0
}]
`

const testConfig = `
zones:
  - name: harbor-approach
    center_x: 0
    center_y: 0
    radius_m: 20000
fleets:
  - name: patrol-1
    class: patrol
    count: 2
    zone: harbor-approach
    heading_deg: 0
    speed_ms: 10
traffic:
  count_per_zone: 3
  classes: [cargo, tanker]
colregs:
  safe_distance_m: 2500
  action_level: medium
  risk_thresholds:
    - {level: critical, dcpa_max_m: 200, tcpa_max_s: 300}
    - {level: high, dcpa_max_m: 500, tcpa_max_s: 600}
`

func writeTempFiles(t *testing.T) (configPath, schemaPath string) {
	t.Helper()
	dir := t.TempDir()
	configPath = filepath.Join(dir, "simulation.yaml")
	schemaPath = filepath.Join(dir, "simulation.cue")
	if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(schemaPath, []byte(testSchema), 0644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	return configPath, schemaPath
}

func TestLoadValid(t *testing.T) {
	configPath, schemaPath := writeTempFiles(t)
	cfg, err := Load(configPath, schemaPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Zones) != 1 || cfg.Zones[0].Name != "harbor-approach" {
		t.Errorf("unexpected zones: %+v", cfg.Zones)
	}
	if len(cfg.Fleets) != 1 || cfg.Fleets[0].Count != 2 {
		t.Errorf("unexpected fleets: %+v", cfg.Fleets)
	}
	if cfg.Traffic.CountPerZone != 3 {
		t.Errorf("unexpected traffic: %+v", cfg.Traffic)
	}
	if cfg.Colregs.SafeDistanceM != 2500 {
		t.Errorf("unexpected colregs block: %+v", cfg.Colregs)
	}
}

func TestLoadRejectsSchemaViolation(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "bad.yaml")
	schemaPath := filepath.Join(dir, "simulation.cue")
	bad := `
zones:
  - name: z
    center_x: 0
    center_y: 0
    radius_m: -5
`
	if err := os.WriteFile(configPath, []byte(bad), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(schemaPath, []byte(testSchema), 0644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	if _, err := Load(configPath, schemaPath); err == nil {
		t.Fatal("expected schema validation error for negative radius")
	}
}

func TestClassifierConfigDefaults(t *testing.T) {
	var c Colregs
	cfg := c.ClassifierConfig()
	def := colregs.DefaultClassifierConfig()
	if cfg != def {
		t.Errorf("empty block should yield defaults: %+v vs %+v", cfg, def)
	}

	c.SafeDistanceM = 1234
	c.HeadOnBearingDeg = 7
	cfg = c.ClassifierConfig()
	if cfg.SafeDistanceM != 1234 || cfg.HeadOnBearingDeg != 7 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.HeadOnCourseDeg != def.HeadOnCourseDeg {
		t.Errorf("unset fields should keep defaults: %+v", cfg)
	}
}

func TestAssessorConfigConversion(t *testing.T) {
	c := Colregs{
		ActionLevel: "high",
		RiskThresholds: []RiskThreshold{
			{Level: "critical", DCPAMaxM: 100, TCPAMaxS: 200},
			{Level: "high", DCPAMaxM: 400, TCPAMaxS: 500},
		},
	}
	cfg, err := c.AssessorConfig()
	if err != nil {
		t.Fatalf("AssessorConfig: %v", err)
	}
	if cfg.ActionLevel != colregs.RiskHigh {
		t.Errorf("unexpected action level: %v", cfg.ActionLevel)
	}
	if len(cfg.Thresholds) != 2 || cfg.Thresholds[0].Level != colregs.RiskCritical {
		t.Errorf("unexpected thresholds: %+v", cfg.Thresholds)
	}

	c.RiskThresholds = append(c.RiskThresholds, RiskThreshold{Level: "bogus"})
	if _, err := c.AssessorConfig(); err == nil {
		t.Fatal("expected error for unknown risk level")
	}
}
