package main

import (
	"encoding/json"
	"math"
	"os"

	"github.com/spf13/cobra"

	"marops-sim/internal/colregs"
	"marops-sim/internal/geometry"
)

var (
	classifyOwnX       float64
	classifyOwnY       float64
	classifyOwnHeading float64
	classifyOwnSpeed   float64
	classifyTgtX       float64
	classifyTgtY       float64
	classifyTgtHeading float64
	classifyTgtSpeed   float64
	classifySafeDist   float64
)

// classifyResult is the one-shot evaluation printed as JSON. TCPA is split
// into a converging flag and a finite seconds value so the output stays
// valid JSON when there is no future closest approach.
type classifyResult struct {
	Situation      colregs.EncounterSituation `json:"situation"`
	DCPAM          float64                    `json:"dcpa_m"`
	Converging     bool                       `json:"converging"`
	TCPASeconds    float64                    `json:"tcpa_s"`
	BearingRate    float64                    `json:"bearing_rate_degs"`
	RiskLevel      colregs.RiskLevel          `json:"risk_level"`
	RequiresAction bool                       `json:"requires_action"`
	Obligation     string                     `json:"obligation"`
	Recommendation string                     `json:"recommendation"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a single own-ship/target encounter",
	Long:  "classify runs one COLREGS classification and CPA risk assessment for a pair of vessel states and prints the result as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		clsCfg := colregs.DefaultClassifierConfig()
		if classifySafeDist > 0 {
			clsCfg.SafeDistanceM = classifySafeDist
		}
		classifier, err := colregs.NewClassifier(clsCfg)
		if err != nil {
			return err
		}
		assessor, err := colregs.NewAssessor(colregs.AssessorConfig{})
		if err != nil {
			return err
		}

		osPos := geometry.Position{X: classifyOwnX, Y: classifyOwnY}
		tsPos := geometry.Position{X: classifyTgtX, Y: classifyTgtY}

		situation, err := classifier.Classify(osPos, classifyOwnHeading, classifyOwnSpeed, tsPos, classifyTgtHeading, classifyTgtSpeed)
		if err != nil {
			return err
		}
		risk, err := assessor.Assess(osPos,
			geometry.HeadingToVelocity(classifyOwnHeading, classifyOwnSpeed),
			tsPos,
			geometry.HeadingToVelocity(classifyTgtHeading, classifyTgtSpeed))
		if err != nil {
			return err
		}

		result := classifyResult{
			Situation:      situation,
			DCPAM:          risk.DCPA,
			BearingRate:    risk.BearingRate,
			RiskLevel:      risk.Level,
			RequiresAction: risk.RequiresAction,
			Obligation:     colregs.ActionRequirement(situation.Type),
			Recommendation: colregs.RecommendedAction(risk),
		}
		if risk.TCPA >= 0 && !math.IsInf(risk.TCPA, 1) {
			result.Converging = true
			result.TCPASeconds = risk.TCPA
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	classifyCmd.Flags().Float64Var(&classifyOwnX, "own-x", 0, "Own ship X position, meters")
	classifyCmd.Flags().Float64Var(&classifyOwnY, "own-y", 0, "Own ship Y position, meters")
	classifyCmd.Flags().Float64Var(&classifyOwnHeading, "own-heading", 0, "Own ship heading, degrees clockwise from north")
	classifyCmd.Flags().Float64Var(&classifyOwnSpeed, "own-speed", 0, "Own ship speed, m/s")
	classifyCmd.Flags().Float64Var(&classifyTgtX, "target-x", 0, "Target X position, meters")
	classifyCmd.Flags().Float64Var(&classifyTgtY, "target-y", 0, "Target Y position, meters")
	classifyCmd.Flags().Float64Var(&classifyTgtHeading, "target-heading", 0, "Target heading, degrees clockwise from north")
	classifyCmd.Flags().Float64Var(&classifyTgtSpeed, "target-speed", 0, "Target speed, m/s")
	classifyCmd.Flags().Float64Var(&classifySafeDist, "safe-distance", 0, "Safe distance override, meters")
}
