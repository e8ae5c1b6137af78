package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"marops-sim/internal/admin"
	"marops-sim/internal/config"
	"marops-sim/internal/logging"
	"marops-sim/internal/scenario"
	"marops-sim/internal/sim"
)

var (
	simPrintOnly  bool
	simTUI        bool
	simConfigPath string
	simSchemaPath string
	simScenario   string
	simTick       time.Duration
	simLogFile    string
	simAdminAddr  string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the real-time vessel traffic simulator",
	Long:  "simulate starts a traffic simulator emitting vessel telemetry and COLREGS encounter evaluations.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New()
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}

		writer, encWriter, cleanup, err := newWriters(cfg, simPrintOnly, simTUI, simLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		fleetID := os.Getenv("FLEET_ID")
		if fleetID == "" {
			fleetID = "fleet-01"
		}

		tickInterval := simTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logger))
		defer cancel()

		simulator, err := sim.NewSimulator(fleetID, cfg, writer, encWriter, tickInterval)
		if err != nil {
			return err
		}

		if simScenario != "" {
			sc, err := scenario.Load(simScenario)
			if err != nil {
				return err
			}
			logger.Info("scenario loaded", "name", sc.Name, "targets", len(sc.Targets), "phases", len(sc.Phases))
			simulator.ApplyScenario(sc)
		}

		srv := admin.NewServer(simulator)
		go func() {
			logger.Info("admin UI listening", "addr", simAdminAddr)
			if err := srv.Start(ctx, simAdminAddr); err != nil && err != http.ErrServerClosed {
				logger.Error("admin server failed", "error", err)
			}
		}()

		go simulator.Run(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		cancel()
		logger.Info("simulation stopped")
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print telemetry to STDOUT instead of writing to DB")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render telemetry and encounters in an interactive TUI")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	simulateCmd.Flags().StringVar(&simScenario, "scenario", "", "Path to a scripted encounter scenario YAML")
	simulateCmd.Flags().DurationVar(&simTick, "tick", time.Second, "Telemetry tick interval (e.g. 500ms, 2s)")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export telemetry/encounter logs (JSONL)")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin-addr", ":8080", "Listen address for the admin UI")
}
