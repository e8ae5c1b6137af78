// Admin HTTP surface for inspecting the running simulation
package admin

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"marops-sim/internal/logging"
	"marops-sim/internal/sim"
	"marops-sim/internal/telemetry"
)

type Server struct {
	Sim *sim.Simulator
	tpl *template.Template
}

//go:embed templates/index.html
var content embed.FS

func NewServer(simulator *sim.Simulator) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{Sim: simulator, tpl: tpl}
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/telemetry", s.handleTelemetry)
	mux.HandleFunc("/encounters", s.handleEncounters)
	mux.HandleFunc("/most-dangerous", s.handleMostDangerous)
	mux.HandleFunc("/fleet-health", s.handleHealth)
	mux.HandleFunc("/spawn-traffic", s.handleSpawnTraffic)
}

// Start serves the admin UI until the context is canceled.
func (s *Server) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	s.routes(mux)
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.FromContext(ctx).Error("admin shutdown failed", "error", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

type indexData struct {
	Fleets        []sim.FleetHealth
	MostDangerous map[string]telemetry.EncounterRow
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Fleets:        s.Sim.Health(),
		MostDangerous: s.Sim.MostDangerous(),
	}
	s.tpl.Execute(w, data)
}

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.TelemetrySnapshot())
}

func (s *Server) handleEncounters(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.Encounters())
}

func (s *Server) handleMostDangerous(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.MostDangerous())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.Health())
}

func (s *Server) handleSpawnTraffic(w http.ResponseWriter, r *http.Request) {
	class := r.URL.Query().Get("class")
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	if count <= 0 {
		count = 1
	}
	s.Sim.SpawnTraffic(count, class)
	w.WriteHeader(http.StatusNoContent)
}
