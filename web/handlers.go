package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mbocsi/growlink/controller"
)

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>growlink controller</title></head>
<body>
  <h1>growlink controller</h1>
  <ul>
    <li>GET /api/status - relay engine snapshot</li>
    <li>GET /api/events - recent relay events</li>
    <li>POST /api/soil {"level": 30} - set the soil moisture level</li>
    <li>POST /api/water {"present": true} - set the water bottle status</li>
    <li>POST /api/alerts/dry | /api/alerts/wet - inject a soil alert</li>
    <li>POST /api/probe - probe the gateway once</li>
    <li>GET /ws - live event feed</li>
  </ul>
</body>
</html>
`

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Status())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Events())
}

func (s *Server) handleSoil(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level uint32 `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.controller.SetSoilMoisture(req.Level)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleWater(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Present bool `json:"present"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.controller.SetWaterStatus(req.Present)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleAlert(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "kind") {
	case "dry":
		s.controller.InjectDryAlert()
	case "wet":
		s.controller.InjectWetAlert()
	default:
		http.Error(w, "Unknown alert kind", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.controller.Status().Links[controller.RoleGateway.String()]; !ok {
		http.Error(w, "No gateway device is connected", http.StatusConflict)
		return
	}

	response, err := s.controller.ProbeOnce()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(response)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err.Error())
	}
}
