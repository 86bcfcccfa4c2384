// Package web serves the controller's status and control API plus a
// live event feed over websockets.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mbocsi/growlink/controller"
)

type Server struct {
	Addr       string
	controller *controller.Controller
	hub        *Hub
	server     *http.Server
}

// NewServer wires a web server to ctrl and subscribes its websocket
// hub to the controller's event feed.
func NewServer(addr string, ctrl *controller.Controller) *Server {
	s := &Server{
		Addr:       addr,
		controller: ctrl,
		hub:        NewHub(),
	}
	ctrl.OnEvent(s.hub.Broadcast)
	return s
}

// Routes returns the HTTP routes for the control surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleHome)
	r.Get("/api/status", s.handleStatus)
	r.Get("/api/events", s.handleEvents)
	r.Post("/api/soil", s.handleSoil)
	r.Post("/api/water", s.handleWater)
	r.Post("/api/alerts/{kind}", s.handleAlert)
	r.Post("/api/probe", s.handleProbe)
	r.Get("/ws", s.hub.handleWebSocket)
	return r
}

func (s *Server) Start() error {
	slog.Info("Starting web server", "addr", s.Addr)

	s.server = &http.Server{
		Addr:    s.Addr,
		Handler: s.Routes(),
	}

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown() error {
	slog.Info("Shutting down web server", "addr", s.Addr)
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
