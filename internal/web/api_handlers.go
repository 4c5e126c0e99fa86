package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/evcraddock/vino-route/internal/auth"
	"github.com/evcraddock/vino-route/internal/geo"
	"github.com/evcraddock/vino-route/internal/history"
	"github.com/evcraddock/vino-route/internal/ledger"
	"github.com/evcraddock/vino-route/internal/report"
	"github.com/evcraddock/vino-route/internal/route"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// routeResponse is the current route with progress counts.
type routeResponse struct {
	Prospects []route.Prospect `json:"prospects"`
	Visited   int              `json:"visited"`
	Total     int              `json:"total"`
}

func newRouteResponse(rt *route.Route) routeResponse {
	if rt == nil {
		return routeResponse{Prospects: []route.Prospect{}}
	}
	visited, total := rt.Progress()
	return routeResponse{Prospects: rt.Prospects(), Visited: visited, Total: total}
}

// mutationError maps a route mutation failure to a response.
func (s *Server) mutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidStatus):
		apiError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, route.ErrUnknownAddress):
		apiError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrWrite):
		apiError(w, "could not save visit history", http.StatusInternalServerError)
	default:
		apiError(w, fmt.Sprintf("updating route: %v", err), http.StatusInternalServerError)
	}
}

// handleAPIRoute routes /api/route requests.
func (s *Server) handleAPIRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.apiGetRoute(w, r)
	case http.MethodPost:
		s.apiGenerateRoute(w, r)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// apiGetRoute returns the user's current route.
func (s *Server) apiGetRoute(w http.ResponseWriter, r *http.Request) {
	sess := s.routes.session(auth.UsernameFromContext(r.Context()))
	sess.mu.Lock()
	defer sess.mu.Unlock()

	apiJSON(w, newRouteResponse(sess.route), http.StatusOK)
}

// apiGenerateRoute replaces the user's route with fresh prospects for a
// location, given as text or as coordinates.
func (s *Server) apiGenerateRoute(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		apiError(w, "route generation not available (VR_GEMINI_API_KEY not configured)", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		Location  string   `json:"location"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	location := strings.TrimSpace(req.Location)
	if req.Latitude != nil || req.Longitude != nil {
		if req.Latitude == nil || req.Longitude == nil {
			apiError(w, "latitude and longitude must be given together", http.StatusBadRequest)
			return
		}
		p := geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
		if err := p.Validate(); err != nil {
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
		location = p.String()
	}
	if location == "" {
		apiError(w, "please enter a location", http.StatusBadRequest)
		return
	}

	username := auth.UsernameFromContext(r.Context())
	sess := s.routes.session(username)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	rt, err := s.service.Generate(r.Context(), username, location)
	if err != nil {
		if errors.Is(err, route.ErrLocationRequired) {
			apiError(w, "please enter a location", http.StatusBadRequest)
			return
		}
		sess.route = nil
		s.metrics.routeFailures.Inc()
		slog.Error("generating route", "user", username, "location", location, "error", err)
		apiError(w, err.Error(), http.StatusBadGateway)
		return
	}

	sess.route = rt
	s.metrics.routesGenerated.Inc()
	_, total := rt.Progress()
	s.metrics.prospectsFetched.Add(float64(total))

	apiJSON(w, newRouteResponse(rt), http.StatusOK)
}

// withRoute runs fn on the user's current route under the session lock.
// It answers 404 when the user has no route.
func (s *Server) withRoute(w http.ResponseWriter, r *http.Request, fn func(*route.Route)) {
	sess := s.routes.session(auth.UsernameFromContext(r.Context()))
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.route == nil {
		apiError(w, "no active route", http.StatusNotFound)
		return
	}
	fn(sess.route)
}

// handleAPIStatus sets a prospect's visit status.
func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Address string `json:"address"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	status, err := ledger.ParseStatus(req.Status)
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.withRoute(w, r, func(rt *route.Route) {
		if err := rt.SetStatus(req.Address, status); err != nil {
			s.mutationError(w, err)
			return
		}
		apiJSON(w, newRouteResponse(rt), http.StatusOK)
	})
}

// handleAPINote replaces a prospect's notes.
func (s *Server) handleAPINote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Address string `json:"address"`
		Notes   string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	s.withRoute(w, r, func(rt *route.Route) {
		if err := rt.SetNote(req.Address, req.Notes); err != nil {
			s.mutationError(w, err)
			return
		}
		apiJSON(w, newRouteResponse(rt), http.StatusOK)
	})
}

// handleAPISort orders the route nearest first from the given position.
func (s *Server) handleAPISort(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		apiError(w, "latitude and longitude are required", http.StatusBadRequest)
		return
	}
	origin := geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := origin.Validate(); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.withRoute(w, r, func(rt *route.Route) {
		rt.SortByDistance(origin)
		apiJSON(w, newRouteResponse(rt), http.StatusOK)
	})
}

// historyGroup is a day of visits with its display label.
type historyGroup struct {
	Date    string          `json:"date"`
	Label   string          `json:"label"`
	Records []ledger.Record `json:"records"`
}

// handleAPIHistory lists or clears the user's visit history.
func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	username := auth.UsernameFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		now := s.now()
		groups := []historyGroup{}
		for _, g := range history.Group(s.ledger.List(username)) {
			groups = append(groups, historyGroup{Date: g.Date, Label: history.Label(g.Date, now), Records: g.Records})
		}
		apiJSON(w, groups, http.StatusOK)

	case http.MethodDelete:
		sess := s.routes.session(username)
		sess.mu.Lock()
		defer sess.mu.Unlock()

		var err error
		if sess.route != nil {
			err = sess.route.ClearHistory()
		} else {
			err = s.ledger.Clear(username)
		}
		if err != nil {
			s.mutationError(w, err)
			return
		}
		apiJSON(w, map[string]bool{"cleared": true}, http.StatusOK)

	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAPIReport downloads the sales report as a text attachment.
func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	username := auth.UsernameFromContext(r.Context())
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	now := s.now()

	text, err := report.Format(s.ledger.List(username), report.Options{
		Username: username,
		Date:     date,
		Now:      now,
	})
	if errors.Is(err, report.ErrNothingToExport) {
		msg := "There is no history to export."
		if date != "" {
			msg = "No visits were recorded on the selected date."
		}
		apiJSON(w, map[string]interface{}{"exported": false, "message": msg}, http.StatusOK)
		return
	}
	if err != nil {
		apiError(w, fmt.Sprintf("building report: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.reportsExported.Inc()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(date, now)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(text)); err != nil {
		slog.Error("writing report", "error", err)
	}
}
