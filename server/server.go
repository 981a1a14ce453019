// Package server implements the destination authority: an HTTP service
// running the resolution pipeline for remote gateway clients.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/xid"
	"github.com/usegalaxy-eu/jcaas/destination"
	"github.com/usegalaxy-eu/jcaas/gateway"
	"github.com/usegalaxy-eu/jcaas/logger"
)

var log = logger.New("server")

// Server answers gateway protocol requests over HTTP.
type Server struct {
	HTTPPort string
	Resolver *destination.Resolver
}

// Handler returns the HTTP handler: the resolution endpoint at "/" and
// prometheus metrics at "/metrics".
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleResolve)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Serve runs the server until the context is canceled.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.HTTPPort,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	log.Info("Server listening", "httpPort", s.HTTPPort)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reqLog := log.WithFields("requestId", xid.New().String())

	req := gateway.Request{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reqLog.Error("Couldn't decode request", err)
		resolutionFailures.WithLabelValues("bad_request").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, spec, err := s.Resolver.Resolve(req.ToolID, req.UserRoles, req.Email, 1.0)
	if err != nil {
		reqLog.Error("Resolution failed", "toolID", req.ToolID, "error", err)
		switch {
		case errors.Is(err, destination.ErrUnauthorized):
			resolutionFailures.WithLabelValues("unauthorized").Inc()
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, destination.ErrBothDown):
			resolutionFailures.WithLabelValues("backends_down").Inc()
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		default:
			resolutionFailures.WithLabelValues("internal").Inc()
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	resolutions.WithLabelValues(result.Runner).Inc()
	reqLog.Debug("Resolved destination",
		"toolID", req.ToolID,
		"destination", spec.DestinationID(),
		"runner", result.Runner,
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(gateway.Response{
		Env:    result.Env,
		Params: result.Params,
		Runner: result.Runner,
		Spec:   spec,
	})
}
