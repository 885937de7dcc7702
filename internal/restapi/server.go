/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package restapi exposes a read-only HTTP surface alongside the manager's
// controller-runtime metrics/health endpoints: a per-StellarNode status
// lookup that mirrors status.Phase/status.Canary/status.CVE without
// requiring a client to round-trip the Kubernetes API server directly.
package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
)

// Server serves the read-only status and metrics surface. It holds no
// mutating handlers: all cluster state changes flow through the reconciler.
type Server struct {
	Client client.Client
}

// Handler builds the chi router. /metrics serves the default global
// Prometheus registry, which holds this package's own request counter;
// internal/metrics registers with controller-runtime's registry instead, so
// its collectors are served by the manager's metrics server, not here.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(httpMetrics)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/v1/nodes/{namespace}/{name}/status", s.handleStatus)

	return r
}

type nodeStatusResponse struct {
	Phase          string `json:"phase,omitempty"`
	LedgerSequence *int64 `json:"ledgerSequence,omitempty"`
	CanaryPhase    string `json:"canaryPhase,omitempty"`
	CVEPhase       string `json:"cvePhase,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "namespace")
	name := chi.URLParam(r, "name")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var node stellarv1alpha1.StellarNode
	if err := s.Client.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, &node); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	resp := nodeStatusResponse{
		Phase:          node.Status.Phase,
		LedgerSequence: node.Status.LedgerSequence,
	}
	if node.Status.Canary != nil {
		resp.CanaryPhase = node.Status.Canary.Phase
	}
	if node.Status.CVE != nil {
		resp.CVEPhase = node.Status.CVE.Phase
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stellar_operator",
			Subsystem: "restapi",
			Name:      "requests_total",
			Help:      "Total number of restapi HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
}

func httpMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, http.StatusText(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
