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

// Package metrics registers and emits the operator's Prometheus metrics
// (spec §6.3): per-node gauges, a reconcile-duration histogram, and error
// counters, plus a differential-privacy variant of the ledger/lag gauges.
package metrics

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelNamespace = "ns"
	labelName      = "name"
	labelType      = "type"
	labelNetwork   = "network"
)

var (
	ledgerSequence   *prometheus.GaugeVec
	ingestionLag     *prometheus.GaugeVec
	activeConns      *prometheus.GaugeVec
	archiveLedgerLag *prometheus.GaugeVec

	ledgerSequencePrivate *prometheus.GaugeVec
	archiveLedgerLagPrivate *prometheus.GaugeVec

	reconcileDuration *prometheus.HistogramVec
	reconcileErrors   *prometheus.CounterVec
	statusUpdates     *prometheus.CounterVec
	pollsAvoided      *prometheus.CounterVec

	initOnce sync.Once
	initErr  error
)

// LaplaceEpsilon and LaplaceSensitivity parameterise the differential-privacy
// noise added to the *Private gauge variants (spec §6.3).
const (
	LaplaceEpsilon     = 1.0
	LaplaceSensitivity = 1.0
)

// Init registers every metric with registry. Safe to call multiple times;
// registration happens once.
func Init(registry prometheus.Registerer) error {
	initOnce.Do(func() {
		baseLabels := []string{labelNamespace, labelName, labelType, labelNetwork}

		ledgerSequence = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ledger_sequence",
			Help: "Most recent ledger sequence number observed healthy.",
		}, baseLabels)
		ingestionLag = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ingestion_lag",
			Help: "Observed ingestion lag for API-gateway/contract-RPC nodes.",
		}, baseLabels)
		activeConns = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Active peer/client connections observed on the node.",
		}, baseLabels)
		archiveLedgerLag = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "archive_ledger_lag",
			Help: "Maximum observed lag between a validator and its configured history archives.",
		}, baseLabels)

		ledgerSequencePrivate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ledger_sequence_private",
			Help: "Differential-privacy (Laplace, epsilon=1) variant of ledger_sequence.",
		}, baseLabels)
		archiveLedgerLagPrivate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "archive_ledger_lag_private",
			Help: "Differential-privacy (Laplace, epsilon=1) variant of archive_ledger_lag.",
		}, baseLabels)

		reconcileDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reconcile_duration_seconds",
			Help:    "Duration of one reconcile pass.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16), // ~1ms .. ~32s
		}, []string{"controller"})

		reconcileErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reconcile_errors_total",
			Help: "Total reconcile errors by taxonomy kind.",
		}, []string{"controller", "kind"})

		statusUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reactive_status_updates_total",
			Help: "Total status patches written by completed reconcile passes.",
		}, []string{labelNamespace, labelName})

		pollsAvoided = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_polls_avoided_total",
			Help: "Total API polls avoided due to cached watch state.",
		}, []string{labelNamespace, labelName})

		for _, c := range []prometheus.Collector{
			ledgerSequence, ingestionLag, activeConns, archiveLedgerLag,
			ledgerSequencePrivate, archiveLedgerLagPrivate,
			reconcileDuration, reconcileErrors, statusUpdates, pollsAvoided,
		} {
			if err := registry.Register(c); err != nil {
				initErr = fmt.Errorf("register metric: %w", err)
				return
			}
		}
	})
	return initErr
}

// NodeLabels identifies one StellarNode for per-node gauges.
type NodeLabels struct {
	Namespace string
	Name      string
	NodeType  string
	Network   string
}

func (l NodeLabels) values() prometheus.Labels {
	return prometheus.Labels{
		labelNamespace: l.Namespace,
		labelName:      l.Name,
		labelType:      l.NodeType,
		labelNetwork:   l.Network,
	}
}

func SetLedgerSequence(l NodeLabels, seq float64) {
	if ledgerSequence == nil {
		return
	}
	ledgerSequence.With(l.values()).Set(seq)
	if ledgerSequencePrivate != nil {
		ledgerSequencePrivate.With(l.values()).Set(AddLaplaceNoise(seq))
	}
}

func SetIngestionLag(l NodeLabels, lag float64) {
	if ingestionLag == nil {
		return
	}
	ingestionLag.With(l.values()).Set(lag)
}

func SetActiveConnections(l NodeLabels, n float64) {
	if activeConns == nil {
		return
	}
	activeConns.With(l.values()).Set(n)
}

func SetArchiveLedgerLag(l NodeLabels, lag float64) {
	if archiveLedgerLag == nil {
		return
	}
	archiveLedgerLag.With(l.values()).Set(lag)
	if archiveLedgerLagPrivate != nil {
		archiveLedgerLagPrivate.With(l.values()).Set(AddLaplaceNoise(lag))
	}
}

func ObserveReconcileDuration(controller string, seconds float64) {
	if reconcileDuration == nil {
		return
	}
	reconcileDuration.WithLabelValues(controller).Observe(seconds)
}

func IncReconcileError(controller, kind string) {
	if reconcileErrors == nil {
		return
	}
	reconcileErrors.WithLabelValues(controller, kind).Inc()
}

func IncReactiveStatusUpdate(namespace, name string) {
	if statusUpdates == nil {
		return
	}
	statusUpdates.WithLabelValues(namespace, name).Inc()
}

func IncAPIPollAvoided(namespace, name string) {
	if pollsAvoided == nil {
		return
	}
	pollsAvoided.WithLabelValues(namespace, name).Inc()
}

// AddLaplaceNoise adds Laplace(0, sensitivity/epsilon) noise to value, per
// spec §6.3's differential-privacy gauge variants.
func AddLaplaceNoise(value float64) float64 {
	scale := LaplaceSensitivity / LaplaceEpsilon
	u := rand.Float64() - 0.5
	noise := -scale * sign(u) * math.Log(1-2*math.Abs(u))
	return value + noise
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
