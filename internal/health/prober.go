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

// Package health implements the blockchain-level health prober (C5): reach
// out to every ready pod's info endpoint through the pluggable BlockchainProbe
// collaborator and aggregate into one verdict for the parent StellarNode.
package health

import (
	"context"
	"time"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/interfaces"
)

// DefaultProbeTimeout is the per-call budget for one pod probe (spec §5).
const DefaultProbeTimeout = 5 * time.Second

// Result is the aggregated verdict the reconcile loop consumes.
type Result struct {
	Healthy        bool
	Synced         bool
	LedgerSequence *uint64
	Message        string
}

// Prober aggregates per-pod BlockchainProbe results into one Result.
type Prober struct {
	Client client.Client
	Probe  interfaces.BlockchainProbe
}

// Probe implements spec §4.5's algorithm: list ready pods matching the
// parent's selector, probe each, and fold into one aggregated verdict.
func (p *Prober) Probe(ctx context.Context, node *stellarv1alpha1.StellarNode) (Result, error) {
	var pods corev1.PodList
	if err := p.Client.List(ctx, &pods, client.InNamespace(node.Namespace), client.MatchingLabels{"stellar.org/instance": node.Name}); err != nil {
		return Result{}, err
	}

	if len(pods.Items) == 0 {
		return Result{Healthy: false, Synced: false, Message: "no pods"}, nil
	}

	var anyReachable bool
	var anySynced bool
	var maxLedger *uint64
	var lastMessage string

	for _, pod := range pods.Items {
		if !podReady(&pod) {
			continue
		}
		res, err := p.Probe.Probe(ctx, pod.Status.PodIP, DefaultProbeTimeout)
		if err != nil {
			lastMessage = err.Error()
			continue
		}
		if !res.Reachable {
			lastMessage = res.Message
			continue
		}
		anyReachable = true
		if res.State == interfaces.HealthSynced || (res.State == interfaces.HealthCatchingUp && res.NearTip) {
			anySynced = true
		}
		if res.LedgerSequence != nil && (maxLedger == nil || *res.LedgerSequence > *maxLedger) {
			maxLedger = res.LedgerSequence
		}
		if res.Message != "" {
			lastMessage = res.Message
		}
	}

	return Result{
		Healthy:        anyReachable,
		Synced:         anyReachable && anySynced,
		LedgerSequence: maxLedger,
		Message:        lastMessage,
	}, nil
}

func podReady(pod *corev1.Pod) bool {
	if pod.Status.PodIP == "" {
		return false
	}
	for _, c := range pod.Status.Conditions {
		if c.Type == corev1.PodReady {
			return c.Status == corev1.ConditionTrue
		}
	}
	return false
}
