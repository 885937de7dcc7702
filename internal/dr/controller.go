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

// Package dr implements the cross-cluster disaster-recovery controller
// (C11): peer health tracking, role bookkeeping, and DNS-based failover for
// Standby clusters, delegating the actual peer probe and DNS mutation to
// out-of-scope collaborators.
package dr

import (
	"context"
	"fmt"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/interfaces"
)

const (
	peerHealthUnreachable = "Unreachable"
	peerHealthHealthy     = "Healthy"
)

// Controller drives one DR pass for one StellarNode.
type Controller struct {
	PeerProbe interfaces.PeerClusterProbe
	DNS       interfaces.DNSMutator
}

// Reconcile implements spec §4.11 steps 1-5, mutating node.Status.DR in
// place. It never returns an error for a single unreachable peer — peer
// failures degrade status but never fail the pass; a non-nil message is
// informational (e.g. the manual fail-back note) for logging.
func (c *Controller) Reconcile(ctx context.Context, node *stellarv1alpha1.StellarNode, localLedger uint64, now time.Time) (string, error) {
	spec := node.Spec.DisasterRecovery
	if spec == nil || !spec.Enabled || len(spec.PeerClusters) == 0 {
		return "", nil
	}

	if node.Status.DR == nil {
		node.Status.DR = &stellarv1alpha1.DRStatus{CurrentRole: spec.Role}
	}
	status := node.Status.DR

	peer := spec.PeerClusters[0]
	timeout := time.Duration(peer.HealthCheckTimeoutSeconds) * time.Second
	reachable, peerLedger, err := c.PeerProbe.Probe(ctx, peer.Endpoint, timeout)

	status.LastPeerContact = metav1.NewTime(now)
	if err != nil || !reachable {
		status.PeerHealth = peerHealthUnreachable
	} else {
		status.PeerHealth = peerHealthHealthy
	}

	if spec.Role != stellarv1alpha1.DRRoleStandby {
		return "", nil
	}

	if status.PeerHealth == peerHealthUnreachable && !status.FailoverActive {
		status.FailoverActive = true
		status.CurrentRole = stellarv1alpha1.DRRolePrimary
		if c.DNS != nil && spec.FailoverDNSHostname != "" {
			if err := c.DNS.PointAt(ctx, spec.FailoverDNSHostname, ""); err != nil {
				return "", fmt.Errorf("DNS failover for %s/%s: %w", node.Namespace, node.Name, err)
			}
		}
		return "failover triggered: peer unreachable, this cluster now Primary", nil
	}

	if status.PeerHealth == peerHealthHealthy && status.FailoverActive {
		return "peer healthy again; fail-back must be triggered manually", nil
	}

	if !status.FailoverActive && spec.SyncStrategy == stellarv1alpha1.DRSyncPeerTracking && reachable && peerLedger != nil {
		lag := saturatingSub(*peerLedger, localLedger)
		signed := int64(lag)
		status.SyncLag = &signed
	}

	return "", nil
}

func saturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}
