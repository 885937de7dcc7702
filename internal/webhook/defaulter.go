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

// Package webhook implements a mutating defaulting admission webhook for
// StellarNode (spec §4's supplemented feature): it fills unset interval and
// threshold fields. The canary check interval matches the rollout
// controller's own 300s fallback and the carbon ceiling uses
// carbon.DefaultThresholdGCO2PerKWh; the DR peer health-check values are this
// webhook's own defaults, since the DR controller has no read-time fallback
// for them. It duplicates no business logic from C3's Validate: a spec this
// webhook defaults can still fail validation.
package webhook

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/carbon"
)

const (
	defaultCanaryCheckIntervalSeconds   = 300
	defaultDRHealthCheckIntervalSeconds = 10
	defaultDRHealthCheckTimeoutSeconds  = 5
	defaultDRFailureThreshold           = 3
	defaultDRSuccessThreshold           = 2
)

// Defaulter implements admission.CustomDefaulter for StellarNode.
type Defaulter struct{}

// SetupWebhookWithManager registers the defaulting webhook path
// (/mutate-stellar-org-v1alpha1-stellarnode) with the manager.
func SetupWebhookWithManager(mgr ctrl.Manager) error {
	return ctrl.NewWebhookManagedBy(mgr).
		For(&stellarv1alpha1.StellarNode{}).
		WithDefaulter(&Defaulter{}).
		Complete()
}

// Default implements admission.CustomDefaulter.
func (d *Defaulter) Default(ctx context.Context, obj runtime.Object) error {
	node, ok := obj.(*stellarv1alpha1.StellarNode)
	if !ok {
		return fmt.Errorf("expected a StellarNode, got %T", obj)
	}

	if node.Spec.RolloutStrategy.CheckIntervalSeconds <= 0 {
		node.Spec.RolloutStrategy.CheckIntervalSeconds = defaultCanaryCheckIntervalSeconds
	}

	if node.Spec.DisasterRecovery != nil {
		for i := range node.Spec.DisasterRecovery.PeerClusters {
			peer := &node.Spec.DisasterRecovery.PeerClusters[i]
			if peer.HealthCheckIntervalSeconds <= 0 {
				peer.HealthCheckIntervalSeconds = defaultDRHealthCheckIntervalSeconds
			}
			if peer.HealthCheckTimeoutSeconds <= 0 {
				peer.HealthCheckTimeoutSeconds = defaultDRHealthCheckTimeoutSeconds
			}
			if peer.FailureThreshold <= 0 {
				peer.FailureThreshold = defaultDRFailureThreshold
			}
			if peer.SuccessThreshold <= 0 {
				peer.SuccessThreshold = defaultDRSuccessThreshold
			}
		}
	}

	if node.Spec.CarbonAware != nil && node.Spec.CarbonAware.MaxIntensityGCO2PerKWh <= 0 {
		node.Spec.CarbonAware.MaxIntensityGCO2PerKWh = carbon.DefaultThresholdGCO2PerKWh
	}

	return nil
}
