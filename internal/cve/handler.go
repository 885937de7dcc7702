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

// Package cve implements the image vulnerability sub-state machine (C10): it
// piggybacks on the rollout machinery with its own annotation set and its
// own canary workload suffix so it never interleaves with the ordinary
// canary rollout controller (C9) on the same parent.
package cve

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/carbon"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/childresources"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/constants"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/interfaces"
)

// Phase is the sub-state machine's current step (spec §4.10).
type Phase string

const (
	PhaseIdle          Phase = "Idle"
	PhaseCanaryTesting Phase = "CanaryTesting"
	PhaseRolling       Phase = "Rolling"
	PhaseFailed        Phase = "Failed"
	PhaseRollingBack   Phase = "RollingBack"
	PhaseComplete      Phase = "Complete"
	PhaseRolledBack    Phase = "RolledBack"
)

// RollbackFactor is the fraction of baseline consensus health below which
// the handler triggers an immediate rollback.
const RollbackFactor = 0.95

// Handler drives the CVE sub-state machine for one StellarNode per call.
type Handler struct {
	Client   client.Client
	Recorder record.EventRecorder
	Scanner  interfaces.ImageScanner
	// Probe evaluates the CVE canary's sync state, the same contract the
	// ordinary rollout controller uses for its own canary (C9).
	Probe interfaces.BlockchainProbe
	// Carbon, when set, defers starting a new scan-triggered canary outside a
	// low-carbon window (spec §4 carbon-aware supplement). It never blocks a
	// canary already in CanaryTesting or Rolling from progressing.
	Carbon *carbon.Window
}

// canaryProbeTimeout bounds how long evaluateCanary waits on the probe
// before treating the canary as unhealthy.
const canaryProbeTimeout = 5 * time.Second

func currentPhase(node *stellarv1alpha1.StellarNode) Phase {
	p := node.Annotations[constants.AnnotationCVEPhase]
	if p == "" {
		return PhaseIdle
	}
	return Phase(p)
}

func setPhase(node *stellarv1alpha1.StellarNode, p Phase) {
	if node.Annotations == nil {
		node.Annotations = map[string]string{}
	}
	node.Annotations[constants.AnnotationCVEPhase] = string(p)
}

// Reconcile advances the CVE state machine by one step. Returns whether the
// parent's annotations changed and require a patch.
func (h *Handler) Reconcile(ctx context.Context, node *stellarv1alpha1.StellarNode, canaryActive bool, consensusHealth float64, now time.Time) (bool, error) {
	spec := node.Spec.CVE
	if spec == nil || !spec.Enabled {
		return false, nil
	}

	switch currentPhase(node) {
	case PhaseIdle:
		if canaryActive {
			// Mutual exclusion with the ordinary canary rollout (spec §4.9/§4.10).
			return false, nil
		}
		return h.maybeStartScan(ctx, node, now)
	case PhaseCanaryTesting:
		return h.evaluateCanary(ctx, node)
	case PhaseRolling:
		return h.monitorRolling(ctx, node, consensusHealth)
	case PhaseRollingBack, PhaseFailed, PhaseComplete, PhaseRolledBack:
		// Terminal: reset to Idle on this pass; the next scan starts once
		// the scan interval has elapsed.
		setPhase(node, PhaseIdle)
		return true, nil
	}
	return false, nil
}

func (h *Handler) maybeStartScan(ctx context.Context, node *stellarv1alpha1.StellarNode, now time.Time) (bool, error) {
	interval := time.Duration(node.Spec.CVE.ScanIntervalSecs) * time.Second
	if interval <= 0 {
		interval = time.Hour
	}
	lastScan, _ := time.Parse(time.RFC3339, node.Annotations[constants.AnnotationCVELastScan])
	if now.Sub(lastScan) < interval {
		return false, nil
	}

	if node.Spec.CarbonAware != nil && h.Carbon != nil {
		if !h.Carbon.Clear(ctx, node.Spec.CarbonAware.RegionCode) {
			return false, nil
		}
	}

	if node.Annotations == nil {
		node.Annotations = map[string]string{}
	}
	node.Annotations[constants.AnnotationCVELastScan] = now.UTC().Format(time.RFC3339)

	vulns, err := h.Scanner.Scan(ctx, currentImage(node))
	if err != nil {
		return true, fmt.Errorf("scan image: %w", err)
	}

	if !h.actsOn(node.Spec.CVE.CriticalOnly, vulns) {
		return true, nil
	}

	patched := patchedImageRef(currentImage(node))
	node.Annotations[constants.AnnotationCVEPatchedImage] = patched
	setPhase(node, PhaseCanaryTesting)

	canary := buildCVECanary(node, patched)
	if err := childresources.Apply(ctx, h.Client, node, canary, "Deployment"); err != nil {
		return true, fmt.Errorf("create CVE canary: %w", err)
	}
	return true, nil
}

func (h *Handler) actsOn(criticalOnly bool, vulns []interfaces.Vulnerability) bool {
	for _, v := range vulns {
		if v.Severity == interfaces.SeverityCritical {
			return true
		}
		if !criticalOnly {
			return true
		}
	}
	return false
}

func (h *Handler) evaluateCanary(ctx context.Context, node *stellarv1alpha1.StellarNode) (bool, error) {
	patched := node.Annotations[constants.AnnotationCVEPatchedImage]
	if patched == "" {
		setPhase(node, PhaseFailed)
		return true, nil
	}

	if !h.probeCanary(ctx) {
		node.Annotations[constants.AnnotationCVERollbackWhy] = "CVE canary failed health probe"
		setPhase(node, PhaseFailed)
		return true, nil
	}

	baseline := strconv.FormatFloat(1.0, 'f', 4, 64)
	if existing, ok := node.Annotations[constants.AnnotationCVEBaseline]; ok {
		baseline = existing
	}
	node.Annotations[constants.AnnotationCVEBaseline] = baseline
	node.Spec.Version = versionFromImage(patched)
	setPhase(node, PhaseRolling)
	return true, nil
}

// probeCanary reports whether the CVE canary passes the same reachability
// check the ordinary rollout controller uses for its own canary (C9). No
// probe configured is treated as a failure, not a free pass: the
// CanaryTesting -> Failed transition (spec §4.10) must stay reachable.
func (h *Handler) probeCanary(ctx context.Context) bool {
	if h.Probe == nil {
		return false
	}
	res, err := h.Probe.Probe(ctx, "", canaryProbeTimeout)
	if err != nil {
		return false
	}
	return res.Reachable
}

func (h *Handler) monitorRolling(ctx context.Context, node *stellarv1alpha1.StellarNode, consensusHealth float64) (bool, error) {
	baseline, err := strconv.ParseFloat(node.Annotations[constants.AnnotationCVEBaseline], 64)
	if err != nil {
		baseline = 1.0
	}

	if consensusHealth < baseline*RollbackFactor {
		rollbackTo := imageWithoutPatchSuffix(node.Annotations[constants.AnnotationCVEPatchedImage])
		node.Annotations[constants.AnnotationCVERollbackTo] = rollbackTo
		node.Annotations[constants.AnnotationCVERollbackWhy] = fmt.Sprintf("consensus health %.4f below baseline*%.2f (%.4f)", consensusHealth, RollbackFactor, baseline*RollbackFactor)
		node.Spec.Version = versionFromImage(rollbackTo)
		setPhase(node, PhaseRollingBack)
		return true, nil
	}

	setPhase(node, PhaseComplete)
	return true, nil
}

func currentImage(node *stellarv1alpha1.StellarNode) string {
	return childresources.BuildDeployment(node).Spec.Template.Spec.Containers[0].Image
}

func patchedImageRef(image string) string {
	return image + "-patched"
}

func imageWithoutPatchSuffix(image string) string {
	return strings.TrimSuffix(image, "-patched")
}

func versionFromImage(image string) string {
	i := strings.LastIndex(image, ":")
	if i < 0 {
		return image
	}
	return image[i+1:]
}

func buildCVECanary(node *stellarv1alpha1.StellarNode, patchedImage string) *appsv1.Deployment {
	dep := childresources.BuildDeployment(node)
	dep.Name = childresources.ChildName(node, constants.SuffixCVECanary)
	one := int32(1)
	dep.Spec.Replicas = &one
	dep.Spec.Template.Spec.Containers[0].Image = patchedImage
	if dep.Labels == nil {
		dep.Labels = map[string]string{}
	}
	dep.Labels[constants.LabelCanaryRole] = "cve-canary"
	dep.Spec.Selector.MatchLabels[constants.LabelCanaryRole] = "cve-canary"
	dep.Spec.Template.ObjectMeta.Labels[constants.LabelCanaryRole] = "cve-canary"
	return dep
}
