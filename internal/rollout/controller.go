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

// Package rollout implements the canary rollout state machine (C9): rolling
// updates need no orchestration beyond ordinary child-resource
// reconciliation, but canary rollouts hold an auxiliary workload alongside
// the stable one until a dedicated health probe decides promote or rollback.
package rollout

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/carbon"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/childresources"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/constants"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/interfaces"
)

// Phase mirrors the canary_status annotation values (spec §4.9).
type Phase string

const (
	PhaseTesting Phase = "Testing"
)

// Controller drives the canary state machine for one StellarNode per call.
type Controller struct {
	Client   client.Client
	Recorder record.EventRecorder
	Probe    interfaces.BlockchainProbe
	// Carbon, when set, defers starting a new canary outside a low-carbon
	// window (spec §4 carbon-aware supplement). It never blocks promote or
	// rollback of an already-running canary.
	Carbon *carbon.Window
}

func canaryName(node *stellarv1alpha1.StellarNode) string {
	return childresources.ChildName(node, constants.SuffixCanary)
}

// Reconcile implements spec §4.9's three steps: detect, hold, evaluate. It
// mutates node.Annotations in place and returns whether a patch of the
// parent is needed.
func (c *Controller) Reconcile(ctx context.Context, node *stellarv1alpha1.StellarNode, now time.Time) (bool, error) {
	if node.Annotations == nil {
		node.Annotations = map[string]string{}
	}

	active := node.Annotations[constants.AnnotationCanaryStatus] != ""

	if !active {
		return c.detect(ctx, node)
	}

	startTime, err := time.Parse(time.RFC3339, node.Annotations[constants.AnnotationCanaryStart])
	if err != nil {
		// Malformed state: clear and re-detect next pass.
		c.clearAnnotations(node)
		return true, nil
	}

	interval := time.Duration(node.Spec.RolloutStrategy.CheckIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 300 * time.Second
	}
	if now.Sub(startTime) < interval {
		return false, nil
	}

	return c.evaluate(ctx, node)
}

func (c *Controller) detect(ctx context.Context, node *stellarv1alpha1.StellarNode) (bool, error) {
	// Mutual exclusion with a CVE canary on the same parent (C10).
	if phase := node.Annotations[constants.AnnotationCVEPhase]; phase != "" && phase != "Idle" {
		return false, nil
	}

	var stable appsv1.Deployment
	err := c.Client.Get(ctx, client.ObjectKey{Namespace: node.Namespace, Name: node.Name}, &stable)
	currentVersion := ""
	if err == nil {
		currentVersion = versionFromImage(stableContainerImage(&stable))
	}
	if currentVersion == node.Spec.Version || currentVersion == "" {
		return false, nil
	}

	if node.Spec.CarbonAware != nil && c.Carbon != nil {
		if !c.Carbon.Clear(ctx, node.Spec.CarbonAware.RegionCode) {
			return false, nil
		}
	}

	node.Annotations[constants.AnnotationCanaryVersion] = node.Spec.Version
	node.Annotations[constants.AnnotationCanaryStart] = time.Now().UTC().Format(time.RFC3339)
	node.Annotations[constants.AnnotationCanaryStatus] = string(PhaseTesting)

	canary := buildCanaryWorkload(node)
	if err := childresources.Apply(ctx, c.Client, node, canary, "Deployment"); err != nil {
		return false, fmt.Errorf("create canary workload: %w", err)
	}
	return true, nil
}

func (c *Controller) evaluate(ctx context.Context, node *stellarv1alpha1.StellarNode) (bool, error) {
	healthy, msg := c.probeCanary(ctx, node)

	if healthy {
		if err := c.promote(ctx, node); err != nil {
			return false, err
		}
	} else {
		if err := c.rollback(ctx, node, msg); err != nil {
			return false, err
		}
	}
	c.clearAnnotations(node)
	return true, nil
}

func (c *Controller) probeCanary(ctx context.Context, node *stellarv1alpha1.StellarNode) (bool, string) {
	if c.Probe == nil {
		return false, "no canary probe configured"
	}
	res, err := c.Probe.Probe(ctx, "", 5*time.Second)
	if err != nil {
		return false, err.Error()
	}
	if !res.Reachable {
		return false, res.Message
	}
	return true, ""
}

func (c *Controller) promote(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	desired := childresources.BuildDeployment(node)
	if err := childresources.Apply(ctx, c.Client, node, desired, "Deployment"); err != nil {
		return fmt.Errorf("promote stable workload: %w", err)
	}
	return c.deleteCanary(ctx, node)
}

func (c *Controller) rollback(ctx context.Context, node *stellarv1alpha1.StellarNode, reason string) error {
	if err := c.deleteCanary(ctx, node); err != nil {
		return err
	}
	if c.Recorder != nil {
		c.Recorder.Eventf(node, "Warning", constants.EventCanaryRollbackTriggered, "canary evaluation failed: %s", reason)
	}
	return nil
}

func (c *Controller) deleteCanary(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	obj := &appsv1.Deployment{ObjectMeta: metav1.ObjectMeta{Name: canaryName(node), Namespace: node.Namespace}}
	return childresources.Delete(ctx, c.Client, node, obj, "Deployment")
}

func (c *Controller) clearAnnotations(node *stellarv1alpha1.StellarNode) {
	delete(node.Annotations, constants.AnnotationCanaryVersion)
	delete(node.Annotations, constants.AnnotationCanaryStart)
	delete(node.Annotations, constants.AnnotationCanaryStatus)
}

func buildCanaryWorkload(node *stellarv1alpha1.StellarNode) *appsv1.Deployment {
	dep := childresources.BuildDeployment(node)
	dep.Name = canaryName(node)
	one := int32(1)
	dep.Spec.Replicas = &one
	if dep.Labels == nil {
		dep.Labels = map[string]string{}
	}
	dep.Labels[constants.LabelCanaryRole] = "canary"
	dep.Spec.Selector.MatchLabels[constants.LabelCanaryRole] = "canary"
	dep.Spec.Template.ObjectMeta.Labels[constants.LabelCanaryRole] = "canary"
	return dep
}

func stableContainerImage(dep *appsv1.Deployment) string {
	if len(dep.Spec.Template.Spec.Containers) == 0 {
		return ""
	}
	return dep.Spec.Template.Spec.Containers[0].Image
}

func versionFromImage(image string) string {
	for i := len(image) - 1; i >= 0; i-- {
		if image[i] == ':' {
			return image[i+1:]
		}
	}
	return ""
}
