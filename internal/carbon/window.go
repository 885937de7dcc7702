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

// Package carbon implements the carbon-aware scheduling window supplemented
// from original_source/src/carbon_aware: non-urgent canary rollouts and CVE
// image rolls are deferred outside a low-carbon window when a
// CarbonIntensitySource is configured, but the window is consulted, never
// blocking — an unreachable or unconfigured source never stalls a rollout.
package carbon

import (
	"context"

	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/interfaces"
)

// DefaultThresholdGCO2PerKWh is the fixed default below which a region is
// considered low-carbon enough to proceed with a non-urgent rollout step.
const DefaultThresholdGCO2PerKWh = 400

// Window decides whether now is an acceptable time to start a non-urgent
// rollout or image-roll step for the given region.
type Window struct {
	Source          interfaces.CarbonIntensitySource
	ThresholdGCO2KWh int32
}

func NewWindow(source interfaces.CarbonIntensitySource) *Window {
	return &Window{Source: source, ThresholdGCO2KWh: DefaultThresholdGCO2PerKWh}
}

// Clear reports whether the region's current intensity is low enough to
// proceed. A nil Source, an error, or the -1 "no signal" sentinel all mean
// "proceed" — carbon awareness is a courtesy, not a gate.
func (w *Window) Clear(ctx context.Context, regionCode string) bool {
	if w == nil || w.Source == nil || regionCode == "" {
		return true
	}
	intensity, err := w.Source.CurrentIntensity(ctx, regionCode)
	if err != nil || intensity < 0 {
		return true
	}
	threshold := w.ThresholdGCO2KWh
	if threshold == 0 {
		threshold = DefaultThresholdGCO2PerKWh
	}
	return intensity <= threshold
}
