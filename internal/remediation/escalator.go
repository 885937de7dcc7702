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

// Package remediation implements the graduated recovery state machine (C8):
// decides whether a stalled validator needs a pod restart or a full
// state-wipe-and-resync, persisting its state in annotations since the
// engine is otherwise stateless across restarts.
package remediation

import (
	"strconv"
	"time"

	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/constants"
)

const (
	StaleAfter = 15 * time.Minute
	Cooldown   = 10 * time.Minute
)

// Verdict is the per-pass outcome of Evaluate.
type Verdict string

const (
	VerdictHealthy     Verdict = "Healthy"
	VerdictCooling     Verdict = "Cooling"
	VerdictRemediating Verdict = "Remediating"
)

// Action is the remediation action to delegate to the child-resource
// reconcilers (C4) when Verdict is Remediating.
type Action string

const (
	ActionNone             Action = "None"
	ActionRestartPod       Action = "RestartPod"
	ActionWipeAndResync    Action = "WipeStateAndResync"
)

// State is the annotation-backed persistent state this component reads and writes.
type State struct {
	LastObservedLedger  uint64
	LastLedgerUpdateTime time.Time
	RemediationLevel    int
	LastRemediationTime time.Time
}

// ParseState reads State out of a StellarNode's annotation map. Missing or
// malformed values parse as "no prior observation" (spec §4.8).
func ParseState(annotations map[string]string) State {
	var s State
	if v, ok := annotations[constants.AnnotationLastObservedLedger]; ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			s.LastObservedLedger = n
		}
	}
	if v, ok := annotations[constants.AnnotationLastLedgerUpdateTime]; ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			s.LastLedgerUpdateTime = t
		}
	}
	if v, ok := annotations[constants.AnnotationRemediationLevel]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.RemediationLevel = n
		}
	}
	if v, ok := annotations[constants.AnnotationLastRemediationTime]; ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			s.LastRemediationTime = t
		}
	}
	return s
}

// WriteState serialises State back into the annotation map for patching.
func WriteState(annotations map[string]string, s State) {
	annotations[constants.AnnotationLastObservedLedger] = strconv.FormatUint(s.LastObservedLedger, 10)
	annotations[constants.AnnotationLastLedgerUpdateTime] = s.LastLedgerUpdateTime.UTC().Format(time.RFC3339)
	annotations[constants.AnnotationRemediationLevel] = strconv.Itoa(s.RemediationLevel)
	annotations[constants.AnnotationLastRemediationTime] = s.LastRemediationTime.UTC().Format(time.RFC3339)
}

// Evaluate implements the exact state machine from spec §4.8.
func Evaluate(prev State, currentLedger uint64, now time.Time) (State, Verdict, Action) {
	if currentLedger > prev.LastObservedLedger {
		next := prev
		next.LastObservedLedger = currentLedger
		next.LastLedgerUpdateTime = now
		next.RemediationLevel = 0
		return next, VerdictHealthy, ActionNone
	}

	if prev.LastLedgerUpdateTime.IsZero() {
		// No prior observation: treat as healthy without escalation, but
		// record the current ledger so the next pass has a baseline.
		next := prev
		next.LastObservedLedger = currentLedger
		next.LastLedgerUpdateTime = now
		return next, VerdictHealthy, ActionNone
	}

	if now.Sub(prev.LastLedgerUpdateTime) >= StaleAfter {
		if now.Sub(prev.LastRemediationTime) < Cooldown {
			return prev, VerdictCooling, ActionNone
		}
		level := prev.RemediationLevel + 1
		if level > 2 {
			level = 2
		}
		action := ActionRestartPod
		if level == 2 {
			action = ActionWipeAndResync
		}
		next := prev
		next.RemediationLevel = level
		next.LastRemediationTime = now
		return next, VerdictRemediating, action
	}

	return prev, VerdictHealthy, ActionNone
}
