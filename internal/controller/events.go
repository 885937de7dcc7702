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

package controller

import (
	"k8s.io/client-go/tools/record"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/constants"
)

// recordWarning and recordNormal wrap the event recorder so every emission
// site in the reconcile loop spells the reason the same way as the fixed
// vocabulary in internal/constants (spec §6.2).
func recordWarning(recorder record.EventRecorder, node *stellarv1alpha1.StellarNode, reason, messageFmt string, args ...interface{}) {
	recorder.Eventf(node, "Warning", reason, messageFmt, args...)
}

func recordNormal(recorder record.EventRecorder, node *stellarv1alpha1.StellarNode, reason, messageFmt string, args ...interface{}) {
	recorder.Eventf(node, "Normal", reason, messageFmt, args...)
}

func emitValidationFailed(recorder record.EventRecorder, node *stellarv1alpha1.StellarNode, errs []ValidationError) {
	for _, e := range errs {
		recordWarning(recorder, node, constants.EventSpecValidationFailed, "%s: %s (%s)", e.Field, e.Message, e.Remediation)
	}
}

func emitArchiveHealthCheckFailed(recorder record.EventRecorder, node *stellarv1alpha1.StellarNode, url string, err error) {
	recordWarning(recorder, node, constants.EventArchiveHealthCheckFail, "archive %s unreachable: %v", url, err)
}

func emitArchiveIntegrityDegraded(recorder record.EventRecorder, node *stellarv1alpha1.StellarNode, lag uint64, url string) {
	recordWarning(recorder, node, constants.EventArchiveIntegrityDegrade, "archive lag %d exceeds threshold at %s", lag, url)
}

func emitCanaryRollback(recorder record.EventRecorder, node *stellarv1alpha1.StellarNode, reason string) {
	recordWarning(recorder, node, constants.EventCanaryRollbackTriggered, "canary rolled back: %s", reason)
}

func emitLedgerRegression(recorder record.EventRecorder, node *stellarv1alpha1.StellarNode, from, to uint64) {
	recordWarning(recorder, node, constants.EventLedgerRegression, "observed ledger regression %d -> %d", from, to)
}
