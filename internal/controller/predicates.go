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
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/event"
	"sigs.k8s.io/controller-runtime/pkg/predicate"

	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/constants"
)

// ConfigMapPredicate filters ConfigMap events to only the rendered core
// config this controller itself writes — changes there never need to
// trigger a reconcile, only a watch for external tampering detection.
func ConfigMapPredicate() predicate.Predicate {
	return predicate.NewPredicateFuncs(func(obj client.Object) bool {
		labels := obj.GetLabels()
		return labels != nil && labels[constants.LabelManagedBy] == constants.ManagedByValue
	})
}

// ChildWorkloadPredicate filters StatefulSet/Deployment events down to
// objects this operator owns, identified by the managed-by label every
// child carries (spec §3.4).
func ChildWorkloadPredicate() predicate.Predicate {
	return predicate.NewPredicateFuncs(func(obj client.Object) bool {
		labels := obj.GetLabels()
		return labels != nil && labels[constants.LabelManagedBy] == constants.ManagedByValue
	})
}

// EventFilter filters events for the StellarNode controller itself.
//
// It allows:
//   - All Create and Delete events
//   - Update events where the spec generation changed, or the
//     deletion timestamp was just set (finalizer-driven deletion)
//
// It blocks pure status/metadata-only updates, since the periodic requeue
// (15s/60s per spec §4.12 step 15) already covers drift correction and a
// status-only update would otherwise requeue itself forever.
func EventFilter() predicate.Funcs {
	return predicate.Funcs{
		CreateFunc: func(e event.CreateEvent) bool {
			return true
		},
		UpdateFunc: func(e event.UpdateEvent) bool {
			if e.ObjectNew.GetGeneration() != e.ObjectOld.GetGeneration() {
				return true
			}
			newDel := e.ObjectNew.GetDeletionTimestamp()
			oldDel := e.ObjectOld.GetDeletionTimestamp()
			if newDel != nil && !newDel.IsZero() && (oldDel == nil || oldDel.IsZero()) {
				return true
			}
			return false
		},
		DeleteFunc: func(e event.DeleteEvent) bool {
			return true
		},
		GenericFunc: func(e event.GenericEvent) bool {
			return false
		},
	}
}

// ChildEventFilter governs watches on owned children (ConfigMap, workload,
// Service, ...): Create and Delete always enqueue the parent; Update only
// enqueues when the child's own status changed, since server-side apply
// from this same controller would otherwise cause a self-triggered loop.
func ChildEventFilter() predicate.Funcs {
	return predicate.Funcs{
		CreateFunc: func(e event.CreateEvent) bool {
			return true
		},
		UpdateFunc: func(e event.UpdateEvent) bool {
			return e.ObjectNew.GetResourceVersion() != e.ObjectOld.GetResourceVersion() &&
				e.ObjectNew.GetGeneration() == e.ObjectOld.GetGeneration()
		},
		DeleteFunc: func(e event.DeleteEvent) bool {
			return true
		},
		GenericFunc: func(e event.GenericEvent) bool {
			return false
		},
	}
}
