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

/*
Package childresources implements the child-resource reconcilers (C4): one
idempotent ensure/delete pair per child kind. Status is patched with
client.MergeFrom; every spec-shaped child instead goes through a full
server-side apply so other controllers can co-own orthogonal fields.
*/
package childresources

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/constants"
)

// DryRun is a process-wide flag (spec §4.4): when true, ensure/delete never
// write to the cluster and instead emit a Would{Create,Update,Delete} event.
var DryRun bool

// Recorder is the shared event recorder used for dry-run notifications; it
// is assigned once, via SetRecorder, in cmd/manager/main.go.
var Recorder record_EventRecorder

// record_EventRecorder is a minimal alias kept local so this file does not
// need to import k8s.io/client-go/tools/record just for the var declaration
// ordering; set via SetRecorder.
type record_EventRecorder interface {
	Eventf(object runtime.Object, eventtype, reason, messageFmt string, args ...interface{})
}

func SetRecorder(r record_EventRecorder) {
	Recorder = r
}

// Apply performs a server-side apply of desired with the operator's field
// manager, or — in dry-run mode — emits a Would{Create,Update} event and
// returns without touching the cluster (spec §4.4).
func Apply(ctx context.Context, c client.Client, node *stellarv1alpha1.StellarNode, desired client.Object, kind string) error {
	if DryRun {
		emitWouldEvent(node, constants.EventWouldUpdate, kind, desired)
		return nil
	}

	desired.SetManagedFields(nil)
	if err := c.Patch(ctx, desired, client.Apply, client.FieldOwner(constants.FieldManager), client.ForceOwnership); err != nil {
		return fmt.Errorf("server-side apply of %s %s/%s: %w", kind, desired.GetNamespace(), desired.GetName(), err)
	}
	return nil
}

// Delete issues a delete for obj, treating "not found" as success (spec §4.4).
func Delete(ctx context.Context, c client.Client, node *stellarv1alpha1.StellarNode, obj client.Object, kind string) error {
	if DryRun {
		emitWouldEvent(node, constants.EventWouldDelete, kind, obj)
		return nil
	}

	if err := c.Delete(ctx, obj); err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("delete of %s %s/%s: %w", kind, obj.GetNamespace(), obj.GetName(), err)
	}
	return nil
}

func emitWouldEvent(node *stellarv1alpha1.StellarNode, reason, kind string, obj client.Object) {
	if Recorder == nil {
		return
	}
	Recorder.Eventf(node, "Normal", reason, "%s %s/%s (%s)", reason, obj.GetNamespace(), obj.GetName(), kind)
}

// ChildName applies the deterministic naming convention from spec §4.4:
// "<parent-name>[-<suffix>]".
func ChildName(node *stellarv1alpha1.StellarNode, suffix string) string {
	return node.Name + suffix
}

// ChildLabels returns the selection labels every child carries (spec §3.4).
func ChildLabels(node *stellarv1alpha1.StellarNode) map[string]string {
	return map[string]string{
		constants.LabelNodeType:  string(node.Spec.NodeType),
		constants.LabelInstance:  node.Name,
		constants.LabelManagedBy: constants.ManagedByValue,
	}
}

// OwnerReference builds the owner reference every child carries so the
// cluster garbage collector reclaims them on parent deletion (spec §3.4).
func OwnerReference(node *stellarv1alpha1.StellarNode) metav1.OwnerReference {
	blockOwnerDeletion := true
	controller := true
	return metav1.OwnerReference{
		APIVersion:         stellarv1alpha1.GroupVersion.String(),
		Kind:               "StellarNode",
		Name:               node.Name,
		UID:                node.UID,
		BlockOwnerDeletion: &blockOwnerDeletion,
		Controller:         &controller,
	}
}
