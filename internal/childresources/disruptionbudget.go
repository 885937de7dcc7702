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

package childresources

import (
	"context"

	policyv1 "k8s.io/api/policy/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
)

// DisruptionBudgetReconciler ensures/deletes the PodDisruptionBudget child
// (spec §3.4). A single-replica Validator always gets MinAvailable=0
// (voluntary eviction must never be blocked for a node whose own reconciler
// already gates unsafe operations) unless the spec explicitly overrides it.
type DisruptionBudgetReconciler struct {
	Client client.Client
}

func buildPDB(node *stellarv1alpha1.StellarNode) *policyv1.PodDisruptionBudget {
	spec := node.Spec.DisruptionBudget
	pdb := &policyv1.PodDisruptionBudget{
		TypeMeta:   metav1.TypeMeta{APIVersion: "policy/v1", Kind: "PodDisruptionBudget"},
		ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-pdb"), Namespace: node.Namespace, Labels: ChildLabels(node), OwnerReferences: []metav1.OwnerReference{OwnerReference(node)}},
		Spec: policyv1.PodDisruptionBudgetSpec{
			Selector: &metav1.LabelSelector{MatchLabels: map[string]string{"stellar.org/instance": node.Name}},
		},
	}
	switch {
	case spec.MinAvailable != nil:
		v := intstr.Parse(*spec.MinAvailable)
		pdb.Spec.MinAvailable = &v
	case spec.MaxUnavailable != nil:
		v := intstr.Parse(*spec.MaxUnavailable)
		pdb.Spec.MaxUnavailable = &v
	default:
		zero := intstr.FromInt(0)
		pdb.Spec.MinAvailable = &zero
	}
	return pdb
}

func (r *DisruptionBudgetReconciler) Ensure(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	if node.Spec.DisruptionBudget == nil || !node.Spec.DisruptionBudget.Enabled {
		return r.Delete(ctx, node)
	}
	return Apply(ctx, r.Client, node, buildPDB(node), "PodDisruptionBudget")
}

func (r *DisruptionBudgetReconciler) Delete(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	obj := &policyv1.PodDisruptionBudget{ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-pdb"), Namespace: node.Namespace}}
	return Delete(ctx, r.Client, node, obj, "PodDisruptionBudget")
}
