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

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
)

// ReadReplicaReconciler ensures/deletes a secondary read-only Deployment
// (ApiGateway/ContractRpc only), a supplemented feature carried over from
// original_source/ that the distilled spec dropped in favour of the primary
// workload alone. It reuses the primary pod template with a distinguishing
// "-replica" suffix and a read-only flag propagated via env.
type ReadReplicaReconciler struct {
	Client client.Client
}

func buildReadReplica(node *stellarv1alpha1.StellarNode) *appsv1.Deployment {
	tmpl := podTemplate(node)
	for i := range tmpl.Spec.Containers {
		tmpl.Spec.Containers[i].Env = append(tmpl.Spec.Containers[i].Env, corev1.EnvVar{Name: "READ_ONLY", Value: "true"})
	}
	labels := ChildLabels(node)
	labels["stellar.org/role"] = "read-replica"
	replicas := node.Spec.ReadReplica.Replicas
	if replicas == 0 {
		replicas = 1
	}
	return &appsv1.Deployment{
		TypeMeta:   metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-replica"), Namespace: node.Namespace, Labels: labels, OwnerReferences: []metav1.OwnerReference{OwnerReference(node)}},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: map[string]string{"stellar.org/instance": node.Name, "stellar.org/role": "read-replica"}},
			Template: tmpl,
		},
	}
}

func (r *ReadReplicaReconciler) Ensure(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	if node.Spec.ReadReplica == nil || !node.Spec.ReadReplica.Enabled || node.IsValidator() {
		return r.Delete(ctx, node)
	}
	return Apply(ctx, r.Client, node, buildReadReplica(node), "Deployment")
}

func (r *ReadReplicaReconciler) Delete(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	obj := &appsv1.Deployment{ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-replica"), Namespace: node.Namespace}}
	return Delete(ctx, r.Client, node, obj, "Deployment")
}
