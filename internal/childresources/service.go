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

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
)

// ServiceReconciler ensures/deletes the headless and stable Service children
// (spec §3.4). The stable service's ClusterIP is what peer discovery (C7)
// publishes for validators.
type ServiceReconciler struct {
	Client client.Client
}

func servicePorts() []corev1.ServicePort {
	return []corev1.ServicePort{
		{Name: "http", Port: 11626, TargetPort: intstr.FromInt(11626)},
		{Name: "peer", Port: 11625, TargetPort: intstr.FromInt(11625)},
	}
}

func buildStableService(node *stellarv1alpha1.StellarNode) *corev1.Service {
	return &corev1.Service{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{Name: node.Name, Namespace: node.Namespace, Labels: ChildLabels(node), OwnerReferences: []metav1.OwnerReference{OwnerReference(node)}},
		Spec: corev1.ServiceSpec{
			Selector: map[string]string{"stellar.org/instance": node.Name},
			Ports:    servicePorts(),
		},
	}
}

func buildHeadlessService(node *stellarv1alpha1.StellarNode) *corev1.Service {
	svc := buildStableService(node)
	svc.Name = ChildName(node, "-headless")
	svc.Spec.ClusterIP = corev1.ClusterIPNone
	return svc
}

func (r *ServiceReconciler) Ensure(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	if err := Apply(ctx, r.Client, node, buildStableService(node), "Service"); err != nil {
		return err
	}
	return Apply(ctx, r.Client, node, buildHeadlessService(node), "Service")
}

func (r *ServiceReconciler) Delete(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	stable := &corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: node.Name, Namespace: node.Namespace}}
	if err := Delete(ctx, r.Client, node, stable, "Service"); err != nil {
		return err
	}
	headless := &corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-headless"), Namespace: node.Namespace}}
	return Delete(ctx, r.Client, node, headless, "Service")
}

// StableServiceClusterIP reads back the live stable Service's ClusterIP, used
// by peer discovery (C7) — returns "" if not found or not yet assigned.
func StableServiceClusterIP(ctx context.Context, c client.Client, node *stellarv1alpha1.StellarNode) (string, error) {
	var svc corev1.Service
	if err := c.Get(ctx, client.ObjectKey{Namespace: node.Namespace, Name: node.Name}, &svc); err != nil {
		return "", client.IgnoreNotFound(err)
	}
	if svc.Spec.ClusterIP == corev1.ClusterIPNone {
		return "", nil
	}
	return svc.Spec.ClusterIP, nil
}
