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

// WorkloadReconciler ensures/deletes the workload child (spec §3.4): a
// StatefulSet for validators (stable network identity, ordered rollout) and
// a Deployment otherwise.
type WorkloadReconciler struct {
	Client client.Client
}

func image(node *stellarv1alpha1.StellarNode) string {
	repo := "docker.io/stellar/stellar-core"
	switch node.Spec.NodeType {
	case stellarv1alpha1.NodeTypeApiGateway:
		repo = "docker.io/stellar/horizon"
	case stellarv1alpha1.NodeTypeContractRpc:
		repo = "docker.io/stellar/soroban-rpc"
	}
	return repo + ":" + node.Spec.Version
}

func containerName(node *stellarv1alpha1.StellarNode) string {
	switch node.Spec.NodeType {
	case stellarv1alpha1.NodeTypeApiGateway:
		return "horizon"
	case stellarv1alpha1.NodeTypeContractRpc:
		return "soroban-rpc"
	default:
		return "stellar-core"
	}
}

func podTemplate(node *stellarv1alpha1.StellarNode) corev1.PodTemplateSpec {
	labels := ChildLabels(node)
	return corev1.PodTemplateSpec{
		ObjectMeta: metav1.ObjectMeta{Labels: labels},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{
				{
					Name:      containerName(node),
					Image:     image(node),
					Resources: node.Spec.Resources,
					Ports: []corev1.ContainerPort{
						{Name: "http", ContainerPort: 11626},
						{Name: "peer", ContainerPort: 11625},
					},
					VolumeMounts: []corev1.VolumeMount{
						{Name: "data", MountPath: "/data"},
						{Name: "config", MountPath: "/config"},
					},
				},
			},
			Volumes: []corev1.Volume{
				{
					Name: "config",
					VolumeSource: corev1.VolumeSource{
						ConfigMap: &corev1.ConfigMapVolumeSource{
							LocalObjectReference: corev1.LocalObjectReference{Name: ChildName(node, "-config")},
						},
					},
				},
			},
		},
	}
}

func replicas(node *stellarv1alpha1.StellarNode) *int32 {
	r := node.Spec.Replicas
	if node.Spec.Suspended || node.Spec.MaintenanceMode {
		r = 0
	}
	return &r
}

// BuildStatefulSet computes the desired StatefulSet for a validator.
func BuildStatefulSet(node *stellarv1alpha1.StellarNode) *appsv1.StatefulSet {
	labels := ChildLabels(node)
	tmpl := podTemplate(node)
	tmpl.Spec.Volumes = append(tmpl.Spec.Volumes, corev1.Volume{
		Name: "data",
		VolumeSource: corev1.VolumeSource{
			PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{ClaimName: ChildName(node, "-data")},
		},
	})

	return &appsv1.StatefulSet{
		TypeMeta:   metav1.TypeMeta{APIVersion: "apps/v1", Kind: "StatefulSet"},
		ObjectMeta: metav1.ObjectMeta{Name: node.Name, Namespace: node.Namespace, Labels: labels, OwnerReferences: []metav1.OwnerReference{OwnerReference(node)}},
		Spec: appsv1.StatefulSetSpec{
			Replicas:    replicas(node),
			ServiceName: ChildName(node, "-headless"),
			Selector:    &metav1.LabelSelector{MatchLabels: map[string]string{"stellar.org/instance": node.Name}},
			Template:    tmpl,
		},
	}
}

// BuildDeployment computes the desired Deployment for ApiGateway/ContractRpc nodes.
func BuildDeployment(node *stellarv1alpha1.StellarNode) *appsv1.Deployment {
	labels := ChildLabels(node)
	return &appsv1.Deployment{
		TypeMeta:   metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{Name: node.Name, Namespace: node.Namespace, Labels: labels, OwnerReferences: []metav1.OwnerReference{OwnerReference(node)}},
		Spec: appsv1.DeploymentSpec{
			Replicas: replicas(node),
			Selector: &metav1.LabelSelector{MatchLabels: map[string]string{"stellar.org/instance": node.Name}},
			Template: podTemplate(node),
		},
	}
}

// Ensure materialises the workload child via server-side apply.
func (r *WorkloadReconciler) Ensure(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	if node.IsValidator() {
		return Apply(ctx, r.Client, node, BuildStatefulSet(node), "StatefulSet")
	}
	return Apply(ctx, r.Client, node, BuildDeployment(node), "Deployment")
}

// Delete removes the workload child, treating "not found" as success.
func (r *WorkloadReconciler) Delete(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	if node.IsValidator() {
		obj := &appsv1.StatefulSet{ObjectMeta: metav1.ObjectMeta{Name: node.Name, Namespace: node.Namespace}}
		return Delete(ctx, r.Client, node, obj, "StatefulSet")
	}
	obj := &appsv1.Deployment{ObjectMeta: metav1.ObjectMeta{Name: node.Name, Namespace: node.Namespace}}
	return Delete(ctx, r.Client, node, obj, "Deployment")
}

// ReadyReplicas reads back the live workload's ready replica count (spec §4.12 step 14).
func ReadyReplicas(ctx context.Context, c client.Client, node *stellarv1alpha1.StellarNode) (int32, error) {
	if node.IsValidator() {
		var sts appsv1.StatefulSet
		if err := c.Get(ctx, client.ObjectKey{Namespace: node.Namespace, Name: node.Name}, &sts); err != nil {
			return 0, client.IgnoreNotFound(err)
		}
		return sts.Status.ReadyReplicas, nil
	}
	var dep appsv1.Deployment
	if err := c.Get(ctx, client.ObjectKey{Namespace: node.Namespace, Name: node.Name}, &dep); err != nil {
		return 0, client.IgnoreNotFound(err)
	}
	return dep.Status.ReadyReplicas, nil
}
