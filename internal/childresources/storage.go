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
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
)

// StorageReconciler ensures/deletes the PersistentVolumeClaim child (spec §3.4).
// PVCs are immutable in most fields after creation; Ensure only creates, it
// never attempts to mutate an existing claim's size downward.
type StorageReconciler struct {
	Client client.Client
}

func buildClaim(node *stellarv1alpha1.StellarNode) *corev1.PersistentVolumeClaim {
	size := node.Spec.Storage.Size
	if size == "" {
		size = "10Gi"
	}
	pvc := &corev1.PersistentVolumeClaim{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "PersistentVolumeClaim"},
		ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-data"), Namespace: node.Namespace, Labels: ChildLabels(node), OwnerReferences: []metav1.OwnerReference{OwnerReference(node)}},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{corev1.ResourceStorage: resource.MustParse(size)},
			},
		},
	}
	if node.Spec.Storage.StorageClass != "" {
		pvc.Spec.StorageClassName = &node.Spec.Storage.StorageClass
	}
	return pvc
}

func (r *StorageReconciler) Ensure(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	desired := buildClaim(node)
	var existing corev1.PersistentVolumeClaim
	err := r.Client.Get(ctx, client.ObjectKey{Namespace: desired.Namespace, Name: desired.Name}, &existing)
	if client.IgnoreNotFound(err) != nil {
		return err
	}
	if err == nil {
		// Already exists: PVC resize (if allowed by the storage class) is a
		// spec.resources.requests patch, never a full server-side apply that
		// would attempt to rewrite immutable fields.
		return nil
	}
	return Apply(ctx, r.Client, node, desired, "PersistentVolumeClaim")
}

func (r *StorageReconciler) Delete(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	if node.Spec.Storage.RetentionPolicy == "Retain" {
		return nil
	}
	obj := &corev1.PersistentVolumeClaim{ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-data"), Namespace: node.Namespace}}
	return Delete(ctx, r.Client, node, obj, "PersistentVolumeClaim")
}
