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
	"fmt"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/constants"
)

// DatabaseReconciler provisions the managed-database PVC for horizon/
// soroban-rpc ingestion state, and runs a one-shot migration Job when
// ManagedDatabaseSpec.MigrationSource is set and no migration Job exists yet;
// changing MigrationSource does not re-run it (a supplemented feature from
// original_source/; the distilled spec only mentions ExternalDatabase).
type DatabaseReconciler struct {
	Client   client.Client
	Recorder record_EventRecorder
}

func (r *DatabaseReconciler) pvcName(node *stellarv1alpha1.StellarNode) string {
	return ChildName(node, "-db")
}

func (r *DatabaseReconciler) migrationJobName(node *stellarv1alpha1.StellarNode) string {
	return ChildName(node, "-db-migrate")
}

func buildDatabaseClaim(node *stellarv1alpha1.StellarNode) *corev1.PersistentVolumeClaim {
	size := node.Spec.ManagedDatabase.StorageSize
	if size == "" {
		size = "20Gi"
	}
	return &corev1.PersistentVolumeClaim{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "PersistentVolumeClaim"},
		ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-db"), Namespace: node.Namespace, Labels: ChildLabels(node), OwnerReferences: []metav1.OwnerReference{OwnerReference(node)}},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{corev1.ResourceStorage: resource.MustParse(size)},
			},
		},
	}
}

func buildMigrationJob(node *stellarv1alpha1.StellarNode) *batchv1.Job {
	backoff := int32(1)
	return &batchv1.Job{
		TypeMeta:   metav1.TypeMeta{APIVersion: "batch/v1", Kind: "Job"},
		ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-db-migrate"), Namespace: node.Namespace, Labels: ChildLabels(node), OwnerReferences: []metav1.OwnerReference{OwnerReference(node)}},
		Spec: batchv1.JobSpec{
			BackoffLimit: &backoff,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: ChildLabels(node)},
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					Containers: []corev1.Container{
						{
							Name:  "db-migrate",
							Image: image(node),
							Args:  []string{"db", "migrate", "--source", node.Spec.ManagedDatabase.MigrationSource},
						},
					},
				},
			},
		},
	}
}

// Ensure provisions the database PVC and, when a MigrationSource is set and
// no migration Job yet exists for it, runs the migration.
func (r *DatabaseReconciler) Ensure(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	if node.Spec.ManagedDatabase == nil || !node.Spec.ManagedDatabase.Enabled {
		return r.Delete(ctx, node)
	}
	if err := Apply(ctx, r.Client, node, buildDatabaseClaim(node), "PersistentVolumeClaim"); err != nil {
		return err
	}
	if node.Spec.ManagedDatabase.MigrationSource == "" {
		return nil
	}

	job := buildMigrationJob(node)
	var existing batchv1.Job
	err := r.Client.Get(ctx, client.ObjectKey{Namespace: job.Namespace, Name: job.Name}, &existing)
	if err == nil {
		if existing.Status.Failed > 0 && r.Recorder != nil {
			r.Recorder.Eventf(node, "Warning", constants.EventDatabaseMigrationReq, "migration job %s failed, manual intervention required", job.Name)
		}
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return fmt.Errorf("get migration job for %s/%s: %w", node.Namespace, node.Name, err)
	}
	if r.Recorder != nil {
		r.Recorder.Eventf(node, "Normal", constants.EventDatabaseMigrationReq, "starting migration job %s", job.Name)
	}
	return Apply(ctx, r.Client, node, job, "Job")
}

func (r *DatabaseReconciler) Delete(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	pvc := &corev1.PersistentVolumeClaim{ObjectMeta: metav1.ObjectMeta{Name: r.pvcName(node), Namespace: node.Namespace}}
	return Delete(ctx, r.Client, node, pvc, "PersistentVolumeClaim")
}
