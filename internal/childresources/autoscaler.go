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

	autoscalingv2 "k8s.io/api/autoscaling/v2"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
)

// AutoscalerReconciler ensures/deletes the HorizontalPodAutoscaler child
// (spec §3.4). Never created for Validators: a validator's identity is tied
// to its quorum-set key, so horizontal scaling of validators is meaningless
// and the spec validator (C3) rejects Autoscaling on a Validator node.
type AutoscalerReconciler struct {
	Client client.Client
}

func buildHPA(node *stellarv1alpha1.StellarNode) *autoscalingv2.HorizontalPodAutoscaler {
	as := node.Spec.Autoscaling
	target := autoscalingv2.CrossVersionObjectReference{
		APIVersion: "apps/v1",
		Kind:       "Deployment",
		Name:       node.Name,
	}
	utilization := as.TargetCPUUtilizationPercentage
	if utilization == 0 {
		utilization = 75
	}
	return &autoscalingv2.HorizontalPodAutoscaler{
		TypeMeta:   metav1.TypeMeta{APIVersion: "autoscaling/v2", Kind: "HorizontalPodAutoscaler"},
		ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-hpa"), Namespace: node.Namespace, Labels: ChildLabels(node), OwnerReferences: []metav1.OwnerReference{OwnerReference(node)}},
		Spec: autoscalingv2.HorizontalPodAutoscalerSpec{
			ScaleTargetRef: target,
			MinReplicas:    &as.MinReplicas,
			MaxReplicas:    as.MaxReplicas,
			Metrics: []autoscalingv2.MetricSpec{
				{
					Type: autoscalingv2.ResourceMetricSourceType,
					Resource: &autoscalingv2.ResourceMetricSource{
						Name: "cpu",
						Target: autoscalingv2.MetricTarget{
							Type:               autoscalingv2.UtilizationMetricType,
							AverageUtilization: &utilization,
						},
					},
				},
			},
		},
	}
}

func (r *AutoscalerReconciler) Ensure(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	if node.Spec.Autoscaling == nil || !node.Spec.Autoscaling.Enabled || node.IsValidator() {
		return r.Delete(ctx, node)
	}
	return Apply(ctx, r.Client, node, buildHPA(node), "HorizontalPodAutoscaler")
}

func (r *AutoscalerReconciler) Delete(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	obj := &autoscalingv2.HorizontalPodAutoscaler{ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-hpa"), Namespace: node.Namespace}}
	return Delete(ctx, r.Client, node, obj, "HorizontalPodAutoscaler")
}
