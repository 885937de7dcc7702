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

	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/constants"
)

// MeshReconciler ensures/deletes the peer-to-peer mTLS NetworkPolicy child:
// the validator peering firewall. It restricts peer-port ingress/egress to
// other members of the same trust domain, identified by the
// constants.LabelNodeType=Validator selector.
type MeshReconciler struct {
	Client client.Client
}

func buildMeshPolicy(node *stellarv1alpha1.StellarNode) *networkingv1.NetworkPolicy {
	peerPort := intstr.FromInt(11625)
	trustDomainSelector := metav1.LabelSelector{
		MatchLabels: map[string]string{
			constants.LabelNodeType:  string(stellarv1alpha1.NodeTypeValidator),
			constants.LabelManagedBy: constants.ManagedByValue,
		},
	}
	return &networkingv1.NetworkPolicy{
		TypeMeta:   metav1.TypeMeta{APIVersion: "networking.k8s.io/v1", Kind: "NetworkPolicy"},
		ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-mesh"), Namespace: node.Namespace, Labels: ChildLabels(node), OwnerReferences: []metav1.OwnerReference{OwnerReference(node)}},
		Spec: networkingv1.NetworkPolicySpec{
			PodSelector: metav1.LabelSelector{MatchLabels: map[string]string{"stellar.org/instance": node.Name}},
			PolicyTypes: []networkingv1.PolicyType{networkingv1.PolicyTypeIngress, networkingv1.PolicyTypeEgress},
			Ingress: []networkingv1.NetworkPolicyIngressRule{{
				From:  []networkingv1.NetworkPolicyPeer{{PodSelector: &trustDomainSelector}},
				Ports: []networkingv1.NetworkPolicyPort{{Port: &peerPort}},
			}},
			Egress: []networkingv1.NetworkPolicyEgressRule{{
				To:    []networkingv1.NetworkPolicyPeer{{PodSelector: &trustDomainSelector}},
				Ports: []networkingv1.NetworkPolicyPort{{Port: &peerPort}},
			}},
		},
	}
}

func (r *MeshReconciler) Ensure(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	if node.Spec.Mesh == nil || !node.Spec.Mesh.Enabled || !node.IsValidator() {
		return r.Delete(ctx, node)
	}
	return Apply(ctx, r.Client, node, buildMeshPolicy(node), "NetworkPolicy")
}

func (r *MeshReconciler) Delete(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	obj := &networkingv1.NetworkPolicy{ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-mesh"), Namespace: node.Namespace}}
	return Delete(ctx, r.Client, node, obj, "NetworkPolicy")
}
