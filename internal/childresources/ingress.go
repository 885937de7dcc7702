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
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
)

// IngressReconciler ensures/deletes the Ingress child exposing ApiGateway and
// ContractRpc HTTP endpoints (spec §3.4). Never created for Validators,
// whose peer protocol is not HTTP and must never be internet-facing.
type IngressReconciler struct {
	Client client.Client
}

func ingressPathType(t stellarv1alpha1.IngressPathType) networkingv1.PathType {
	if t == stellarv1alpha1.IngressPathExact {
		pt := networkingv1.PathTypeExact
		return pt
	}
	pt := networkingv1.PathTypePrefix
	return pt
}

func buildIngress(node *stellarv1alpha1.StellarNode) *networkingv1.Ingress {
	spec := node.Spec.Ingress
	var rules []networkingv1.IngressRule
	var tlsHosts []string

	for _, h := range spec.Hosts {
		var paths []networkingv1.HTTPIngressPath
		for _, p := range h.Paths {
			pt := ingressPathType(p.PathType)
			paths = append(paths, networkingv1.HTTPIngressPath{
				Path:     p.Path,
				PathType: &pt,
				Backend: networkingv1.IngressBackend{
					Service: &networkingv1.IngressServiceBackend{
						Name: node.Name,
						Port: networkingv1.ServiceBackendPort{Name: "http"},
					},
				},
			})
		}
		rules = append(rules, networkingv1.IngressRule{
			Host: h.Host,
			IngressRuleValue: networkingv1.IngressRuleValue{
				HTTP: &networkingv1.HTTPIngressRuleValue{Paths: paths},
			},
		})
		tlsHosts = append(tlsHosts, h.Host)
	}

	ing := &networkingv1.Ingress{
		TypeMeta: metav1.TypeMeta{APIVersion: "networking.k8s.io/v1", Kind: "Ingress"},
		ObjectMeta: metav1.ObjectMeta{
			Name:            ChildName(node, "-ingress"),
			Namespace:       node.Namespace,
			Labels:          ChildLabels(node),
			Annotations:     spec.AnnotationsRaw,
			OwnerReferences: []metav1.OwnerReference{OwnerReference(node)},
		},
		Spec: networkingv1.IngressSpec{
			Rules: rules,
		},
	}
	if spec.ClassName != "" {
		ing.Spec.IngressClassName = &spec.ClassName
	}
	if spec.TLSSecretName != "" && len(tlsHosts) > 0 {
		ing.Spec.TLS = []networkingv1.IngressTLS{{Hosts: tlsHosts, SecretName: spec.TLSSecretName}}
	}
	return ing
}

func (r *IngressReconciler) Ensure(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	if node.Spec.Ingress == nil || !node.Spec.Ingress.Enabled || node.IsValidator() {
		return r.Delete(ctx, node)
	}
	return Apply(ctx, r.Client, node, buildIngress(node), "Ingress")
}

func (r *IngressReconciler) Delete(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	obj := &networkingv1.Ingress{ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-ingress"), Namespace: node.Namespace}}
	return Delete(ctx, r.Client, node, obj, "Ingress")
}
