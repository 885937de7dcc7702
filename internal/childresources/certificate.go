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

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/interfaces"
)

// CertificateReconciler ensures the mTLS client-certificate Secret child
// (spec §3.4, §4 mesh supplement), delegating issuance and rotation
// decisions to a CertificateAuthority collaborator (§1 out of scope).
type CertificateReconciler struct {
	Client client.Client
	CA     interfaces.CertificateAuthority
}

func (r *CertificateReconciler) secretName(node *stellarv1alpha1.StellarNode) string {
	return ChildName(node, "-tls")
}

// Ensure issues a fresh certificate on first reconcile, or whenever CA
// reports the existing one needs rotation; otherwise it is a no-op.
func (r *CertificateReconciler) Ensure(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	if node.Spec.Mesh == nil || !node.Spec.Mesh.Enabled {
		return nil
	}

	var existing corev1.Secret
	err := r.Client.Get(ctx, client.ObjectKey{Namespace: node.Namespace, Name: r.secretName(node)}, &existing)
	if client.IgnoreNotFound(err) != nil {
		return err
	}

	needsRotation := apierrors.IsNotFound(err)
	if !needsRotation {
		needsRotation, err = r.CA.NeedsRotation(ctx, node, &existing)
		if err != nil {
			return fmt.Errorf("check certificate rotation for %s/%s: %w", node.Namespace, node.Name, err)
		}
	}
	if !needsRotation {
		return nil
	}

	certPEM, keyPEM, expiresAt, err := r.CA.IssueCertificate(ctx, node)
	if err != nil {
		return fmt.Errorf("issue certificate for %s/%s: %w", node.Namespace, node.Name, err)
	}

	secret := &corev1.Secret{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      r.secretName(node),
			Namespace: node.Namespace,
			Labels:    ChildLabels(node),
			Annotations: map[string]string{
				"stellar.org/cert-expires-at": expiresAt.UTC().Format("2006-01-02T15:04:05Z"),
			},
			OwnerReferences: []metav1.OwnerReference{OwnerReference(node)},
		},
		Type: corev1.SecretTypeTLS,
		Data: map[string][]byte{
			corev1.TLSCertKey:       certPEM,
			corev1.TLSPrivateKeyKey: keyPEM,
		},
	}
	return Apply(ctx, r.Client, node, secret, "Secret")
}

func (r *CertificateReconciler) Delete(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	obj := &corev1.Secret{ObjectMeta: metav1.ObjectMeta{Name: r.secretName(node), Namespace: node.Namespace}}
	return Delete(ctx, r.Client, node, obj, "Secret")
}
