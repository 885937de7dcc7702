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

package protocol

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/interfaces"
)

// LoggingDNSMutator is the default DNSMutator: it logs the DNS change a real
// failover would make rather than calling a provider API. No DNS or cloud
// SDK appears anywhere in this project's dependency set, so the engine ships
// with no provider wired in; a cluster operator compiles in its own
// PointAt implementation against whatever provider it uses (Route53, Cloud
// DNS, etc.) following interfaces.DNSMutator.
type LoggingDNSMutator struct{}

func (LoggingDNSMutator) PointAt(ctx context.Context, hostname, target string) error {
	logf.FromContext(ctx).Info("DR failover would repoint DNS record", "hostname", hostname, "target", target)
	return nil
}

// LoggingImageScanner is the default ImageScanner: it reports no findings.
// The CVE handler (C10) calls Scan directly on each due scan; with this stub
// every scan comes back empty, so the state machine runs without a scanner
// wired in but never starts a CVE canary.
type LoggingImageScanner struct{}

func (LoggingImageScanner) Scan(ctx context.Context, imageRef string) ([]interfaces.Vulnerability, error) {
	logf.FromContext(ctx).V(1).Info("image scan requested with no scanner configured", "image", imageRef)
	return nil, nil
}

// LoggingCarbonIntensitySource always reports an intensity of -1, a sentinel
// the rollout and CVE controllers treat as "no carbon signal available" and
// ignore rather than block on.
type LoggingCarbonIntensitySource struct{}

func (LoggingCarbonIntensitySource) CurrentIntensity(ctx context.Context, regionCode string) (int32, error) {
	return -1, nil
}

// UnavailableCertificateAuthority reports every rotation check as "not due"
// and refuses to issue. A real deployment wires in a CertificateAuthority
// backed by its own internal CA or cert-manager; running with this stub is
// only valid for StellarNodes whose Spec.Mesh is unset or disabled.
type UnavailableCertificateAuthority struct{}

func (UnavailableCertificateAuthority) IssueCertificate(ctx context.Context, node *stellarv1alpha1.StellarNode) ([]byte, []byte, time.Time, error) {
	return nil, nil, time.Time{}, fmt.Errorf("no CertificateAuthority configured for this manager")
}

func (UnavailableCertificateAuthority) NeedsRotation(ctx context.Context, node *stellarv1alpha1.StellarNode, secret *corev1.Secret) (bool, error) {
	return false, nil
}

// UnavailableSecretMaterialiser refuses every request. No reconciler in this
// module calls a SecretMaterialiser; ExternalDatabaseSpec.ConnectionRef names
// an existing Kubernetes Secret and is not passed through one.
type UnavailableSecretMaterialiser struct{}

func (UnavailableSecretMaterialiser) Materialise(ctx context.Context, node *stellarv1alpha1.StellarNode, ref string) (map[string][]byte, error) {
	return nil, fmt.Errorf("no SecretMaterialiser configured for reference %q", ref)
}
