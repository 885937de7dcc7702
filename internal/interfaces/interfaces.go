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

package interfaces

import (
	"context"
	"time"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
)

// HealthState is the synchronisation state a BlockchainProbe reports for a
// single pod, as defined by the (out of scope) protocol client contract.
type HealthState string

const (
	HealthSynced      HealthState = "Synced"
	HealthCatchingUp  HealthState = "CatchingUp"
	HealthUnknownSync HealthState = "Unknown"
)

// ProbeResult is what one pod's info-endpoint probe returns.
type ProbeResult struct {
	Reachable      bool
	State          HealthState
	LedgerSequence *uint64
	// NearTip is true when State==CatchingUp but within protocol-defined
	// distance of the network tip (spec §4.5 "CatchingUp-near-tip").
	NearTip bool
	Message string
}

// BlockchainProbe is the narrow interface the health prober (C5) consumes.
// Implementations speak whatever the underlying Stellar software's info
// endpoint protocol is; the engine never parses protocol bytes itself.
type BlockchainProbe interface {
	Probe(ctx context.Context, podIP string, timeout time.Duration) (ProbeResult, error)
}

// CertificateAuthority issues and rotates the mTLS client certificate secret
// for a StellarNode. The engine issues when the Secret is missing or when
// NeedsRotation reports an existing one as due; key generation, signing and
// the rotation decision itself are delegated here.
type CertificateAuthority interface {
	IssueCertificate(ctx context.Context, node *stellarv1alpha1.StellarNode) (certPEM, keyPEM []byte, expiresAt time.Time, err error)
	NeedsRotation(ctx context.Context, node *stellarv1alpha1.StellarNode, secret *corev1.Secret) (bool, error)
}

// SecretMaterialiser fetches cloud-specific secret material (e.g. managed
// database credentials, KMS-wrapped keys) and renders it into a Kubernetes
// Secret the child-resource reconcilers can reference.
type SecretMaterialiser interface {
	Materialise(ctx context.Context, node *stellarv1alpha1.StellarNode, ref string) (map[string][]byte, error)
}

// PeerClusterProbe is consumed by the DR controller (C11) to determine
// whether a remote cluster (identified by its configured endpoint) is
// reachable and, when PeerTracking is in effect, what ledger it has reached.
type PeerClusterProbe interface {
	Probe(ctx context.Context, endpoint string, timeout time.Duration) (reachable bool, ledger *uint64, err error)
}

// DNSMutator switches an external DNS record to point at this cluster during
// a DR failover (C11 step 3). The engine never talks to a DNS provider API
// directly.
type DNSMutator interface {
	PointAt(ctx context.Context, hostname, target string) error
}

// ImageScanner is the out-of-scope collaborator the CVE handler (C10) calls
// to discover vulnerabilities in the currently-running image (§6.7).
type ImageScanner interface {
	Scan(ctx context.Context, imageRef string) ([]Vulnerability, error)
}

// Severity is the normalised vulnerability severity enum (§6.7).
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
	SeverityUnknown  Severity = "Unknown"
)

// Vulnerability is one normalised finding from an ImageScanner.
type Vulnerability struct {
	ID               string
	Severity         Severity
	Package          string
	InstalledVersion string
	FixedVersion     string
}

// CarbonIntensitySource reports the current grid carbon intensity for a
// region, consulted (not blocking) by the rollout controller (C9) and CVE
// handler (C10) before triggering a non-urgent canary or image roll.
type CarbonIntensitySource interface {
	CurrentIntensity(ctx context.Context, regionCode string) (gCO2PerKWh int32, err error)
}

// DesiredStateBuilder computes the desired child object for one kind from a
// validated StellarNode. No type in this module implements it: the
// reconcilers in internal/childresources build their desired objects with
// package-level functions (BuildDeployment, buildHPA and the like) and apply
// them via server-side apply (C4) directly.
type DesiredStateBuilder[T client.Object] interface {
	Build(node *stellarv1alpha1.StellarNode) (T, error)
}
