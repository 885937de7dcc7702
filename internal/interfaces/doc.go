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

/*
Package interfaces collects the narrow contracts the reconciliation engine
depends on but never implements itself: probing the blockchain node's own
info endpoint, issuing mTLS certificates, materialising cloud-specific
secrets, probing a remote DR peer cluster, mutating an external DNS record,
scanning a running image for vulnerabilities, and reading a carbon-intensity
feed. Every state machine in internal/controller, internal/rollout,
internal/cve, and internal/dr depends on these interfaces, never on a
concrete implementation — concrete implementations are constructed once in
cmd/manager/main.go (internal/protocol's HTTP-based and stub defaults) and
handed in through each reconciler's struct fields.

# Why these are interfaces and not direct calls

Each contract here crosses a boundary this operator declares out of scope:
the wire protocol a Stellar node's info endpoint speaks, the internals of
certificate issuance, a given cloud provider's secret store, a DNS
provider's API, an image-scanning service, and a carbon-intensity feed.
Keeping them behind interfaces means a cluster operator can swap in a real
implementation of any one of them without touching the reconciliation logic
that decides *when* to call it.

# Core interfaces

BlockchainProbe is what the health prober (C5) and the rollout controller's
canary evaluation (C9) call to learn a pod's sync state:

	type BlockchainProbe interface {
		Probe(ctx context.Context, podIP string, timeout time.Duration) (ProbeResult, error)
	}

CertificateAuthority backs the certificate reconciler (C4).
SecretMaterialiser describes rendering cloud-managed secret material into a
Kubernetes Secret; no reconciler in this module calls it.

PeerClusterProbe and DNSMutator back the disaster-recovery controller (C11):
the former determines whether a remote cluster is reachable and how far its
ledger has progressed, the latter repoints a failover DNS record once a
standby has been promoted to primary.

ImageScanner backs the CVE handler (C10): it discovers vulnerabilities in
the currently-running image and returns normalised Vulnerability findings.

CarbonIntensitySource backs internal/carbon's scheduling window, consulted
(never blocking) by C9 and C10 before starting a new non-urgent rollout
step.

DesiredStateBuilder[T] is a generic contract for a pure function from a
validated StellarNode to the one child object of kind T that should exist.
The builders in internal/childresources are plain package-level functions
and do not implement it.

# Implementation flexibility

Any type satisfying one of these interfaces is a valid collaborator. A test
can supply a fake that returns canned responses; a production deployment
wires real ones in cmd/manager/main.go. internal/protocol's HTTP-based
BlockchainProbe/PeerClusterProbe and its logging-only or refusal-returning
defaults for the remaining five are the shipped defaults, not a mandate —
an operator may replace any of them.

# Versioning

These interfaces are internal and may change between releases. The public
API surface is api/v1alpha1.
*/
package interfaces
