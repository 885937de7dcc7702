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
Package controller implements the Kubernetes controller for StellarNode
resources.

# Overview

StellarNodeReconciler watches StellarNode custom resources and drives every
child workload a Stellar validator, API gateway, or contract-RPC node needs:
storage, configuration, certificates, the workload itself, service exposure,
autoscaling, disruption budgets, and the health/archive/peer/remediation/
rollout/CVE/DR state machines layered on top of it.

# Reconciliation Flow

1. Leadership gate: a follower backs off without touching the API server.
2. Fetch the StellarNode; handle deletion via the finalizer guard.
3. Ensure the finalizer is present before any child resource is created.
4. Validate the spec; a failing validation is terminal until the generation
   changes.
5. Ensure foundational resources: storage, core config, certificates, managed
   database, snapshot pull Job.
6. Short-circuit into the suspended/maintenance path when set.
7. Run the lightweight archive startup check and VSL quorum fetch for
   validators with history archives configured.
8. Run the full hourly archive integrity scan.
9. Ensure the workload and its dependants, delegating to the canary rollout
   controller once a stable Deployment already exists.
10. Run the blockchain health probe, then the snapshot push Job once synced.
11. Run the CVE sub-state machine, mutually exclusive with an active canary.
12. Refresh peer discovery when a validator becomes ready.
13. Run the disaster-recovery pass.
14. Run the remediation escalator and apply its verdict.
15. Patch status and decide the next requeue interval.

# Predicates

Event filtering is implemented in predicates.go: generation-change and
deletion-timestamp predicates for the StellarNode itself, and a
resource-version-without-generation-change predicate for owned children so
the operator's own server-side-apply writes never retrigger themselves.

# Events

Kubernetes events emitted (internal/constants holds the full vocabulary):
  - Warning/SpecValidationFailed
  - Warning/ArchiveHealthCheckFailed, Warning/ArchiveIntegrityDegraded
  - Warning/VSLFetchFailed
  - Warning/CanaryRollbackTriggered

# RBAC

See the kubebuilder markers above StellarNodeReconciler in
stellarnode_controller.go.

# Integration Points

Integrates with internal/childresources, internal/health, internal/archive,
internal/peers, internal/remediation, internal/rollout, internal/cve,
internal/dr and internal/vsl; none of those packages import this one.
*/
package controller
