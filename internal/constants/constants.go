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

// Package constants collects the label, annotation and event-reason
// vocabulary used across the operator so that every package spells them
// identically.
package constants

const (
	// FinalizerName is the sentinel string this operator adds to every
	// StellarNode it reconciles (C2).
	FinalizerName = "stellar.org/operator-finalizer"

	// FieldManager is the server-side apply field manager name used by every
	// child-resource reconciler (C4).
	FieldManager = "stellar-operator"

	LabelNodeType    = "stellar.org/node-type"
	LabelInstance    = "stellar.org/instance"
	LabelManagedBy   = "app.kubernetes.io/managed-by"
	ManagedByValue   = "stellar-operator"
	LabelCanaryRole  = "stellar.org/rollout-role"

	ControllerInstanceLabelKey = "stellar.org/controller-instance"
)

// Annotation keys used as persistent engine state (spec §3.3).
const (
	AnnotationLastObservedLedger   = "stellar.org/last-observed-ledger"
	AnnotationLastLedgerUpdateTime = "stellar.org/last-ledger-update-time"
	AnnotationRemediationLevel     = "stellar.org/remediation-level"
	AnnotationLastRemediationTime  = "stellar.org/last-remediation-time"
	AnnotationArchiveHealthRetries = "stellar.org/archive-health-retries"

	AnnotationCanaryVersion   = "stellar.org/canary-version"
	AnnotationCanaryStart     = "stellar.org/canary-start-time"
	AnnotationCanaryStatus    = "stellar.org/canary-status"

	AnnotationCVEPhase        = "stellar.org/cve-phase"
	AnnotationCVEPatchedImage = "stellar.org/cve-patched-image"
	AnnotationCVELastScan     = "stellar.org/cve-last-scan-time"
	AnnotationCVEBaseline     = "stellar.org/cve-baseline"
	AnnotationCVERollbackTo   = "stellar.org/cve-rollback-to"
	AnnotationCVERollbackWhy  = "stellar.org/cve-rollback-reason"

	AnnotationDRFailoverActive = "stellar.org/dr-failover-active"
	AnnotationDRCurrentRole    = "stellar.org/dr-current-role"
)

// Event reasons (spec §6.2). Fixed vocabulary — do not invent new ones.
const (
	EventSpecValidationFailed    = "SpecValidationFailed"
	EventArchiveHealthCheckFail  = "ArchiveHealthCheckFailed"
	EventArchiveIntegrityDegrade = "ArchiveIntegrityDegraded"
	EventVSLFetchFailed          = "VSLFetchFailed"
	EventDatabaseMigrationReq    = "DatabaseMigrationRequired"
	EventCanaryRollbackTriggered = "CanaryRollbackTriggered"
	EventOciSnapshotPushFailed   = "OciSnapshotPushFailed"
	EventOciSnapshotPullFailed   = "OciSnapshotPullFailed"
	EventLedgerRegression        = "LedgerRegression"

	EventWouldCreate = "WouldCreate"
	EventWouldUpdate = "WouldUpdate"
	EventWouldDelete = "WouldDelete"
)

// Remediation levels (C8, spec glossary).
const (
	RemediationNone             = 0
	RemediationRestartPod       = 1
	RemediationWipeAndResync    = 2
)

// Child-resource name suffixes (deterministic naming, spec §3.4/§4.4).
const (
	SuffixHeadlessService = "-headless"
	SuffixStableService   = ""
	SuffixConfigMap       = "-config"
	SuffixStorage         = "-data"
	SuffixCertificate     = "-tls"
	SuffixDisruptionBudget = "-pdb"
	SuffixAutoscaler      = "-hpa"
	SuffixIngress         = "-ingress"
	SuffixMesh            = "-mesh"
	SuffixReadReplica     = "-replica"
	SuffixCanary          = "-canary"
	SuffixCVECanary       = "-cve-canary"
	SuffixSnapshotPush    = "-snapshot-push"
	SuffixSnapshotPull    = "-snapshot-pull"
)
