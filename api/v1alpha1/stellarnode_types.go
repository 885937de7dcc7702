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

package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NodeType discriminates the kind of Stellar infrastructure a StellarNode represents.
// +kubebuilder:validation:Enum=Validator;ApiGateway;ContractRpc
type NodeType string

const (
	NodeTypeValidator   NodeType = "Validator"
	NodeTypeApiGateway  NodeType = "ApiGateway"
	NodeTypeContractRpc NodeType = "ContractRpc"
)

// Network identifies the target Stellar network passphrase.
type Network struct {
	// Name selects one of the well-known networks, or Custom to use Passphrase.
	// +kubebuilder:validation:Enum=Mainnet;Testnet;Futurenet;Custom
	Name string `json:"name"`

	// Passphrase is required when Name is Custom.
	// +optional
	Passphrase string `json:"passphrase,omitempty"`
}

// RolloutStrategyKind selects the progressive-delivery strategy for this node.
// +kubebuilder:validation:Enum=Rolling;Canary
type RolloutStrategyKind string

const (
	RolloutStrategyRolling RolloutStrategyKind = "Rolling"
	RolloutStrategyCanary  RolloutStrategyKind = "Canary"
)

// RolloutStrategy describes how a software-version change is applied.
type RolloutStrategy struct {
	Kind RolloutStrategyKind `json:"kind,omitempty"`

	// CheckIntervalSeconds is how long a canary is held before evaluation.
	// +kubebuilder:default=300
	CheckIntervalSeconds int32 `json:"checkIntervalSeconds,omitempty"`
}

// AutoscalingSpec enables a HorizontalPodAutoscaler child for ApiGateway/ContractRpc nodes.
type AutoscalingSpec struct {
	Enabled bool `json:"enabled,omitempty"`
	// +kubebuilder:validation:Minimum=1
	MinReplicas int32 `json:"minReplicas,omitempty"`
	// +kubebuilder:validation:Minimum=1
	MaxReplicas int32 `json:"maxReplicas,omitempty"`
	// TargetCPUUtilizationPercentage is the average CPU utilization target.
	TargetCPUUtilizationPercentage int32 `json:"targetCPUUtilizationPercentage,omitempty"`
}

// IngressPathType mirrors networking.k8s.io/v1 PathType, restricted to the two
// values this operator supports.
// +kubebuilder:validation:Enum=Prefix;Exact
type IngressPathType string

const (
	IngressPathPrefix IngressPathType = "Prefix"
	IngressPathExact  IngressPathType = "Exact"
)

type IngressPath struct {
	Path     string          `json:"path"`
	PathType IngressPathType `json:"pathType"`
}

type IngressHost struct {
	Host  string        `json:"host"`
	Paths []IngressPath `json:"paths"`
}

// IngressSpec enables an Ingress child for ApiGateway/ContractRpc nodes.
type IngressSpec struct {
	Enabled        bool          `json:"enabled,omitempty"`
	ClassName      string        `json:"className,omitempty"`
	Hosts          []IngressHost `json:"hosts,omitempty"`
	TLSSecretName  string        `json:"tlsSecretName,omitempty"`
	AnnotationsRaw map[string]string `json:"annotations,omitempty"`
}

// DRSyncStrategy selects how a standby cluster tracks the primary.
// +kubebuilder:validation:Enum=PeerTracking;ArchiveSync;Consensus
type DRSyncStrategy string

const (
	DRSyncPeerTracking DRSyncStrategy = "PeerTracking"
	DRSyncArchiveSync  DRSyncStrategy = "ArchiveSync"
	DRSyncConsensus    DRSyncStrategy = "Consensus"
)

// DRRole is the cluster's role in a disaster-recovery pair.
// +kubebuilder:validation:Enum=Primary;Standby
type DRRole string

const (
	DRRolePrimary DRRole = "Primary"
	DRRoleStandby DRRole = "Standby"
)

// DRPeerCluster describes one remote cluster this node can fail over to/from.
type DRPeerCluster struct {
	ID       string `json:"id"`
	Endpoint string `json:"endpoint"`

	// HealthCheckIntervalSeconds is validated against the timeout and
	// defaulted by the webhook; the DR controller probes the peer once per
	// reconcile pass and does not read this value.
	HealthCheckIntervalSeconds int32 `json:"healthCheckIntervalSeconds,omitempty"`
	// HealthCheckTimeoutSeconds must be less than HealthCheckIntervalSeconds.
	HealthCheckTimeoutSeconds int32 `json:"healthCheckTimeoutSeconds,omitempty"`
	// FailureThreshold must be at least 1. The DR controller does not count
	// consecutive failures: one failed probe marks the peer unreachable.
	FailureThreshold int32 `json:"failureThreshold,omitempty"`
	// SuccessThreshold must be at least 1. The DR controller does not count
	// consecutive successes: one successful probe marks the peer reachable.
	SuccessThreshold int32 `json:"successThreshold,omitempty"`
}

// DisasterRecoverySpec enables cross-cluster failover coordination (C11).
type DisasterRecoverySpec struct {
	Enabled      bool            `json:"enabled,omitempty"`
	Role         DRRole          `json:"role,omitempty"`
	SyncStrategy DRSyncStrategy  `json:"syncStrategy,omitempty"`
	PeerClusters []DRPeerCluster `json:"peerClusters,omitempty"`

	// FailoverDNSHostname is mutated by the DNSMutator collaborator on failover.
	FailoverDNSHostname string `json:"failoverDNSHostname,omitempty"`
}

// CarbonAwareSpec defers starting a new canary rollout or CVE scan to
// low-carbon windows. Remediation actions are not deferred.
type CarbonAwareSpec struct {
	Enabled bool `json:"enabled,omitempty"`
	// RegionCode identifies the carbon-intensity feed region to consult.
	RegionCode string `json:"regionCode,omitempty"`
	// MaxIntensityGCO2PerKWh is defaulted by the webhook. The carbon window
	// compares against its own process-wide threshold and does not read
	// this per-node value.
	MaxIntensityGCO2PerKWh int32 `json:"maxIntensityGCO2PerKWh,omitempty"`
}

// CVESpec enables periodic image vulnerability scanning and remediation (C10).
type CVESpec struct {
	Enabled bool `json:"enabled,omitempty"`

	ScannerURL string `json:"scannerURL,omitempty"`
	// ScanIntervalSecs between scans.
	// +kubebuilder:default=3600
	ScanIntervalSecs int32 `json:"scanIntervalSecs,omitempty"`
	// CriticalOnly restricts action to Critical-severity findings when true (default).
	// +kubebuilder:default=true
	CriticalOnly bool `json:"criticalOnly,omitempty"`
}

// ReadReplicaSpec enables a secondary read-only replica set (ApiGateway/ContractRpc only).
type ReadReplicaSpec struct {
	Enabled bool `json:"enabled,omitempty"`
	// +kubebuilder:validation:Minimum=1
	Replicas int32 `json:"replicas,omitempty"`
}

// SnapshotSpec controls OCI snapshot push/pull jobs used to accelerate cold
// start and WipeStateAndResync remediation.
type SnapshotSpec struct {
	Enabled    bool   `json:"enabled,omitempty"`
	OCIRef     string `json:"ociRef,omitempty"`
	PushOnSync bool   `json:"pushOnSync,omitempty"`
}

// MeshSpec enables peer-to-peer mTLS policy objects between validators.
type MeshSpec struct {
	Enabled bool `json:"enabled,omitempty"`
	// TrustDomain names the mesh trust domain. The mesh NetworkPolicy selects
	// peers by the validator node-type label and does not read this value.
	TrustDomain string `json:"trustDomain,omitempty"`
}

// PeerDiscoverySpec controls whether a Validator contributes to the
// cluster-wide peer set (C7). Always true in practice for validators, but
// kept explicit so non-validators never opt in by accident.
type PeerDiscoverySpec struct {
	Enabled  bool  `json:"enabled,omitempty"`
	PeerPort int32 `json:"peerPort,omitempty"`
}

// ValidatorConfig holds validator-specific spec fields.
type ValidatorConfig struct {
	HistoryArchiveEnabled bool     `json:"historyArchiveEnabled,omitempty"`
	HistoryArchiveURLs    []string `json:"historyArchiveURLs,omitempty"`
	// VSLURL, if set, is fetched and verified to build the node's quorum set (§6.6).
	VSLURL string `json:"vslURL,omitempty"`
}

// ApiGatewayConfig holds API-gateway-specific spec fields.
type ApiGatewayConfig struct {
	// UpstreamCoreService names the captive-core / validator stable service to talk to.
	UpstreamCoreService string `json:"upstreamCoreService,omitempty"`
}

// ContractRpcConfig holds contract-RPC-specific spec fields.
type ContractRpcConfig struct {
	// EventsRetentionLedgers bounds the soroban-rpc event retention window.
	EventsRetentionLedgers int32 `json:"eventsRetentionLedgers,omitempty"`
}

// ExternalDatabaseSpec points at a database this operator does not manage.
type ExternalDatabaseSpec struct {
	Enabled       bool   `json:"enabled,omitempty"`
	ConnectionRef string `json:"connectionSecretRef,omitempty"`
}

// ManagedDatabaseSpec requests a database this operator provisions and migrates.
type ManagedDatabaseSpec struct {
	Enabled         bool   `json:"enabled,omitempty"`
	StorageSize     string `json:"storageSize,omitempty"`
	MigrationSource string `json:"migrationSource,omitempty"`
}

// DisruptionBudgetSpec configures the child PodDisruptionBudget.
type DisruptionBudgetSpec struct {
	Enabled        bool    `json:"enabled,omitempty"`
	MinAvailable   *string `json:"minAvailable,omitempty"`
	MaxUnavailable *string `json:"maxUnavailable,omitempty"`
}

// StorageSpec describes the PersistentVolumeClaim child.
type StorageSpec struct {
	Size            string `json:"size,omitempty"`
	StorageClass    string `json:"storageClass,omitempty"`
	RetentionPolicy string `json:"retentionPolicy,omitempty"`
}

// StellarNodeSpec defines the desired state of a StellarNode.
type StellarNodeSpec struct {
	// NodeType selects which of ValidatorConfig / ApiGatewayConfig / ContractRpcConfig applies.
	NodeType NodeType `json:"nodeType"`

	Network Network `json:"network"`

	// Version is the container image tag to run.
	Version string `json:"version"`

	// Replicas is the desired replica count; Validators must set exactly 1.
	Replicas int32 `json:"replicas"`

	Resources corev1.ResourceRequirements `json:"resources,omitempty"`
	Storage   StorageSpec                 `json:"storage,omitempty"`

	Suspended       bool `json:"suspended,omitempty"`
	MaintenanceMode bool `json:"maintenanceMode,omitempty"`

	RolloutStrategy RolloutStrategy `json:"rolloutStrategy,omitempty"`

	Autoscaling         *AutoscalingSpec       `json:"autoscaling,omitempty"`
	Ingress             *IngressSpec           `json:"ingress,omitempty"`
	DisasterRecovery    *DisasterRecoverySpec  `json:"disasterRecovery,omitempty"`
	CarbonAware         *CarbonAwareSpec       `json:"carbonAware,omitempty"`
	CVE                 *CVESpec               `json:"cve,omitempty"`
	ReadReplica          *ReadReplicaSpec       `json:"readReplica,omitempty"`
	Snapshot             *SnapshotSpec          `json:"snapshot,omitempty"`
	Mesh                 *MeshSpec              `json:"mesh,omitempty"`
	PeerDiscovery        *PeerDiscoverySpec     `json:"peerDiscovery,omitempty"`
	DisruptionBudget     *DisruptionBudgetSpec  `json:"disruptionBudget,omitempty"`

	ExternalDatabase *ExternalDatabaseSpec `json:"externalDatabase,omitempty"`
	ManagedDatabase  *ManagedDatabaseSpec  `json:"managedDatabase,omitempty"`

	Validator   *ValidatorConfig   `json:"validatorConfig,omitempty"`
	ApiGateway  *ApiGatewayConfig  `json:"apiGatewayConfig,omitempty"`
	ContractRpc *ContractRpcConfig `json:"contractRpcConfig,omitempty"`
}

// Condition follows the upstream Kubernetes condition conventions (spec §3.2).
type Condition struct {
	Type               string                 `json:"type"`
	Status             metav1.ConditionStatus `json:"status"`
	LastTransitionTime metav1.Time            `json:"lastTransitionTime"`
	Reason             string                 `json:"reason"`
	Message            string                 `json:"message"`
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
}

// DRStatus mirrors the cross-region sub-status referenced in spec §3.1.
type DRStatus struct {
	PeerHealth      string      `json:"peerHealth,omitempty"`
	LastPeerContact metav1.Time `json:"lastPeerContact,omitempty"`
	FailoverActive  bool        `json:"failoverActive,omitempty"`
	CurrentRole     DRRole      `json:"currentRole,omitempty"`
	SyncLag         *int64      `json:"syncLag,omitempty"`
}

// ArchiveStatus reports the most recent archive-integrity scan result.
type ArchiveStatus struct {
	LastScanTime metav1.Time `json:"lastScanTime,omitempty"`
	MaxLag       *int64      `json:"maxLag,omitempty"`
	Healthy      bool        `json:"healthy,omitempty"`
}

// RemediationStatus mirrors the annotation-backed state of C8 for observability.
type RemediationStatus struct {
	Level               int32       `json:"level,omitempty"`
	LastObservedLedger  *int64      `json:"lastObservedLedger,omitempty"`
	LastLedgerUpdateTime metav1.Time `json:"lastLedgerUpdateTime,omitempty"`
	LastRemediationTime  metav1.Time `json:"lastRemediationTime,omitempty"`
}

// CanaryStatus has room for the state of C9. The reconcile loop does not
// populate it; the canary state lives in the node's annotations.
type CanaryStatus struct {
	Active    bool        `json:"active,omitempty"`
	Version   string      `json:"version,omitempty"`
	StartTime metav1.Time `json:"startTime,omitempty"`
	Phase     string      `json:"phase,omitempty"`
}

// CVEStatus has room for the state of C10. The reconcile loop does not
// populate it; the CVE state lives in the node's annotations.
type CVEStatus struct {
	Phase        string      `json:"phase,omitempty"`
	PatchedImage string      `json:"patchedImage,omitempty"`
	LastScanTime metav1.Time `json:"lastScanTime,omitempty"`
	Baseline     *float64    `json:"baseline,omitempty"`
}

// StellarNodeStatus defines the observed state of a StellarNode.
type StellarNodeStatus struct {
	// ObservedGeneration is the last generation this engine finished processing.
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	ReadyReplicas int32 `json:"readyReplicas,omitempty"`

	// LedgerSequence is the most recent ledger number observed healthy.
	LedgerSequence *int64 `json:"ledgerSequence,omitempty"`

	DR          *DRStatus          `json:"dr,omitempty"`
	Archive     *ArchiveStatus     `json:"archive,omitempty"`
	Remediation *RemediationStatus `json:"remediation,omitempty"`
	Canary      *CanaryStatus      `json:"canary,omitempty"`
	CVE         *CVEStatus         `json:"cve,omitempty"`

	Conditions []Condition `json:"conditions,omitempty"`

	// Phase is a derived single-string compatibility field (spec §3.2).
	Phase string `json:"phase,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=sn
// +kubebuilder:printcolumn:name="Type",type=string,JSONPath=".spec.nodeType"
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=".status.phase"
// +kubebuilder:printcolumn:name="Ledger",type=integer,JSONPath=".status.ledgerSequence"

// StellarNode is the Schema for the stellarnodes API.
type StellarNode struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   StellarNodeSpec   `json:"spec,omitempty"`
	Status StellarNodeStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// StellarNodeList contains a list of StellarNode.
type StellarNodeList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []StellarNode `json:"items"`
}

func init() {
	SchemeBuilder.Register(&StellarNode{}, &StellarNodeList{})
}

// GetScaleTargetName returns the deterministic workload name owned by this node.
func (s *StellarNode) GetScaleTargetName() string {
	return s.Name
}

// IsValidator is a convenience predicate used throughout the engine.
func (s *StellarNode) IsValidator() bool {
	return s.Spec.NodeType == NodeTypeValidator
}
