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

package controller

import (
	"context"
	"fmt"
	"strconv"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/archive"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/childresources"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/constants"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/cve"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/dr"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/health"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/metrics"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/peers"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/remediation"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/rollout"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/vsl"
)

// StellarNodeReconciler implements the fifteen-step reconcile sequence
// (spec §4.12) by composing every state machine in this module: the
// finalizer guard (C2), the spec validator (C3), the child-resource
// reconcilers (C4), the health prober (C5), the archive scanner (C6), peer
// discovery (C7), the remediation escalator (C8), the canary rollout
// controller (C9), the CVE handler (C10) and the disaster-recovery
// controller (C11).
type StellarNodeReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder

	Storage          *childresources.StorageReconciler
	ConfigMap        *childresources.ConfigMapReconciler
	Certificate      *childresources.CertificateReconciler
	Workload         *childresources.WorkloadReconciler
	Service          *childresources.ServiceReconciler
	Autoscaler       *childresources.AutoscalerReconciler
	DisruptionBudget *childresources.DisruptionBudgetReconciler
	Ingress          *childresources.IngressReconciler
	Mesh             *childresources.MeshReconciler
	ReadReplica      *childresources.ReadReplicaReconciler
	Snapshot         *childresources.SnapshotReconciler
	Database         *childresources.DatabaseReconciler

	Health  *health.Prober
	Archive *archive.Scanner
	Peers   *peers.Discovery
	Rollout *rollout.Controller
	CVE     *cve.Handler
	DR      *dr.Controller

	VSLTrusted []vsl.TrustedSigner
}

// +kubebuilder:rbac:groups=stellar.org,resources=stellarnodes,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=stellar.org,resources=stellarnodes/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=stellar.org,resources=stellarnodes/finalizers,verbs=update
// +kubebuilder:rbac:groups=apps,resources=statefulsets;deployments,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=services;configmaps;secrets;persistentvolumeclaims;pods,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=batch,resources=jobs,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=policy,resources=poddisruptionbudgets,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=networking.k8s.io,resources=ingresses;networkpolicies,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=autoscaling,resources=horizontalpodautoscalers,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch

const (
	archiveScanCadence      = time.Hour
	healthyRequeueInterval  = 60 * time.Second
	degradedRequeueInterval = 15 * time.Second
	notLeaderRequeueDelay   = 5 * time.Second
	maintenanceRequeueDelay = 60 * time.Second
)

func (r *StellarNodeReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := ctrl.LoggerFrom(ctx)
	start := time.Now()
	defer func() {
		metrics.ObserveReconcileDuration("stellarnode", time.Since(start).Seconds())
	}()

	// Step 1: leadership gate.
	if !IsLeader() {
		return ctrl.Result{RequeueAfter: notLeaderRequeueDelay}, nil
	}

	var node stellarv1alpha1.StellarNode
	if err := r.Get(ctx, req.NamespacedName, &node); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, err
	}
	original := node.DeepCopy()
	now := time.Now()

	// Step 3: finalizer guard (C2).
	if !node.DeletionTimestamp.IsZero() {
		if err := r.cleanupChildren(ctx, &node); err != nil {
			metrics.IncReconcileError("stellarnode", "TransientApiError")
			return ctrl.Result{}, err
		}
		if err := removeFinalizer(ctx, r.Client, &node); err != nil {
			return ctrl.Result{}, err
		}
		return ctrl.Result{}, nil
	}
	if changed, err := ensureFinalizer(ctx, r.Client, &node); err != nil {
		return ctrl.Result{}, err
	} else if changed {
		return ctrl.Result{Requeue: true}, nil
	}

	// Step 4: validate (C3). Terminal on failure — no retry until generation changes.
	if errs := Validate(&node.Spec); len(errs) > 0 {
		emitValidationFailed(r.Recorder, &node, errs)
		metrics.IncReconcileError("stellarnode", "ValidationFailed")
		stellarv1alpha1.SetConditionObserved(&node.Status.Conditions, stellarv1alpha1.TypeDegraded, metav1.ConditionTrue, "ValidationFailed", errs[0].String(), node.Generation)
		node.Status.Phase = stellarv1alpha1.DerivePhase(node.Status.Conditions)
		if err := r.Status().Patch(ctx, &node, client.MergeFrom(original)); err != nil {
			return ctrl.Result{}, err
		}
		return ctrl.Result{}, nil
	}

	coreStepsOK := true

	// Step 5: ensure foundational resources (storage, config, certs, managed DB, snapshot pull).
	if err := r.ensureFoundational(ctx, &node); err != nil {
		logger.Error(err, "ensure foundational resources", "node", req.NamespacedName)
		metrics.IncReconcileError("stellarnode", "TransientApiError")
		coreStepsOK = false
	}

	// Step 6: maintenance/suspension check.
	if node.Spec.Suspended || node.Spec.MaintenanceMode {
		if err := r.Workload.Ensure(ctx, &node); err != nil {
			logger.Error(err, "ensure workload during maintenance", "node", req.NamespacedName)
		}
		stellarv1alpha1.SetConditionObserved(&node.Status.Conditions, stellarv1alpha1.TypeProgressing, metav1.ConditionTrue, "Suspended", "node is suspended or in maintenance mode", node.Generation)
		node.Status.Phase = stellarv1alpha1.DerivePhase(node.Status.Conditions)
		if err := r.Status().Patch(ctx, &node, client.MergeFrom(original)); err != nil {
			return ctrl.Result{}, err
		}
		return ctrl.Result{RequeueAfter: maintenanceRequeueDelay}, nil
	}

	// Step 7: archive startup check (lightweight, does not advance observed_generation on failure).
	if node.IsValidator() && node.Spec.Validator != nil && node.Spec.Validator.HistoryArchiveEnabled {
		urls := node.Spec.Validator.HistoryArchiveURLs
		if len(urls) > 0 {
			if err := r.Archive.StartupCheck(ctx, urls); err != nil {
				attempt := archiveHealthRetries(node.Annotations)
				delay := archive.StartupBackoffDelay(attempt)
				if node.Annotations == nil {
					node.Annotations = map[string]string{}
				}
				node.Annotations[constants.AnnotationArchiveHealthRetries] = strconv.Itoa(attempt + 1)
				emitArchiveHealthCheckFailed(r.Recorder, &node, urls[0], err)
				stellarv1alpha1.SetConditionObserved(&node.Status.Conditions, stellarv1alpha1.TypeArchiveHealthCheck, metav1.ConditionFalse, "ArchiveUnreachable", err.Error(), node.Generation)
				node.Status.Phase = stellarv1alpha1.DerivePhase(node.Status.Conditions)
				if err := r.Patch(ctx, &node, client.MergeFrom(original)); err != nil {
					return ctrl.Result{}, err
				}
				if err := r.Status().Patch(ctx, &node, client.MergeFrom(original)); err != nil {
					return ctrl.Result{}, err
				}
				return ctrl.Result{RequeueAfter: delay}, nil
			}
			if node.Annotations != nil && node.Annotations[constants.AnnotationArchiveHealthRetries] != "" {
				delete(node.Annotations, constants.AnnotationArchiveHealthRetries)
			}
			stellarv1alpha1.SetConditionObserved(&node.Status.Conditions, stellarv1alpha1.TypeArchiveHealthCheck, metav1.ConditionTrue, "ArchiveReachable", "the first configured history archive responded to the startup HEAD check", node.Generation)
		}

		if node.Spec.Validator.VSLURL != "" {
			if err := r.applyVSL(ctx, &node); err != nil {
				recordWarning(r.Recorder, &node, constants.EventVSLFetchFailed, "%v", err)
			}
		}
	}

	// Step 8: archive periodic check (full scanner, hourly cadence).
	if node.IsValidator() && node.Spec.Validator != nil && node.Spec.Validator.HistoryArchiveEnabled && len(node.Spec.Validator.HistoryArchiveURLs) > 0 {
		if r.archiveScanDue(&node, now) {
			var nodeLedger uint64
			if node.Status.LedgerSequence != nil {
				nodeLedger = uint64(*node.Status.LedgerSequence)
			}
			results := r.Archive.Scan(ctx, node.Spec.Validator.HistoryArchiveURLs, nodeLedger)
			agg := archive.Aggregate(results)
			lag := int64(agg.MaxLag)
			node.Status.Archive = &stellarv1alpha1.ArchiveStatus{
				LastScanTime: metav1.NewTime(now),
				MaxLag:       &lag,
				Healthy:      agg.Healthy,
			}
			status := metav1.ConditionFalse
			reason := "ArchiveInSync"
			if !agg.Healthy {
				status = metav1.ConditionTrue
				reason = "ArchiveLagging"
				emitArchiveIntegrityDegraded(r.Recorder, &node, agg.MaxLag, agg.WorstURL)
			}
			stellarv1alpha1.SetConditionObserved(&node.Status.Conditions, stellarv1alpha1.TypeArchiveIntegrityDegraded, status, reason, fmt.Sprintf("max lag %d ledgers", agg.MaxLag), node.Generation)
			metrics.SetArchiveLedgerLag(nodeMetricLabels(&node), float64(agg.MaxLag))
		}
	}

	// Step 9: ensure workload and dependants (pass 2), including canary rollout.
	if err := r.ensureWorkloadAndDependants(ctx, &node, now); err != nil {
		logger.Error(err, "ensure workload and dependants", "node", req.NamespacedName)
		metrics.IncReconcileError("stellarnode", "TransientApiError")
		coreStepsOK = false
	}

	// Step 10: health probe (C5).
	healthResult, probeErr := r.Health.Probe(ctx, &node)
	if probeErr != nil {
		logger.Error(probeErr, "health probe", "node", req.NamespacedName)
		metrics.IncReconcileError("stellarnode", "TransientNetworkError")
	} else {
		readyStatus := metav1.ConditionFalse
		if healthResult.Healthy {
			readyStatus = metav1.ConditionTrue
		}
		stellarv1alpha1.SetConditionObserved(&node.Status.Conditions, stellarv1alpha1.TypeReady, readyStatus, "HealthProbe", healthResult.Message, node.Generation)
		if healthResult.LedgerSequence != nil {
			seq := int64(*healthResult.LedgerSequence)
			node.Status.LedgerSequence = &seq
			metrics.SetLedgerSequence(nodeMetricLabels(&node), float64(seq))
		}
		if r.Snapshot != nil {
			if err := r.Snapshot.EnsurePush(ctx, &node, healthResult.Synced); err != nil {
				logger.Error(err, "snapshot push", "node", req.NamespacedName)
			}
		}
	}

	// Step 11: CVE pass (C10), mutually exclusive with an active canary.
	if node.Spec.CVE != nil && node.Spec.CVE.Enabled && r.CVE != nil {
		canaryActive := node.Annotations[constants.AnnotationCanaryStatus] != ""
		consensusHealth := 1.0
		if !healthResult.Healthy {
			consensusHealth = 0.0
		}
		if _, err := r.CVE.Reconcile(ctx, &node, canaryActive, consensusHealth, now); err != nil {
			logger.Error(err, "CVE reconcile", "node", req.NamespacedName)
		}
	}

	// Step 12: peer discovery trigger (validator-ready transition pokes C7).
	if node.IsValidator() && node.Spec.PeerDiscovery != nil && node.Spec.PeerDiscovery.Enabled && healthResult.Healthy &&
		!stellarv1alpha1.IsConditionTrue(original.Status.Conditions, stellarv1alpha1.TypeReady) && r.Peers != nil {
		if err := r.Peers.Refresh(ctx); err != nil {
			logger.Error(err, "peer discovery refresh", "node", req.NamespacedName)
		}
	}

	// Step 13: DR pass (C11).
	if node.Spec.DisasterRecovery != nil && node.Spec.DisasterRecovery.Enabled && r.DR != nil {
		var localLedger uint64
		if node.Status.LedgerSequence != nil {
			localLedger = uint64(*node.Status.LedgerSequence)
		}
		if msg, err := r.DR.Reconcile(ctx, &node, localLedger, now); err != nil {
			logger.Error(err, "DR reconcile", "node", req.NamespacedName)
		} else if msg != "" {
			logger.Info(msg, "node", req.NamespacedName)
		}
	}

	// Step 14: remediation pass (C8), only when this pass obtained a usable probe result.
	if probeErr == nil && healthResult.LedgerSequence != nil {
		if node.Annotations == nil {
			node.Annotations = map[string]string{}
		}
		prev := remediation.ParseState(node.Annotations)
		next, verdict, action := remediation.Evaluate(prev, *healthResult.LedgerSequence, now)
		remediation.WriteState(node.Annotations, next)
		observedLedger := int64(next.LastObservedLedger)
		node.Status.Remediation = &stellarv1alpha1.RemediationStatus{
			Level:                int32(next.RemediationLevel),
			LastObservedLedger:   &observedLedger,
			LastLedgerUpdateTime: metav1.NewTime(next.LastLedgerUpdateTime),
			LastRemediationTime:  metav1.NewTime(next.LastRemediationTime),
		}
		if verdict == remediation.VerdictRemediating {
			r.applyRemediation(ctx, &node, action)
		}
	}

	// Step 15: status update.
	if coreStepsOK {
		node.Status.ObservedGeneration = node.Generation
	}
	if ready, err := childresources.ReadyReplicas(ctx, r.Client, &node); err == nil {
		node.Status.ReadyReplicas = ready
	}
	node.Status.Phase = stellarv1alpha1.DerivePhase(node.Status.Conditions)

	if err := r.Patch(ctx, &node, client.MergeFrom(original)); err != nil {
		return ctrl.Result{}, err
	}
	if err := r.Status().Patch(ctx, &node, client.MergeFrom(original)); err != nil {
		return ctrl.Result{}, err
	}
	metrics.IncReactiveStatusUpdate(node.Namespace, node.Name)

	// Step 15 (continued): requeue policy.
	if stellarv1alpha1.IsConditionTrue(node.Status.Conditions, stellarv1alpha1.TypeReady) {
		return ctrl.Result{RequeueAfter: healthyRequeueInterval}, nil
	}
	return ctrl.Result{RequeueAfter: degradedRequeueInterval}, nil
}

func (r *StellarNodeReconciler) ensureFoundational(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	if err := r.Storage.Ensure(ctx, node); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	// Peer addresses are published separately by the peer-discovery singleton
	// (C7) into its own ConfigMap; this one only needs the static core config.
	if err := r.ConfigMap.Ensure(ctx, node, nil); err != nil {
		return fmt.Errorf("configmap: %w", err)
	}
	if r.Certificate != nil {
		if err := r.Certificate.Ensure(ctx, node); err != nil {
			return fmt.Errorf("certificate: %w", err)
		}
	}
	if node.Spec.ManagedDatabase != nil && node.Spec.ManagedDatabase.Enabled && r.Database != nil {
		if err := r.Database.Ensure(ctx, node); err != nil {
			return fmt.Errorf("managed database: %w", err)
		}
	}
	if r.Snapshot != nil {
		if err := r.Snapshot.EnsurePull(ctx, node); err != nil {
			return fmt.Errorf("snapshot pull: %w", err)
		}
	}
	return nil
}

func (r *StellarNodeReconciler) ensureWorkloadAndDependants(ctx context.Context, node *stellarv1alpha1.StellarNode, now time.Time) error {
	if !node.IsValidator() && node.Spec.RolloutStrategy.Kind == stellarv1alpha1.RolloutStrategyCanary {
		var existing appsv1.Deployment
		err := r.Get(ctx, client.ObjectKey{Namespace: node.Namespace, Name: node.Name}, &existing)
		switch {
		case apierrors.IsNotFound(err):
			if err := r.Workload.Ensure(ctx, node); err != nil {
				return fmt.Errorf("bootstrap workload: %w", err)
			}
		case err != nil:
			return fmt.Errorf("get stable workload: %w", err)
		default:
			if _, err := r.Rollout.Reconcile(ctx, node, now); err != nil {
				return fmt.Errorf("rollout: %w", err)
			}
		}
	} else {
		if err := r.Workload.Ensure(ctx, node); err != nil {
			return fmt.Errorf("workload: %w", err)
		}
	}

	if err := r.Service.Ensure(ctx, node); err != nil {
		return fmt.Errorf("service: %w", err)
	}
	if node.Spec.Autoscaling != nil && r.Autoscaler != nil {
		if err := r.Autoscaler.Ensure(ctx, node); err != nil {
			return fmt.Errorf("autoscaler: %w", err)
		}
	}
	if node.Spec.DisruptionBudget != nil && r.DisruptionBudget != nil {
		if err := r.DisruptionBudget.Ensure(ctx, node); err != nil {
			return fmt.Errorf("disruption budget: %w", err)
		}
	}
	if node.Spec.Ingress != nil && r.Ingress != nil {
		if err := r.Ingress.Ensure(ctx, node); err != nil {
			return fmt.Errorf("ingress: %w", err)
		}
	}
	if node.Spec.Mesh != nil && r.Mesh != nil {
		if err := r.Mesh.Ensure(ctx, node); err != nil {
			return fmt.Errorf("mesh: %w", err)
		}
	}
	if node.Spec.ReadReplica != nil && r.ReadReplica != nil {
		if err := r.ReadReplica.Ensure(ctx, node); err != nil {
			return fmt.Errorf("read replica: %w", err)
		}
	}
	return nil
}

func (r *StellarNodeReconciler) cleanupChildren(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	deletions := []func(context.Context, *stellarv1alpha1.StellarNode) error{
		r.Workload.Delete,
		r.Service.Delete,
		r.ConfigMap.Delete,
		r.Storage.Delete,
	}
	if r.Certificate != nil {
		deletions = append(deletions, r.Certificate.Delete)
	}
	if r.Autoscaler != nil {
		deletions = append(deletions, r.Autoscaler.Delete)
	}
	if r.DisruptionBudget != nil {
		deletions = append(deletions, r.DisruptionBudget.Delete)
	}
	if r.Ingress != nil {
		deletions = append(deletions, r.Ingress.Delete)
	}
	if r.Mesh != nil {
		deletions = append(deletions, r.Mesh.Delete)
	}
	if r.ReadReplica != nil {
		deletions = append(deletions, r.ReadReplica.Delete)
	}
	if r.Database != nil {
		deletions = append(deletions, r.Database.Delete)
	}
	for _, del := range deletions {
		if err := del(ctx, node); err != nil {
			return err
		}
	}
	return nil
}

func (r *StellarNodeReconciler) archiveScanDue(node *stellarv1alpha1.StellarNode, now time.Time) bool {
	if node.Status.Archive == nil {
		return true
	}
	return now.Sub(node.Status.Archive.LastScanTime.Time) >= archiveScanCadence
}

// archiveHealthRetries reads the persisted startup-check failure count used
// to drive StartupBackoffDelay (spec §3.3/§4.6). Absent or malformed, it
// restarts the backoff from zero.
func archiveHealthRetries(annotations map[string]string) int {
	raw, ok := annotations[constants.AnnotationArchiveHealthRetries]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (r *StellarNodeReconciler) applyRemediation(ctx context.Context, node *stellarv1alpha1.StellarNode, action remediation.Action) {
	logger := ctrl.LoggerFrom(ctx)
	switch action {
	case remediation.ActionRestartPod:
		if err := r.Workload.Delete(ctx, node); err != nil {
			logger.Error(err, "remediation: restart pod")
		}
	case remediation.ActionWipeAndResync:
		if r.Snapshot != nil {
			if err := r.Snapshot.DeletePull(ctx, node); err != nil {
				logger.Error(err, "remediation: clear snapshot pull job")
			}
		}
		if err := r.Storage.Delete(ctx, node); err != nil {
			logger.Error(err, "remediation: wipe storage")
		}
	}
}

func (r *StellarNodeReconciler) applyVSL(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	doc, err := vsl.FetchAndVerify(ctx, node.Spec.Validator.VSLURL, r.VSLTrusted)
	if err != nil {
		return fmt.Errorf("fetch/verify VSL: %w", err)
	}
	fragment, err := vsl.RenderQuorumSet(doc)
	if err != nil {
		return fmt.Errorf("render quorum set: %w", err)
	}
	quorumConfigMap := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:            childresources.ChildName(node, "-quorum"),
			Namespace:       node.Namespace,
			Labels:          childresources.ChildLabels(node),
			OwnerReferences: []metav1.OwnerReference{childresources.OwnerReference(node)},
		},
		Data: map[string]string{"quorum.toml": fragment},
	}
	return childresources.Apply(ctx, r.Client, node, quorumConfigMap, "ConfigMap")
}

func nodeMetricLabels(node *stellarv1alpha1.StellarNode) metrics.NodeLabels {
	return metrics.NodeLabels{
		Namespace: node.Namespace,
		Name:      node.Name,
		NodeType:  string(node.Spec.NodeType),
		Network:   node.Spec.Network.Name,
	}
}

// SetupWithManager registers the watches this controller depends on: the
// StellarNode itself and its owned StatefulSets, Deployments, Services and
// PersistentVolumeClaims, so an out-of-band edit to one of those is noticed
// without waiting for the next periodic requeue. ConfigMap events pass
// ConfigMapPredicate but map to no request; other child kinds are not
// watched and are corrected on the next periodic requeue.
func (r *StellarNodeReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&stellarv1alpha1.StellarNode{}, builder.WithPredicates(EventFilter())).
		Owns(&appsv1.StatefulSet{}, builder.WithPredicates(ChildEventFilter())).
		Owns(&appsv1.Deployment{}, builder.WithPredicates(ChildEventFilter())).
		Owns(&corev1.Service{}).
		Owns(&corev1.PersistentVolumeClaim{}).
		Watches(
			&corev1.ConfigMap{},
			handler.EnqueueRequestsFromMapFunc(func(ctx context.Context, obj client.Object) []reconcile.Request {
				return nil
			}),
			builder.WithPredicates(ConfigMapPredicate()),
		).
		Complete(r)
}
