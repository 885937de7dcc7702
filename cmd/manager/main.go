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

package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	_ "k8s.io/client-go/plugin/pkg/client/auth"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/archive"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/carbon"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/childresources"
	stellarcontroller "github.com/caxtonacollins/Stellar-K8s-sub000/internal/controller"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/cve"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/dr"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/health"
	stellarmetrics "github.com/caxtonacollins/Stellar-K8s-sub000/internal/metrics"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/peers"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/protocol"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/restapi"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/rollout"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/webhook"
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(stellarv1alpha1.AddToScheme(scheme))
}

func main() {
	var (
		metricsAddr          string
		probeAddr            string
		enableLeaderElection bool
		dryRun               bool
		peerDiscoveryEvery   time.Duration
		restAPIAddr          string
		enableWebhooks       bool
	)

	flag.StringVar(&metricsAddr, "metrics-bind-address", ":8443", "The address the metrics endpoint binds to.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flag.BoolVar(&enableLeaderElection, "leader-elect", true, "Enable leader election for the manager's single active reconciler.")
	flag.BoolVar(&dryRun, "dry-run", false, "Never mutate cluster state; only emit Would{Create,Update,Delete} events.")
	flag.DurationVar(&peerDiscoveryEvery, "peer-discovery-interval", 30*time.Second, "How often the peer-discovery singleton refreshes the shared peer ConfigMap.")
	flag.StringVar(&restAPIAddr, "rest-api-bind-address", ":8090", "The address the read-only status/metrics REST API binds to.")
	flag.BoolVar(&enableWebhooks, "enable-webhooks", true, "Register the StellarNode defaulting admission webhook. Disable outside a cluster with the webhook service/certificate provisioned.")

	opts := zap.Options{
		Development: true,
	}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()
	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))

	if err := stellarmetrics.Init(ctrlmetrics.Registry); err != nil {
		setupLog.Error(err, "unable to register metrics")
		os.Exit(1)
	}

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme: scheme,
		Metrics: metricsserver.Options{
			BindAddress: metricsAddr,
		},
		HealthProbeBindAddress: probeAddr,
		LeaderElection:         enableLeaderElection,
		LeaderElectionID:       "stellar-operator-leader.stellar.org",
	})
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		os.Exit(1)
	}

	childresources.DryRun = dryRun
	recorder := mgr.GetEventRecorderFor("stellar-operator")
	childresources.SetRecorder(recorder)

	blockchainProbe := protocol.NewHTTPBlockchainProbe()
	peerProbe := protocol.NewHTTPPeerClusterProbe()
	carbonWindow := carbon.NewWindow(protocol.LoggingCarbonIntensitySource{})

	reconciler := &stellarcontroller.StellarNodeReconciler{
		Client:   mgr.GetClient(),
		Scheme:   mgr.GetScheme(),
		Recorder: recorder,

		Storage:          &childresources.StorageReconciler{Client: mgr.GetClient()},
		ConfigMap:        &childresources.ConfigMapReconciler{Client: mgr.GetClient()},
		Certificate:      &childresources.CertificateReconciler{Client: mgr.GetClient(), CA: protocol.UnavailableCertificateAuthority{}},
		Workload:         &childresources.WorkloadReconciler{Client: mgr.GetClient()},
		Service:          &childresources.ServiceReconciler{Client: mgr.GetClient()},
		Autoscaler:       &childresources.AutoscalerReconciler{Client: mgr.GetClient()},
		DisruptionBudget: &childresources.DisruptionBudgetReconciler{Client: mgr.GetClient()},
		Ingress:          &childresources.IngressReconciler{Client: mgr.GetClient()},
		Mesh:             &childresources.MeshReconciler{Client: mgr.GetClient()},
		ReadReplica:      &childresources.ReadReplicaReconciler{Client: mgr.GetClient()},
		Snapshot:         &childresources.SnapshotReconciler{Client: mgr.GetClient(), Recorder: recorder},
		Database:         &childresources.DatabaseReconciler{Client: mgr.GetClient(), Recorder: recorder},

		Health:  &health.Prober{Client: mgr.GetClient(), Probe: blockchainProbe},
		Archive: archive.NewScanner(),
		Peers:   peers.NewDiscovery(mgr.GetClient()),
		Rollout: &rollout.Controller{Client: mgr.GetClient(), Recorder: recorder, Probe: blockchainProbe, Carbon: carbonWindow},
		CVE:     &cve.Handler{Client: mgr.GetClient(), Recorder: recorder, Scanner: protocol.LoggingImageScanner{}, Probe: blockchainProbe, Carbon: carbonWindow},
		DR:      &dr.Controller{PeerProbe: peerProbe, DNS: protocol.LoggingDNSMutator{}},

		VSLTrusted: nil, // no trusted signers: every fetched VSL document is rejected as untrusted.
	}

	if err := reconciler.SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "StellarNode")
		os.Exit(1)
	}

	if enableWebhooks {
		if err := webhook.SetupWebhookWithManager(mgr); err != nil {
			setupLog.Error(err, "unable to create webhook", "webhook", "StellarNode")
			os.Exit(1)
		}
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	if err := mgr.Add(newPeerDiscoveryRunnable(reconciler.Peers, peerDiscoveryEvery)); err != nil {
		setupLog.Error(err, "unable to add peer discovery runnable")
		os.Exit(1)
	}

	restServer := &restapi.Server{Client: mgr.GetClient()}
	if err := mgr.Add(newRestAPIRunnable(restServer, restAPIAddr)); err != nil {
		setupLog.Error(err, "unable to add rest api runnable")
		os.Exit(1)
	}

	setupLog.Info("starting manager")
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}

// peerDiscoveryRunnable drives the C7 singleton on a fixed cadence once this
// process is elected leader, independent of any individual StellarNode's
// reconcile cycle (spec §4.7).
type peerDiscoveryRunnable struct {
	discovery *peers.Discovery
	interval  time.Duration
}

func newPeerDiscoveryRunnable(d *peers.Discovery, interval time.Duration) *peerDiscoveryRunnable {
	return &peerDiscoveryRunnable{discovery: d, interval: interval}
}

func (p *peerDiscoveryRunnable) NeedLeaderElection() bool {
	return true
}

func (p *peerDiscoveryRunnable) Start(ctx context.Context) error {
	stellarcontroller.SetLeader(true)
	defer stellarcontroller.SetLeader(false)

	logger := ctrl.LoggerFrom(ctx).WithName("peer-discovery")
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.discovery.Refresh(ctx); err != nil {
				logger.Error(err, "peer discovery refresh")
			}
		}
	}
}

// restAPIRunnable serves internal/restapi's read-only status and metrics
// surface on every replica, not just the leader: status lookups and metrics
// scraping are safe to serve from a standby.
type restAPIRunnable struct {
	server *restapi.Server
	addr   string
}

func newRestAPIRunnable(server *restapi.Server, addr string) *restAPIRunnable {
	return &restAPIRunnable{server: server, addr: addr}
}

func (r *restAPIRunnable) NeedLeaderElection() bool {
	return false
}

func (r *restAPIRunnable) Start(ctx context.Context) error {
	httpServer := &http.Server{Addr: r.addr, Handler: r.server.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
