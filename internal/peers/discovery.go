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

// Package peers implements the peer discovery singleton (C7): it watches all
// StellarNode validators and materialises their stable-service addresses
// into a cluster-wide shared ConfigMap, atomically, via its own field
// manager.
package peers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/childresources"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/metrics"
)

const (
	// FieldManager is distinct from the per-object reconciler's field
	// manager since this singleton does not compete with per-object workers
	// (spec §5).
	FieldManager = "stellar-operator-peer-discovery"

	DefaultNamespace = "stellar-system"
	DefaultName      = "stellar-peers"

	defaultPeerPort = 11625
)

// Descriptor is one peer entry, shared by both the JSON and text renderings.
type Descriptor struct {
	Name       string `json:"name"`
	Namespace  string `json:"namespace"`
	NodeType   string `json:"nodeType"`
	IP         string `json:"ip"`
	Port       int32  `json:"port"`
	PeerString string `json:"peerString"`
}

// Discovery builds and publishes the cluster-wide peer set.
type Discovery struct {
	Client    client.Client
	Namespace string
	Name      string
}

func NewDiscovery(c client.Client) *Discovery {
	return &Discovery{Client: c, Namespace: DefaultNamespace, Name: DefaultName}
}

// Refresh implements spec §4.7: list every ready Validator, resolve its
// stable service cluster IP, and publish the deduplicated peer set.
func (d *Discovery) Refresh(ctx context.Context) error {
	var nodes stellarv1alpha1.StellarNodeList
	if err := d.Client.List(ctx, &nodes); err != nil {
		return fmt.Errorf("list StellarNodes: %w", err)
	}

	seen := make(map[string]Descriptor)
	for i := range nodes.Items {
		node := &nodes.Items[i]
		if !node.IsValidator() {
			continue
		}
		if node.Spec.PeerDiscovery == nil || !node.Spec.PeerDiscovery.Enabled {
			continue
		}
		if !d.podsReady(ctx, node) {
			continue
		}

		ip, err := childresources.StableServiceClusterIP(ctx, d.Client, node)
		if err != nil || ip == "" {
			continue
		}

		port := node.Spec.PeerDiscovery.PeerPort
		if port == 0 {
			port = defaultPeerPort
		}
		desc := Descriptor{
			Name:       node.Name,
			Namespace:  node.Namespace,
			NodeType:   string(node.Spec.NodeType),
			IP:         ip,
			Port:       port,
			PeerString: fmt.Sprintf("%s:%d", ip, port),
		}
		seen[desc.Namespace+"/"+desc.Name] = desc
	}

	descriptors := make([]Descriptor, 0, len(seen))
	for _, d := range seen {
		descriptors = append(descriptors, d)
	}
	sort.Slice(descriptors, func(i, j int) bool {
		if descriptors[i].Namespace != descriptors[j].Namespace {
			return descriptors[i].Namespace < descriptors[j].Namespace
		}
		return descriptors[i].Name < descriptors[j].Name
	})

	changed, err := d.publish(ctx, descriptors)
	if err != nil {
		return err
	}
	if changed {
		d.notifySidecars(ctx, nodes.Items)
	}
	return nil
}

// notifySidecars invokes the reload endpoint on every validator pod after a
// change. Failures are logged, never fatal (spec §4.7 step 4).
func (d *Discovery) notifySidecars(ctx context.Context, nodes []stellarv1alpha1.StellarNode) {
	logger := logf.FromContext(ctx)
	httpClient := &http.Client{Timeout: 3 * time.Second}

	for i := range nodes {
		node := &nodes[i]
		if !node.IsValidator() {
			continue
		}
		var pods corev1.PodList
		if err := d.Client.List(ctx, &pods, client.InNamespace(node.Namespace), client.MatchingLabels{"stellar.org/instance": node.Name}); err != nil {
			continue
		}
		for _, pod := range pods.Items {
			if pod.Status.PodIP == "" {
				continue
			}
			url := fmt.Sprintf("http://%s:8081/reload", pod.Status.PodIP)
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
			if err != nil {
				continue
			}
			if resp, err := httpClient.Do(req); err != nil {
				logger.V(1).Info("sidecar reload notification failed", "pod", pod.Name, "error", err.Error())
			} else {
				resp.Body.Close()
			}
		}
	}
}

func (d *Discovery) podsReady(ctx context.Context, node *stellarv1alpha1.StellarNode) bool {
	var pods corev1.PodList
	if err := d.Client.List(ctx, &pods, client.InNamespace(node.Namespace), client.MatchingLabels{"stellar.org/instance": node.Name}); err != nil {
		return false
	}
	for _, p := range pods.Items {
		for _, c := range p.Status.Conditions {
			if c.Type == corev1.PodReady && c.Status == corev1.ConditionTrue {
				return true
			}
		}
	}
	return false
}

// publish writes both renderings atomically in one server-side apply patch
// (spec §4.7 invariant), reporting whether the text rendering actually
// changed so the caller can decide whether sidecar notification is needed.
func (d *Discovery) publish(ctx context.Context, descriptors []Descriptor) (bool, error) {
	jsonBytes, err := json.MarshalIndent(descriptors, "", "  ")
	if err != nil {
		return false, fmt.Errorf("marshal peer descriptors: %w", err)
	}

	lines := make([]string, 0, len(descriptors))
	for _, desc := range descriptors {
		lines = append(lines, desc.PeerString)
	}
	text := strings.Join(lines, "\n")

	var previous corev1.ConfigMap
	getErr := d.Client.Get(ctx, client.ObjectKey{Namespace: d.Namespace, Name: d.Name}, &previous)
	changed := apierrors.IsNotFound(getErr) || previous.Data["peers.txt"] != text
	if !changed {
		metrics.IncAPIPollAvoided(d.Namespace, d.Name)
	}

	cm := &corev1.ConfigMap{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "ConfigMap"},
		ObjectMeta: metav1.ObjectMeta{Name: d.Name, Namespace: d.Namespace},
		Data: map[string]string{
			"peers.json": string(jsonBytes),
			"peers.txt":  text,
		},
	}
	cm.SetManagedFields(nil)
	if err := d.Client.Patch(ctx, cm, client.Apply, client.FieldOwner(FieldManager), client.ForceOwnership); err != nil {
		return false, fmt.Errorf("publish peer configmap: %w", err)
	}
	return changed, nil
}
