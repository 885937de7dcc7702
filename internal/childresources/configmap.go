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
	"strings"

	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
)

// ConfigMapReconciler ensures/deletes the stellar-core/horizon/soroban-rpc
// configuration ConfigMap child (spec §3.4), rendered with yaml.v3 — the
// stellar-core config format is a superset of what this operator needs to
// express (network, history archives, peer seeds).
type ConfigMapReconciler struct {
	Client client.Client
}

type coreConfigDoc struct {
	NetworkPassphrase string            `yaml:"NETWORK_PASSPHRASE"`
	NodeIsValidator   bool              `yaml:"NODE_IS_VALIDATOR"`
	HistoryArchives   map[string]string `yaml:"HISTORY,omitempty"`
	KnownPeers        []string          `yaml:"KNOWN_PEERS,omitempty"`
}

func networkPassphrase(node *stellarv1alpha1.StellarNode) string {
	switch node.Spec.Network.Name {
	case "Mainnet":
		return "Public Global Stellar Network ; September 2015"
	case "Testnet":
		return "Test SDF Network ; September 2015"
	case "Futurenet":
		return "Test SDF Future Network ; October 2022"
	default:
		return node.Spec.Network.Passphrase
	}
}

// RenderConfig builds the rendered configuration document for node, with
// knownPeers injected by the peer discovery singleton (C7) when non-empty.
func RenderConfig(node *stellarv1alpha1.StellarNode, knownPeers []string) ([]byte, error) {
	doc := coreConfigDoc{
		NetworkPassphrase: networkPassphrase(node),
		NodeIsValidator:   node.IsValidator(),
		KnownPeers:        knownPeers,
	}
	if node.Spec.Validator != nil && node.Spec.Validator.HistoryArchiveEnabled {
		doc.HistoryArchives = make(map[string]string, len(node.Spec.Validator.HistoryArchiveURLs))
		for i, u := range node.Spec.Validator.HistoryArchiveURLs {
			doc.HistoryArchives[fmt.Sprintf("h%d", i)] = u
		}
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("render config for %s/%s: %w", node.Namespace, node.Name, err)
	}
	return out, nil
}

func buildConfigMap(node *stellarv1alpha1.StellarNode, knownPeers []string) (*corev1.ConfigMap, error) {
	rendered, err := RenderConfig(node, knownPeers)
	if err != nil {
		return nil, err
	}
	return &corev1.ConfigMap{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "ConfigMap"},
		ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-config"), Namespace: node.Namespace, Labels: ChildLabels(node), OwnerReferences: []metav1.OwnerReference{OwnerReference(node)}},
		Data: map[string]string{
			"stellar-core.yaml": string(rendered),
		},
	}, nil
}

// Ensure renders and applies the config ConfigMap. knownPeers is the current
// peer-discovery text rendering (empty for non-validators or before the
// singleton has produced anything).
func (r *ConfigMapReconciler) Ensure(ctx context.Context, node *stellarv1alpha1.StellarNode, knownPeers []string) error {
	cm, err := buildConfigMap(node, knownPeers)
	if err != nil {
		return err
	}
	return Apply(ctx, r.Client, node, cm, "ConfigMap")
}

func (r *ConfigMapReconciler) Delete(ctx context.Context, node *stellarv1alpha1.StellarNode) error {
	obj := &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: ChildName(node, "-config"), Namespace: node.Namespace}}
	return Delete(ctx, r.Client, node, obj, "ConfigMap")
}

// ConfigHash returns a short, stable identifier of the rendered config used
// to decide whether a rolling restart is warranted after a peer-list change.
func ConfigHash(rendered []byte) string {
	var b strings.Builder
	var h uint32 = 2166136261
	for _, c := range rendered {
		h ^= uint32(c)
		h *= 16777619
	}
	fmt.Fprintf(&b, "%08x", h)
	return b.String()
}
