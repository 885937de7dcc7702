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

// Package protocol provides the default, HTTP-based implementations of the
// out-of-scope collaborator interfaces declared in internal/interfaces: the
// blockchain info-endpoint probe and the cross-cluster peer probe. Both
// speak a small JSON contract over the pod's/peer's info port; a deployment
// with a different underlying blockchain client wires in its own
// implementation of the same interface instead of replacing this package.
package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/interfaces"
)

// InfoPort is the default port the probe's info endpoint listens on.
const InfoPort = 11626

type infoResponse struct {
	Status         string  `json:"status"`
	LedgerSequence *uint64 `json:"ledger_sequence"`
	NearTip        bool    `json:"near_tip"`
}

// HTTPBlockchainProbe implements interfaces.BlockchainProbe against a JSON
// info endpoint at http://<podIP>:InfoPort/info (spec §4.5 step 2).
type HTTPBlockchainProbe struct {
	Client *http.Client
}

func NewHTTPBlockchainProbe() *HTTPBlockchainProbe {
	return &HTTPBlockchainProbe{Client: &http.Client{}}
}

func (p *HTTPBlockchainProbe) Probe(ctx context.Context, podIP string, timeout time.Duration) (interfaces.ProbeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := fmt.Sprintf("http://%s:%d/info", podIP, InfoPort)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return interfaces.ProbeResult{}, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return interfaces.ProbeResult{Reachable: false, Message: err.Error()}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return interfaces.ProbeResult{Reachable: false, Message: fmt.Sprintf("info endpoint returned %d", resp.StatusCode)}, nil
	}

	var body infoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return interfaces.ProbeResult{Reachable: false, Message: fmt.Sprintf("parse info response: %v", err)}, nil
	}

	state := interfaces.HealthUnknownSync
	switch body.Status {
	case "Synced":
		state = interfaces.HealthSynced
	case "CatchingUp":
		state = interfaces.HealthCatchingUp
	}

	return interfaces.ProbeResult{
		Reachable:      true,
		State:          state,
		LedgerSequence: body.LedgerSequence,
		NearTip:        body.NearTip,
	}, nil
}

// HTTPPeerClusterProbe implements interfaces.PeerClusterProbe against a
// remote cluster's own info endpoint exposed at its DR peer endpoint
// (spec §4.11).
type HTTPPeerClusterProbe struct {
	Client *http.Client
}

func NewHTTPPeerClusterProbe() *HTTPPeerClusterProbe {
	return &HTTPPeerClusterProbe{Client: &http.Client{}}
}

func (p *HTTPPeerClusterProbe) Probe(ctx context.Context, endpoint string, timeout time.Duration) (bool, *uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, nil, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return false, nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil, nil
	}

	var body infoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return true, nil, nil
	}
	return true, body.LedgerSequence, nil
}
