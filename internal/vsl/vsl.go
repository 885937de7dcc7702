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

// Package vsl fetches and verifies a trusted validator-selection-list
// document (spec §6.6): a signed TOML document naming a quorum set. Parsing
// uses pelletier/go-toml/v2, the TOML library already present in the
// dependency pack; signature verification uses stdlib crypto/ed25519 since
// no example in the pack wraps Ed25519 in a higher-level library and the
// stdlib API is the idiomatic, complete answer for this primitive.
package vsl

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// ValidatorEntry is one quorum-set member.
type ValidatorEntry struct {
	Name      string `toml:"name"`
	PublicKey string `toml:"public_key"`
	Host      string `toml:"host,omitempty"`
	History   string `toml:"history,omitempty"`
}

// InnerQuorumSet is an optional nested threshold group.
type InnerQuorumSet struct {
	Threshold  int      `toml:"threshold"`
	Validators []string `toml:"validators"`
}

// Document is the parsed (but not yet verified) VSL wire format.
type Document struct {
	Signature  string           `toml:"signature"`
	SigningKey string           `toml:"signing_key"`
	Validators []ValidatorEntry `toml:"validators"`
	InnerSets  []InnerQuorumSet `toml:"quorum_set,omitempty"`

	raw []byte
}

// TrustedSigner is a compiled-in signer the engine accepts VSL documents from.
type TrustedSigner struct {
	Name      string
	PublicKey ed25519.PublicKey
}

// Fetch retrieves the document at url over HTTPS.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch VSL %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch VSL %s: unexpected status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Parse unmarshals raw TOML bytes into a Document without verifying anything.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse VSL: %w", err)
	}
	doc.raw = raw
	return &doc, nil
}

// Verify checks the document's signature against the trusted signer list
// (spec §6.6, invariant §8.1.9): a document lacking a signature, signed by
// an untrusted key, or whose signature fails verification is rejected
// without partial effects — Verify never mutates doc on failure.
func Verify(doc *Document, trusted []TrustedSigner) error {
	if doc.Signature == "" {
		return fmt.Errorf("VSL document has no signature")
	}
	if doc.SigningKey == "" {
		return fmt.Errorf("VSL document has no signing_key")
	}

	signingKeyBytes, err := base64.StdEncoding.DecodeString(doc.SigningKey)
	if err != nil || len(signingKeyBytes) != ed25519.PublicKeySize {
		return fmt.Errorf("VSL signing_key is not a valid 32-byte base64 Ed25519 public key")
	}

	var signer *TrustedSigner
	for i := range trusted {
		if trusted[i].PublicKey.Equal(ed25519.PublicKey(signingKeyBytes)) {
			signer = &trusted[i]
			break
		}
	}
	if signer == nil {
		return fmt.Errorf("VSL signing_key is not in the trusted signer list")
	}

	sigBytes, err := base64.StdEncoding.DecodeString(doc.Signature)
	if err != nil || len(sigBytes) != ed25519.SignatureSize {
		return fmt.Errorf("VSL signature is not a valid 64-byte base64 Ed25519 signature")
	}

	canonical := canonicalise(doc.raw)
	if !ed25519.Verify(signingKeyBytes, canonical, sigBytes) {
		return fmt.Errorf("VSL signature verification failed")
	}
	return nil
}

// canonicalise strips the signature and signing_key lines from the raw
// document before verification, as the signature was computed over the
// document without those two lines present.
func canonicalise(raw []byte) []byte {
	lines := strings.Split(string(raw), "\n")
	var kept []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "signature") || strings.HasPrefix(trimmed, "signing_key") {
			continue
		}
		kept = append(kept, line)
	}
	return []byte(strings.Join(kept, "\n"))
}

// FetchAndVerify is the composed operation the engine calls: fetch, parse,
// verify in one step, with a bounded timeout (spec §5 default 10s).
func FetchAndVerify(ctx context.Context, url string, trusted []TrustedSigner) (*Document, error) {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	raw, err := Fetch(ctx, httpClient, url)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if err := Verify(doc, trusted); err != nil {
		return nil, err
	}
	return doc, nil
}
