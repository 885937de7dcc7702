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

package vsl

import (
	"fmt"
	"math"
	"strings"
)

// RenderQuorumSet renders a verified Document into the target-protocol TOML
// fragment the workload's config consumes (spec §6.6): THRESHOLD_PERCENT is
// computed as ceil(threshold / total * 100) and the validator list is
// carried verbatim.
func RenderQuorumSet(doc *Document) (string, error) {
	if len(doc.Validators) == 0 {
		return "", fmt.Errorf("VSL document has no validators")
	}

	var b strings.Builder
	total := len(doc.Validators)
	outerPercent := thresholdPercent(total, total)
	fmt.Fprintf(&b, "[QUORUM_SET]\nTHRESHOLD_PERCENT=%d\nVALIDATORS=[\n", outerPercent)
	for _, v := range doc.Validators {
		fmt.Fprintf(&b, "  %q,\n", v.PublicKey)
	}
	b.WriteString("]\n")

	for _, inner := range doc.InnerSets {
		innerTotal := len(inner.Validators)
		innerPercent := thresholdPercent(inner.Threshold, innerTotal)
		fmt.Fprintf(&b, "\n[[QUORUM_SET.INNER_SETS]]\nTHRESHOLD_PERCENT=%d\nVALIDATORS=[\n", innerPercent)
		for _, pk := range inner.Validators {
			fmt.Fprintf(&b, "  %q,\n", pk)
		}
		b.WriteString("]\n")
	}

	return b.String(), nil
}

// thresholdPercent computes ceil(threshold/total*100), guarding total=0.
func thresholdPercent(threshold, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Ceil(float64(threshold) / float64(total) * 100))
}
