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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Well-known condition types (spec §3.2).
const (
	TypeReady                     = "Ready"
	TypeProgressing               = "Progressing"
	TypeDegraded                  = "Degraded"
	TypeArchiveHealthCheck        = "ArchiveHealthCheck"
	TypeArchiveIntegrityDegraded  = "ArchiveIntegrityDegraded"
	TypeAvailable                 = "Available"
	TypeCVE                       = "CVERollout"
	TypeCanary                    = "CanaryRollout"
)

// SetCondition inserts or updates a condition by type (C1). last_transition_time
// is only bumped when the status value actually flips, and a brand-new type is
// appended at the end — existing ordering is otherwise preserved.
func SetCondition(conditions *[]Condition, condType string, status metav1.ConditionStatus, reason, message string) {
	now := metav1.Now()

	for i := range *conditions {
		c := &(*conditions)[i]
		if c.Type != condType {
			continue
		}
		if c.Status != status {
			c.LastTransitionTime = now
		}
		c.Status = status
		c.Reason = reason
		c.Message = message
		return
	}

	*conditions = append(*conditions, Condition{
		Type:               condType,
		Status:             status,
		LastTransitionTime: now,
		Reason:             reason,
		Message:            message,
	})
}

// SetConditionObserved behaves like SetCondition but also stamps ObservedGeneration.
func SetConditionObserved(conditions *[]Condition, condType string, status metav1.ConditionStatus, reason, message string, generation int64) {
	SetCondition(conditions, condType, status, reason, message)
	if c := FindCondition(*conditions, condType); c != nil {
		c.ObservedGeneration = generation
	}
}

// RemoveCondition drops any condition with the given type. Right-absorbing:
// RemoveCondition after SetCondition always yields no condition of that type
// (spec §8.2). SetCondition after RemoveCondition appends a new entry at the
// end of the list with a fresh LastTransitionTime.
func RemoveCondition(conditions *[]Condition, condType string) {
	filtered := (*conditions)[:0]
	for _, c := range *conditions {
		if c.Type != condType {
			filtered = append(filtered, c)
		}
	}
	*conditions = filtered
}

// FindCondition returns a pointer to the condition of the given type, or nil.
func FindCondition(conditions []Condition, condType string) *Condition {
	for i := range conditions {
		if conditions[i].Type == condType {
			return &conditions[i]
		}
	}
	return nil
}

// IsConditionTrue reports whether condType is present and set to True.
func IsConditionTrue(conditions []Condition, condType string) bool {
	c := FindCondition(conditions, condType)
	return c != nil && c.Status == metav1.ConditionTrue
}

// DerivePhase computes the single-string compatibility field from conditions
// (spec §3.2): Ready wins, then Degraded, then Progressing; otherwise the
// Ready condition's Reason when a Ready condition exists, else Unknown.
func DerivePhase(conditions []Condition) string {
	if IsConditionTrue(conditions, TypeReady) {
		return "Ready"
	}
	if IsConditionTrue(conditions, TypeDegraded) {
		return "Degraded"
	}
	if IsConditionTrue(conditions, TypeProgressing) {
		return "Progressing"
	}
	if c := FindCondition(conditions, TypeReady); c != nil {
		return c.Reason
	}
	return "Unknown"
}
