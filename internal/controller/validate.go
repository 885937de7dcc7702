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
	"fmt"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
)

// ValidationError is one structured finding from Validate (C3): a field
// path, a human message, and a remediation hint.
type ValidationError struct {
	Field      string
	Message    string
	Remediation string
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Remediation)
}

// Validate is a pure function: spec in, structured errors out. It performs
// no I/O and has no side effects, so it is safe to call on every reconcile
// pass regardless of generation (spec §4.3).
func Validate(spec *stellarv1alpha1.StellarNodeSpec) []ValidationError {
	var errs []ValidationError

	errs = append(errs, validateNodeTypeRecord(spec)...)
	errs = append(errs, validateDatabaseExclusivity(spec)...)
	errs = append(errs, validateDisruptionBudget(spec)...)
	errs = append(errs, validateValidatorConstraints(spec)...)
	errs = append(errs, validateAutoscaling(spec)...)
	errs = append(errs, validateIngress(spec)...)
	errs = append(errs, validateDisasterRecovery(spec)...)

	return errs
}

func validateNodeTypeRecord(spec *stellarv1alpha1.StellarNodeSpec) []ValidationError {
	present := 0
	if spec.Validator != nil {
		present++
	}
	if spec.ApiGateway != nil {
		present++
	}
	if spec.ContractRpc != nil {
		present++
	}

	switch spec.NodeType {
	case stellarv1alpha1.NodeTypeValidator:
		if spec.Validator == nil {
			return []ValidationError{{"spec.validatorConfig", "nodeType is Validator but validatorConfig is unset", "set spec.validatorConfig"}}
		}
	case stellarv1alpha1.NodeTypeApiGateway:
		if spec.ApiGateway == nil {
			return []ValidationError{{"spec.apiGatewayConfig", "nodeType is ApiGateway but apiGatewayConfig is unset", "set spec.apiGatewayConfig"}}
		}
	case stellarv1alpha1.NodeTypeContractRpc:
		if spec.ContractRpc == nil {
			return []ValidationError{{"spec.contractRpcConfig", "nodeType is ContractRpc but contractRpcConfig is unset", "set spec.contractRpcConfig"}}
		}
	default:
		return []ValidationError{{"spec.nodeType", fmt.Sprintf("unknown node type %q", spec.NodeType), "use one of Validator, ApiGateway, ContractRpc"}}
	}

	if present > 1 {
		return []ValidationError{{"spec", "more than one node-type-specific sub-record is set", "set only the sub-record matching spec.nodeType"}}
	}
	return nil
}

func validateDatabaseExclusivity(spec *stellarv1alpha1.StellarNodeSpec) []ValidationError {
	extEnabled := spec.ExternalDatabase != nil && spec.ExternalDatabase.Enabled
	mgdEnabled := spec.ManagedDatabase != nil && spec.ManagedDatabase.Enabled
	if extEnabled && mgdEnabled {
		return []ValidationError{{"spec.externalDatabase", "externalDatabase and managedDatabase are mutually exclusive", "disable one of the two database specs"}}
	}
	return nil
}

func validateDisruptionBudget(spec *stellarv1alpha1.StellarNodeSpec) []ValidationError {
	db := spec.DisruptionBudget
	if db == nil || !db.Enabled {
		return nil
	}
	if db.MinAvailable != nil && db.MaxUnavailable != nil {
		return []ValidationError{{"spec.disruptionBudget", "only one of minAvailable and maxUnavailable may be set", "remove one of the two fields"}}
	}
	return nil
}

func validateValidatorConstraints(spec *stellarv1alpha1.StellarNodeSpec) []ValidationError {
	if spec.NodeType != stellarv1alpha1.NodeTypeValidator {
		return nil
	}
	var errs []ValidationError

	if spec.Replicas != 1 {
		errs = append(errs, ValidationError{"spec.replicas", "Validator nodes must run exactly one replica", "set spec.replicas to 1"})
	}
	if spec.Ingress != nil && spec.Ingress.Enabled {
		errs = append(errs, ValidationError{"spec.ingress", "ingress is not permitted on Validator nodes", "disable spec.ingress"})
	}
	if spec.Autoscaling != nil && spec.Autoscaling.Enabled {
		errs = append(errs, ValidationError{"spec.autoscaling", "autoscaling is not permitted on Validator nodes", "disable spec.autoscaling"})
	}
	if spec.RolloutStrategy.Kind == stellarv1alpha1.RolloutStrategyCanary {
		errs = append(errs, ValidationError{"spec.rolloutStrategy.kind", "canary rollout strategy is not permitted on Validator nodes", "use Rolling for Validator nodes"})
	}
	if spec.Validator != nil && spec.Validator.HistoryArchiveEnabled && len(spec.Validator.HistoryArchiveURLs) == 0 {
		errs = append(errs, ValidationError{"spec.validatorConfig.historyArchiveURLs", "historyArchiveEnabled is true but no archive URL is configured", "add at least one entry to historyArchiveURLs"})
	}
	return errs
}

func validateAutoscaling(spec *stellarv1alpha1.StellarNodeSpec) []ValidationError {
	as := spec.Autoscaling
	if as == nil || !as.Enabled {
		return nil
	}
	var errs []ValidationError
	if as.MinReplicas < 1 {
		errs = append(errs, ValidationError{"spec.autoscaling.minReplicas", "minReplicas must be >= 1", "set minReplicas to at least 1"})
	}
	if as.MaxReplicas < as.MinReplicas {
		errs = append(errs, ValidationError{"spec.autoscaling.maxReplicas", "maxReplicas must be >= minReplicas", "raise maxReplicas or lower minReplicas"})
	}
	return errs
}

func validateIngress(spec *stellarv1alpha1.StellarNodeSpec) []ValidationError {
	ing := spec.Ingress
	if ing == nil || !ing.Enabled {
		return nil
	}
	var errs []ValidationError
	if len(ing.Hosts) == 0 {
		errs = append(errs, ValidationError{"spec.ingress.hosts", "ingress is enabled but hosts is empty", "add at least one host entry"})
		return errs
	}
	for i, h := range ing.Hosts {
		if h.Host == "" {
			errs = append(errs, ValidationError{fmt.Sprintf("spec.ingress.hosts[%d].host", i), "host name is empty", "set a non-empty host name"})
		}
		if len(h.Paths) == 0 {
			errs = append(errs, ValidationError{fmt.Sprintf("spec.ingress.hosts[%d].paths", i), "host has no path entries", "add at least one path entry"})
		}
		for j, p := range h.Paths {
			if p.PathType != stellarv1alpha1.IngressPathPrefix && p.PathType != stellarv1alpha1.IngressPathExact {
				errs = append(errs, ValidationError{fmt.Sprintf("spec.ingress.hosts[%d].paths[%d].pathType", i, j), fmt.Sprintf("unknown path type %q", p.PathType), "use Prefix or Exact"})
			}
		}
	}
	return errs
}

func validateDisasterRecovery(spec *stellarv1alpha1.StellarNodeSpec) []ValidationError {
	dr := spec.DisasterRecovery
	if dr == nil || !dr.Enabled {
		return nil
	}
	var errs []ValidationError
	for i, p := range dr.PeerClusters {
		if p.ID == "" {
			errs = append(errs, ValidationError{fmt.Sprintf("spec.disasterRecovery.peerClusters[%d].id", i), "peer cluster id is empty", "set a non-empty id"})
		}
		if p.Endpoint == "" {
			errs = append(errs, ValidationError{fmt.Sprintf("spec.disasterRecovery.peerClusters[%d].endpoint", i), "peer cluster endpoint is empty", "set a non-empty endpoint"})
		}
		if p.HealthCheckTimeoutSeconds >= p.HealthCheckIntervalSeconds {
			errs = append(errs, ValidationError{fmt.Sprintf("spec.disasterRecovery.peerClusters[%d].healthCheckTimeoutSeconds", i), "health-check timeout must be less than the interval", "lower the timeout or raise the interval"})
		}
		if p.FailureThreshold < 1 {
			errs = append(errs, ValidationError{fmt.Sprintf("spec.disasterRecovery.peerClusters[%d].failureThreshold", i), "failureThreshold must be >= 1", "set failureThreshold to at least 1"})
		}
		if p.SuccessThreshold < 1 {
			errs = append(errs, ValidationError{fmt.Sprintf("spec.disasterRecovery.peerClusters[%d].successThreshold", i), "successThreshold must be >= 1", "set successThreshold to at least 1"})
		}
	}
	return errs
}
