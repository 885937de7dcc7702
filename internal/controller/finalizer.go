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

	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/constants"
)

// ensureFinalizer adds the operator finalizer (C2) if missing, patching only
// when a change is needed.
func ensureFinalizer(ctx context.Context, c client.Client, node *stellarv1alpha1.StellarNode) (bool, error) {
	if controllerutil.ContainsFinalizer(node, constants.FinalizerName) {
		return false, nil
	}
	patch := client.MergeFrom(node.DeepCopy())
	controllerutil.AddFinalizer(node, constants.FinalizerName)
	if err := c.Patch(ctx, node, patch); err != nil {
		return false, err
	}
	return true, nil
}

// removeFinalizer strips the operator finalizer once cleanup has completed,
// allowing the API server to garbage-collect the object.
func removeFinalizer(ctx context.Context, c client.Client, node *stellarv1alpha1.StellarNode) error {
	if !controllerutil.ContainsFinalizer(node, constants.FinalizerName) {
		return nil
	}
	patch := client.MergeFrom(node.DeepCopy())
	controllerutil.RemoveFinalizer(node, constants.FinalizerName)
	return c.Patch(ctx, node, patch)
}
