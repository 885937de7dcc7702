package webhook_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/carbon"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/webhook"
)

func TestDefaultRejectsWrongType(t *testing.T) {
	d := &webhook.Defaulter{}
	err := d.Default(context.Background(), &stellarv1alpha1.StellarNodeList{})
	require.Error(t, err)
}

func TestDefaultCanaryCheckInterval(t *testing.T) {
	d := &webhook.Defaulter{}
	node := &stellarv1alpha1.StellarNode{}

	require.NoError(t, d.Default(context.Background(), node))
	assert.EqualValues(t, 300, node.Spec.RolloutStrategy.CheckIntervalSeconds)
}

func TestDefaultCanaryCheckIntervalLeavesExplicitValue(t *testing.T) {
	d := &webhook.Defaulter{}
	node := &stellarv1alpha1.StellarNode{}
	node.Spec.RolloutStrategy.CheckIntervalSeconds = 60

	require.NoError(t, d.Default(context.Background(), node))
	assert.EqualValues(t, 60, node.Spec.RolloutStrategy.CheckIntervalSeconds)
}

func TestDefaultDRPeerClusters(t *testing.T) {
	d := &webhook.Defaulter{}
	node := &stellarv1alpha1.StellarNode{}
	node.Spec.DisasterRecovery = &stellarv1alpha1.DisasterRecoverySpec{
		PeerClusters: []stellarv1alpha1.DRPeerCluster{
			{ID: "eu-west", Endpoint: "https://eu-west.example"},
		},
	}

	require.NoError(t, d.Default(context.Background(), node))

	peer := node.Spec.DisasterRecovery.PeerClusters[0]
	assert.EqualValues(t, 10, peer.HealthCheckIntervalSeconds)
	assert.EqualValues(t, 5, peer.HealthCheckTimeoutSeconds)
	assert.EqualValues(t, 3, peer.FailureThreshold)
	assert.EqualValues(t, 2, peer.SuccessThreshold)
}

func TestDefaultCarbonAwareThreshold(t *testing.T) {
	d := &webhook.Defaulter{}
	node := &stellarv1alpha1.StellarNode{}
	node.Spec.CarbonAware = &stellarv1alpha1.CarbonAwareSpec{RegionCode: "us-east-1"}

	require.NoError(t, d.Default(context.Background(), node))
	assert.EqualValues(t, carbon.DefaultThresholdGCO2PerKWh, node.Spec.CarbonAware.MaxIntensityGCO2PerKWh)
}
