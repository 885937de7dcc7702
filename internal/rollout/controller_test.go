package rollout_test

import (
	"context"
	"testing"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	stellarv1alpha1 "github.com/caxtonacollins/Stellar-K8s-sub000/api/v1alpha1"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/carbon"
	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/rollout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCarbonSource struct{ intensity int32 }

func (f fakeCarbonSource) CurrentIntensity(ctx context.Context, regionCode string) (int32, error) {
	return f.intensity, nil
}

func newScheme(t *testing.T) *runtime.Scheme {
	scheme := runtime.NewScheme()
	require.NoError(t, appsv1.AddToScheme(scheme))
	require.NoError(t, corev1.AddToScheme(scheme))
	require.NoError(t, stellarv1alpha1.AddToScheme(scheme))
	return scheme
}

func stableDeployment(name, namespace, image string) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: appsv1.DeploymentSpec{
			Selector: &metav1.LabelSelector{MatchLabels: map[string]string{"app": name}},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: map[string]string{"app": name}},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{Name: name, Image: image}},
				},
			},
		},
	}
}

func TestReconcileDetectDeferredInHighCarbonWindow(t *testing.T) {
	scheme := newScheme(t)
	node := &stellarv1alpha1.StellarNode{
		ObjectMeta: metav1.ObjectMeta{Name: "validator-1", Namespace: "default"},
		Spec: stellarv1alpha1.StellarNodeSpec{
			Version:     "v2",
			CarbonAware: &stellarv1alpha1.CarbonAwareSpec{RegionCode: "us-east-1"},
		},
	}
	stable := stableDeployment("validator-1", "default", "stellar/core:v1")

	c := fake.NewClientBuilder().WithScheme(scheme).WithObjects(stable).Build()
	ctrl := &rollout.Controller{
		Client: c,
		Carbon: carbon.NewWindow(fakeCarbonSource{intensity: carbon.DefaultThresholdGCO2PerKWh + 1}),
	}

	changed, err := ctrl.Reconcile(context.Background(), node, time.Now())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, node.Annotations[canaryStatusKey])
}

func TestReconcileDetectProceedsInLowCarbonWindow(t *testing.T) {
	scheme := newScheme(t)
	node := &stellarv1alpha1.StellarNode{
		ObjectMeta: metav1.ObjectMeta{Name: "validator-1", Namespace: "default"},
		Spec: stellarv1alpha1.StellarNodeSpec{
			Version:     "v2",
			CarbonAware: &stellarv1alpha1.CarbonAwareSpec{RegionCode: "us-east-1"},
		},
	}
	stable := stableDeployment("validator-1", "default", "stellar/core:v1")

	c := fake.NewClientBuilder().WithScheme(scheme).WithObjects(stable).Build()
	ctrl := &rollout.Controller{
		Client: c,
		Carbon: carbon.NewWindow(fakeCarbonSource{intensity: 100}),
	}

	changed, err := ctrl.Reconcile(context.Background(), node, time.Now())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NotEmpty(t, node.Annotations[canaryStatusKey])
}

func TestReconcileDetectWithoutCarbonAwareIgnoresWindow(t *testing.T) {
	scheme := newScheme(t)
	node := &stellarv1alpha1.StellarNode{
		ObjectMeta: metav1.ObjectMeta{Name: "validator-1", Namespace: "default"},
		Spec:       stellarv1alpha1.StellarNodeSpec{Version: "v2"},
	}
	stable := stableDeployment("validator-1", "default", "stellar/core:v1")

	c := fake.NewClientBuilder().WithScheme(scheme).WithObjects(stable).Build()
	ctrl := &rollout.Controller{
		Client: c,
		Carbon: carbon.NewWindow(fakeCarbonSource{intensity: carbon.DefaultThresholdGCO2PerKWh + 1}),
	}

	changed, err := ctrl.Reconcile(context.Background(), node, time.Now())
	require.NoError(t, err)
	assert.True(t, changed)
}

const canaryStatusKey = "stellar.org/canary-status"
