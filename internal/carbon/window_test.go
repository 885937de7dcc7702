package carbon_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caxtonacollins/Stellar-K8s-sub000/internal/carbon"
)

type fakeSource struct {
	intensity int32
	err       error
}

func (f fakeSource) CurrentIntensity(ctx context.Context, regionCode string) (int32, error) {
	return f.intensity, f.err
}

func TestWindowClear(t *testing.T) {
	ctx := context.Background()

	t.Run("nil window proceeds", func(t *testing.T) {
		var w *carbon.Window
		assert.True(t, w.Clear(ctx, "us-east-1"))
	})

	t.Run("nil source proceeds", func(t *testing.T) {
		w := &carbon.Window{}
		assert.True(t, w.Clear(ctx, "us-east-1"))
	})

	t.Run("empty region proceeds", func(t *testing.T) {
		w := carbon.NewWindow(fakeSource{intensity: 900})
		assert.True(t, w.Clear(ctx, ""))
	})

	t.Run("source error proceeds", func(t *testing.T) {
		w := carbon.NewWindow(fakeSource{err: errors.New("feed unavailable")})
		assert.True(t, w.Clear(ctx, "us-east-1"))
	})

	t.Run("sentinel -1 proceeds", func(t *testing.T) {
		w := carbon.NewWindow(fakeSource{intensity: -1})
		assert.True(t, w.Clear(ctx, "us-east-1"))
	})

	t.Run("below threshold proceeds", func(t *testing.T) {
		w := carbon.NewWindow(fakeSource{intensity: 100})
		assert.True(t, w.Clear(ctx, "us-east-1"))
	})

	t.Run("above threshold defers", func(t *testing.T) {
		w := carbon.NewWindow(fakeSource{intensity: carbon.DefaultThresholdGCO2PerKWh + 1})
		assert.False(t, w.Clear(ctx, "us-east-1"))
	})

	t.Run("at threshold proceeds", func(t *testing.T) {
		w := carbon.NewWindow(fakeSource{intensity: carbon.DefaultThresholdGCO2PerKWh})
		assert.True(t, w.Clear(ctx, "us-east-1"))
	})

	t.Run("zero threshold falls back to default", func(t *testing.T) {
		w := &carbon.Window{Source: fakeSource{intensity: carbon.DefaultThresholdGCO2PerKWh + 1}}
		assert.False(t, w.Clear(ctx, "us-east-1"))
	})
}
