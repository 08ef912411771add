package insurance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(v float64) func() float64 {
	return func() float64 { return v }
}

func TestRandomServiceThreshold(t *testing.T) {
	ctx := context.Background()
	sub := Subscriber{Carrier: " Delta Dental ", Zip: "10001"}

	got, err := NewRandomService(0.7, fixed(0.69), nil).Check(ctx, sub)
	require.NoError(t, err)
	assert.True(t, got.Eligible)
	assert.Equal(t, "Delta Dental", got.Carrier)
	assert.Contains(t, got.Message, "Delta Dental")

	got, err = NewRandomService(0.7, fixed(0.7), nil).Check(ctx, sub)
	require.NoError(t, err)
	assert.False(t, got.Eligible)
}

func TestRandomServiceClampsRate(t *testing.T) {
	ctx := context.Background()
	always, _ := NewRandomService(5, fixed(0.999), nil).Check(ctx, Subscriber{Carrier: "Aetna"})
	never, _ := NewRandomService(-1, fixed(0), nil).Check(ctx, Subscriber{Carrier: "Aetna"})
	assert.True(t, always.Eligible)
	assert.False(t, never.Eligible)
}

func TestRandomServiceDefaultSourceRoughRate(t *testing.T) {
	svc := NewRandomService(0.7, nil, nil)
	eligible := 0
	const n = 2000
	for i := 0; i < n; i++ {
		got, err := svc.Check(context.Background(), Subscriber{Carrier: "Cigna"})
		require.NoError(t, err)
		if got.Eligible {
			eligible++
		}
	}
	assert.InDelta(t, 0.7, float64(eligible)/n, 0.1)
}
