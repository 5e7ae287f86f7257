package easing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurveEndpoints(t *testing.T) {
	for name, f := range map[string]Func{
		"linear":      Linear,
		"ease_in":     EaseIn,
		"ease_out":    EaseOut,
		"ease_in_out": EaseInOut,
	} {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, 0.0, f(0), 1e-9)
			assert.InDelta(t, 1.0, f(1), 1e-9)
		})
	}
}

func TestEaseInOutMidpoint(t *testing.T) {
	assert.InDelta(t, 0.5, EaseInOut(0.5), 1e-9)
}

func TestMonotonic(t *testing.T) {
	for name, f := range map[string]Func{
		"linear":      Linear,
		"ease_in":     EaseIn,
		"ease_out":    EaseOut,
		"ease_in_out": EaseInOut,
	} {
		t.Run(name, func(t *testing.T) {
			prev := f(0)
			for i := 1; i <= 20; i++ {
				v := f(float64(i) / 20)
				assert.GreaterOrEqual(t, v, prev)
				prev = v
			}
		})
	}
}

func TestKindFunc(t *testing.T) {
	assert.Equal(t, "ease_in_out", KindEaseInOut.String())
	assert.InDelta(t, EaseIn(0.3), KindEaseIn.Func()(0.3), 1e-9)
}
